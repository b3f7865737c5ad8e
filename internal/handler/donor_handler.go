package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devasthan/internal/service"
)

// DonorHandler handles donor profile endpoints.
type DonorHandler struct {
	donorService service.DonorService
	resolver     service.ResolverService
}

// NewDonorHandler creates a new DonorHandler.
func NewDonorHandler(donorService service.DonorService, resolver service.ResolverService) *DonorHandler {
	return &DonorHandler{donorService: donorService, resolver: resolver}
}

// Get handles GET /api/v1/donors/:id
func (h *DonorHandler) Get(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	donor, err := h.donorService.Get(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, donor)
}

// List handles GET /api/v1/donors
func (h *DonorHandler) List(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	query := c.Query("q")

	var err error
	var donors interface{}
	var total int
	if query != "" {
		donors, total, err = h.donorService.Search(c.Request.Context(), orgID, query, offset, limit)
	} else {
		donors, total, err = h.donorService.List(c.Request.Context(), orgID, offset, limit)
	}
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, donors, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Statement handles GET /api/v1/donors/:id/statement
func (h *DonorHandler) Statement(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	stmt, err := h.donorService.Statement(c.Request.Context(), orgID, c.Param("id"), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stmt)
}

// Resolve handles POST /api/v1/donors/resolve — a dry-run identity lookup
// for the front desk: given contact fields, which donor would this be?
func (h *DonorHandler) Resolve(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var info service.DonorInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	res, err := h.resolver.Resolve(c.Request.Context(), orgID, info)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"donor_id": res.DonorID,
		"is_new":   res.IsNew,
		"profile":  res.Profile,
	})
}
