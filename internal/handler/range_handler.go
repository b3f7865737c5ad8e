package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"devasthan/internal/service"
)

// RangeHandler handles receipt range management endpoints.
type RangeHandler struct {
	rangeService service.RangeService
}

// NewRangeHandler creates a new RangeHandler.
func NewRangeHandler(rangeService service.RangeService) *RangeHandler {
	return &RangeHandler{rangeService: rangeService}
}

// Create handles POST /api/v1/ranges
func (h *RangeHandler) Create(c *gin.Context) {
	orgID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CreateRangeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	rng, err := h.rangeService.Create(c.Request.Context(), orgID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, rng)
}

// List handles GET /api/v1/ranges
func (h *RangeHandler) List(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	ranges, total, err := h.rangeService.List(c.Request.Context(), orgID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, ranges, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListByYear handles GET /api/v1/ranges/year/:year
func (h *RangeHandler) ListByYear(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "year must be numeric")
		return
	}

	ranges, err := h.rangeService.ListByYear(c.Request.Context(), orgID, year)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ranges)
}

// GetByID handles GET /api/v1/ranges/:id
func (h *RangeHandler) GetByID(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	rng, err := h.rangeService.Get(c.Request.Context(), orgID, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rng)
}

// Activate handles POST /api/v1/ranges/:id/activate
func (h *RangeHandler) Activate(c *gin.Context) {
	h.applyTransition(c, h.rangeService.Activate)
}

// Lock handles POST /api/v1/ranges/:id/lock
func (h *RangeHandler) Lock(c *gin.Context) {
	h.applyTransition(c, h.rangeService.Lock)
}

// Unlock handles POST /api/v1/ranges/:id/unlock
func (h *RangeHandler) Unlock(c *gin.Context) {
	h.applyTransition(c, h.rangeService.Unlock)
}

// Archive handles POST /api/v1/ranges/:id/archive
func (h *RangeHandler) Archive(c *gin.Context) {
	h.applyTransition(c, h.rangeService.Archive)
}

func (h *RangeHandler) applyTransition(c *gin.Context, fn service.TransitionFunc) {
	orgID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	rng, err := fn(c.Request.Context(), orgID, c.Param("id"), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rng)
}

// parsePagination reads offset/limit query params with sane defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
