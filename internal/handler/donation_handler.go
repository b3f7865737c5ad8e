package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"devasthan/internal/domain"
	"devasthan/internal/port"
	"devasthan/internal/service"
)

// DonationHandler handles donation receipt endpoints.
type DonationHandler struct {
	donationService service.DonationService
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(donationService service.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

// Create handles POST /api/v1/donations
func (h *DonationHandler) Create(c *gin.Context) {
	orgID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CreateDonationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.donationService.Create(c.Request.Context(), orgID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, result)
}

// GetByReceiptNo handles GET /api/v1/donations/:receiptNo
func (h *DonationHandler) GetByReceiptNo(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	donation, err := h.donationService.GetByReceiptNo(c.Request.Context(), orgID, c.Param("receiptNo"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, donation)
}

// List handles GET /api/v1/donations
func (h *DonationHandler) List(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	filter, err := parseDonationFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	donations, total, err := h.donationService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, donations, PagMeta{Total: total, Offset: filter.Offset, Limit: filter.Limit})
}

// ListByDate handles GET /api/v1/donations/date/:date — the day sheet.
func (h *DonationHandler) ListByDate(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
		return
	}

	donations, err := h.donationService.ListByDate(c.Request.Context(), orgID, date)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, donations)
}

// parseDonationFilter reads the list/export query params into a filter.
func parseDonationFilter(c *gin.Context) (port.DonationFilter, error) {
	offset, limit := parsePagination(c)
	filter := port.DonationFilter{
		DonorID: c.Query("donor_id"),
		Offset:  offset,
		Limit:   limit,
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, domain.NewValidationError("from", "must be YYYY-MM-DD")
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, domain.NewValidationError("to", "must be YYYY-MM-DD")
		}
		filter.To = &to
	}
	if raw := c.Query("payment_mode"); raw != "" {
		mode := domain.PaymentMode(raw)
		if !domain.ValidPaymentModes[mode] {
			return filter, domain.NewValidationError("payment_mode", "is not a valid payment mode")
		}
		filter.PaymentMode = mode
	}
	return filter, nil
}
