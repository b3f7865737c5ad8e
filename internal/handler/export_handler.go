package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"devasthan/internal/service"
)

// ExportHandler handles donation register export endpoints.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Download handles GET /api/v1/exports/donations — streams the register in
// the requested format (csv default, xlsx optional).
func (h *ExportHandler) Download(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	filter, err := parseDonationFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="donations-%s.xlsx"`, stamp))
		_, err = h.exportService.WriteExcel(c.Request.Context(), orgID, filter, c.Writer)
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="donations-%s.csv"`, stamp))
		_, err = h.exportService.WriteCSV(c.Request.Context(), orgID, filter, c.Writer)
	default:
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "format must be csv or xlsx")
		return
	}
	if err != nil {
		// Headers may already be out; log and abort the stream.
		HandleError(c, err)
	}
}

// Store handles POST /api/v1/exports/donations — renders the register,
// uploads it to object storage, and returns a presigned download URL.
func (h *ExportHandler) Store(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	filter, err := parseDonationFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	url, err := h.exportService.StoreExport(c.Request.Context(), orgID, filter, c.DefaultQuery("format", "csv"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}
