package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"devasthan/internal/domain"
	"devasthan/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error
// codes. Store-level detail never crosses this boundary; every outcome is
// one of the documented machine-readable codes.
func MapDomainError(err error) (status int, code, msg string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, "VALIDATION_ERROR", ve.Error()
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrOrgInactive):
		return http.StatusForbidden, "ORG_INACTIVE", "organization is inactive"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already exists for this organization"
	case errors.Is(err, domain.ErrDuplicateOrgSlug):
		return http.StatusConflict, "DUPLICATE_SLUG", "organization slug already exists"
	case errors.Is(err, domain.ErrRangeExists):
		return http.StatusConflict, "RANGE_EXISTS", "range with this id already exists"
	case errors.Is(err, domain.ErrRangeOverlap):
		return http.StatusConflict, "RANGE_OVERLAP", "range bounds overlap an existing range for this year"
	case errors.Is(err, domain.ErrActiveRangeExists):
		return http.StatusConflict, "ACTIVE_RANGE_EXISTS", "another range is already active for this year"
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		return http.StatusConflict, "INVALID_STATUS_TRANSITION", "range status does not permit this transition"
	case errors.Is(err, domain.ErrNoActiveRange):
		return http.StatusConflict, "NO_ACTIVE_RANGE", "no active receipt range for this year"
	case errors.Is(err, domain.ErrYearMismatch):
		return http.StatusConflict, "YEAR_MISMATCH", "donation date falls outside the active range's year"
	case errors.Is(err, domain.ErrRangeExhausted):
		return http.StatusConflict, "RANGE_EXHAUSTED", "range has no receipt numbers remaining"
	case errors.Is(err, domain.ErrRangeNotActive):
		return http.StatusConflict, "RANGE_NOT_ACTIVE", "range is no longer active"
	case errors.Is(err, domain.ErrRangeDeleted):
		return http.StatusConflict, "RANGE_DELETED", "range no longer exists"
	case errors.Is(err, domain.ErrAllocationConflict):
		return http.StatusConflict, "ALLOCATION_CONFLICT", "allocation lost the update race; retry the request"
	case errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict, "VERSION_CONFLICT", "range was modified concurrently; refetch and retry"
	case errors.Is(err, domain.ErrDonorNotFound):
		return http.StatusNotFound, "DONOR_NOT_FOUND", "donor not found"
	case errors.Is(err, domain.ErrAliasExists):
		return http.StatusConflict, "ALIAS_EXISTS", "donor identity changed concurrently; retry the request"
	case errors.Is(err, domain.ErrReceiptNotFound):
		return http.StatusNotFound, "RECEIPT_NOT_FOUND", "receipt not found"
	case errors.Is(err, domain.ErrReceiptExists):
		return http.StatusConflict, "RECEIPT_EXISTS", "receipt number already recorded"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractAuthContext extracts org ID, user ID, and role from the request
// context. Returns false if auth context is missing (error response already
// written).
func extractAuthContext(c *gin.Context) (orgID, userID uuid.UUID, role domain.UserRole, ok bool) {
	var err error
	orgID, err = middleware.GetOrgID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing organization context")
		return uuid.Nil, uuid.Nil, "", false
	}
	userID, err = middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, uuid.Nil, "", false
	}
	role = domain.UserRole(middleware.GetRole(c))
	return orgID, userID, role, true
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		log.Printf("internal error (rid=%s): %v", c.GetString(middleware.ContextKeyRequestID), err)
	}
	RespondError(c, status, code, msg)
}
