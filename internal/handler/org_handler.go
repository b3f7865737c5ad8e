package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"devasthan/internal/service"
)

// OrgHandler handles organization and operator management endpoints.
type OrgHandler struct {
	orgService  service.OrgService
	userService service.UserService
}

// NewOrgHandler creates a new OrgHandler.
func NewOrgHandler(orgService service.OrgService, userService service.UserService) *OrgHandler {
	return &OrgHandler{orgService: orgService, userService: userService}
}

// GetCurrent handles GET /api/v1/org
func (h *OrgHandler) GetCurrent(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	org, err := h.orgService.GetByID(c.Request.Context(), orgID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, org)
}

// UpdateCurrent handles PUT /api/v1/org
func (h *OrgHandler) UpdateCurrent(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.UpdateOrgInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	org, err := h.orgService.Update(c.Request.Context(), orgID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, org)
}

// CreateUser handles POST /api/v1/org/users
func (h *OrgHandler) CreateUser(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	user, err := h.userService.Create(c.Request.Context(), orgID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, user)
}

// ListUsers handles GET /api/v1/org/users
func (h *OrgHandler) ListUsers(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	users, total, err := h.userService.List(c.Request.Context(), orgID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, users, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// UpdateUser handles PUT /api/v1/org/users/:id
func (h *OrgHandler) UpdateUser(c *gin.Context) {
	orgID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user id")
		return
	}

	var input service.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	user, err := h.userService.Update(c.Request.Context(), orgID, userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, user)
}
