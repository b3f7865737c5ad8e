package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"devasthan/internal/domain"
	"devasthan/internal/handler"
	"devasthan/internal/middleware"
	"devasthan/internal/service"
	"devasthan/mocks"
)

func authedContext(w *httptest.ResponseRecorder, orgID, userID uuid.UUID) (*gin.Context, *gin.Engine) {
	c, e := gin.CreateTestContext(w)
	c.Set(middleware.ContextKeyOrgID, orgID)
	c.Set(middleware.ContextKeyUserID, userID)
	c.Set(middleware.ContextKeyRole, string(domain.RoleAdmin))
	return c, e
}

func TestRangeHandler_Create_Success(t *testing.T) {
	mockSvc := new(mocks.MockRangeService)
	h := handler.NewRangeHandler(mockSvc)
	orgID, userID := uuid.New(), uuid.New()

	expected := &domain.ReceiptRange{
		OrgID: orgID, ID: "2025-A", Year: 2025,
		StartNo: 1, EndNo: 5000, NextNo: 1,
		Status: domain.RangeStatusDraft,
	}
	mockSvc.On("Create", mock.Anything, orgID, userID, mock.MatchedBy(func(input service.CreateRangeInput) bool {
		return input.ID == "2025-A" && input.Start == 1 && input.End == 5000
	})).Return(expected, nil)

	body, _ := json.Marshal(map[string]any{
		"id": "2025-A", "year": 2025, "start": 1, "end": 5000,
	})

	w := httptest.NewRecorder()
	c, _ := authedContext(w, orgID, userID)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/ranges", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	mockSvc.AssertExpectations(t)
}

func TestRangeHandler_Create_MissingFields(t *testing.T) {
	mockSvc := new(mocks.MockRangeService)
	h := handler.NewRangeHandler(mockSvc)

	body, _ := json.Marshal(map[string]any{"id": "2025-A"})

	w := httptest.NewRecorder()
	c, _ := authedContext(w, uuid.New(), uuid.New())
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/ranges", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create")
}

func TestRangeHandler_Create_Overlap(t *testing.T) {
	mockSvc := new(mocks.MockRangeService)
	h := handler.NewRangeHandler(mockSvc)

	mockSvc.On("Create", mock.Anything, mock.Anything, mock.Anything, mock.AnythingOfType("service.CreateRangeInput")).
		Return(nil, domain.ErrRangeOverlap)

	body, _ := json.Marshal(map[string]any{
		"id": "2025-B", "year": 2025, "start": 4000, "end": 9000,
	})

	w := httptest.NewRecorder()
	c, _ := authedContext(w, uuid.New(), uuid.New())
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/ranges", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "RANGE_OVERLAP", resp.Error.Code)
}

func TestRangeHandler_Activate_InvalidTransition(t *testing.T) {
	mockSvc := new(mocks.MockRangeService)
	h := handler.NewRangeHandler(mockSvc)
	orgID, userID := uuid.New(), uuid.New()

	mockSvc.On("Activate", mock.Anything, orgID, "2025-A", userID).
		Return(nil, domain.ErrInvalidStatusTransition)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, orgID, userID)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/ranges/2025-A/activate", nil)
	c.Params = gin.Params{{Key: "id", Value: "2025-A"}}

	h.Activate(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_STATUS_TRANSITION", resp.Error.Code)
}

func TestRangeHandler_Unauthenticated(t *testing.T) {
	mockSvc := new(mocks.MockRangeService)
	h := handler.NewRangeHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/ranges", nil)

	h.List(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "List")
}
