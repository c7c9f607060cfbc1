package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/modules/contact/dto"
	"quezon.gov.ph/portal/pkg/apperror"
)

type mockService struct {
	submitted int
	limited   bool
}

func (m *mockService) Submit(ctx context.Context, ip string, req dto.ContactRequest) (*entity.ContactMessage, error) {
	if m.limited {
		return nil, apperror.New(http.StatusTooManyRequests, "please wait", apperror.ErrRateLimitExceeded)
	}
	m.submitted++
	return &entity.ContactMessage{ID: uuid.New(), Status: entity.MessageNew}, nil
}

func (m *mockService) List(ctx context.Context, f dto.ContactFilter) ([]entity.ContactMessage, error) {
	return nil, nil
}

func (m *mockService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*entity.ContactMessage, error) {
	return &entity.ContactMessage{ID: id, Status: entity.MessageStatus(status)}, nil
}

func (m *mockService) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func send(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestContactRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &mockService{}
	h := NewContactHandler(svc, nil, []string{"https://quezonbukidnon.gov.ph"})
	r := gin.New()
	h.RegisterPublic(r.Group("/api"))
	h.RegisterAdmin(r.Group("/api/admin"))

	valid := `{"name":"Juan","email":"juan@example.com","subject":"Permit","message":"Hello"}`

	w := send(r, http.MethodPost, "/api/contact", `{"name":"Juan","email":"not-an-email","subject":"x","message":"y"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.submitted)

	w = send(r, http.MethodPost, "/api/contact", valid)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, svc.submitted)

	svc.limited = true
	w = send(r, http.MethodPost, "/api/contact", valid)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = send(r, http.MethodPatch, "/api/admin/contact-messages/"+uuid.NewString()+"/status", `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPatch, "/api/admin/contact-messages/"+uuid.NewString()+"/status", `{"status":"in_progress"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// no redis, no feed
	w = send(r, http.MethodGet, "/api/admin/contact-messages/feed", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestFeedOriginCheck(t *testing.T) {
	h := NewContactHandler(&mockService{}, nil, []string{"https://quezonbukidnon.gov.ph"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, h.upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "https://quezonbukidnon.gov.ph")
	assert.True(t, h.upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, h.upgrader.CheckOrigin(req))
}
