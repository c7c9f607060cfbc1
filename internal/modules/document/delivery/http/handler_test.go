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
	"quezon.gov.ph/portal/internal/modules/document/dto"
	"quezon.gov.ph/portal/pkg/apperror"
	commonDto "quezon.gov.ph/portal/pkg/dto"
)

const fileURL = "https://res.cloudinary.com/demo/raw/upload/v1/portal/documents/budget.pdf"

type mockService struct {
	known   uuid.UUID
	ip      string
	created int
}

func (m *mockService) List(ctx context.Context, f dto.AdminDocumentFilter) ([]entity.Document, error) {
	return []entity.Document{}, nil
}

func (m *mockService) Create(ctx context.Context, req dto.DocumentRequest) (*entity.Document, error) {
	m.created++
	return &entity.Document{ID: uuid.New(), Title: req.Title}, nil
}

func (m *mockService) Update(ctx context.Context, id uuid.UUID, req dto.DocumentRequest) (*entity.Document, error) {
	return &entity.Document{ID: id}, nil
}

func (m *mockService) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (m *mockService) GetPublished(ctx context.Context, f dto.DocumentFilter) (*commonDto.Paginated[entity.Document], error) {
	return &commonDto.Paginated[entity.Document]{Data: []entity.Document{}}, nil
}

func (m *mockService) Download(ctx context.Context, id uuid.UUID, ip string) (string, error) {
	if id != m.known {
		return "", apperror.ErrNotFound
	}
	m.ip = ip
	return fileURL, nil
}

func TestDocumentRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &mockService{known: uuid.New()}
	r := gin.New()
	h := NewDocumentHandler(svc)
	h.RegisterPublic(r.Group("/api"))
	h.RegisterAdmin(r.Group("/api/admin"))

	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+svc.known.String()+"/download", nil)
	req.RemoteAddr = "198.51.100.4:5000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fileURL, w.Header().Get("Location"))
	assert.Equal(t, "198.51.100.4", svc.ip)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/documents/"+uuid.NewString()+"/download", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	body := `{"title":"Budget","category":"finance","file_url":"not a url"}`
	create := httptest.NewRequest(http.MethodPost, "/api/admin/documents", strings.NewReader(body))
	create.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, create)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentCreateRejectsBlankFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &mockService{}
	r := gin.New()
	NewDocumentHandler(svc).RegisterAdmin(r.Group("/api/admin"))

	for _, body := range []string{
		`{"title":"   ","category":"finance","file_url":"` + fileURL + `"}`,
		`{"title":"Budget","category":" ","file_url":"` + fileURL + `"}`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/admin/documents", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Contains(t, w.Body.String(), "is required")
	}
	assert.Zero(t, svc.created)
}
