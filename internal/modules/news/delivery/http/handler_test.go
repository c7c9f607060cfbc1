package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/modules/news/dto"
	"quezon.gov.ph/portal/pkg/apperror"
	commonDto "quezon.gov.ph/portal/pkg/dto"
)

type mockService struct {
	created []dto.NewsRequest
	deleted []uuid.UUID
}

func (m *mockService) List(ctx context.Context, f dto.AdminNewsFilter) ([]entity.News, error) {
	return []entity.News{{Title: "A"}}, nil
}

func (m *mockService) Create(ctx context.Context, authorID uuid.UUID, req dto.NewsRequest) (*entity.News, error) {
	m.created = append(m.created, req)
	return &entity.News{ID: uuid.New(), Title: req.Title, Status: entity.ContentDraft}, nil
}

func (m *mockService) Update(ctx context.Context, id uuid.UUID, req dto.NewsRequest) (*entity.News, error) {
	return nil, fmt.Errorf("news %s: %w", id, apperror.ErrNotFound)
}

func (m *mockService) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockService) GetPublished(ctx context.Context, f dto.NewsFilter) (*commonDto.Paginated[entity.News], error) {
	return &commonDto.Paginated[entity.News]{Data: []entity.News{}}, nil
}

func (m *mockService) GetPublishedByID(ctx context.Context, id uuid.UUID) (*entity.News, error) {
	return nil, apperror.ErrNotFound
}

func setup() (*gin.Engine, *mockService) {
	gin.SetMode(gin.TestMode)
	svc := &mockService{}
	h := NewNewsHandler(svc)
	r := gin.New()
	h.RegisterPublic(r.Group("/api"))
	h.RegisterAdmin(r.Group("/api/admin"))
	return r, svc
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	r, svc := setup()

	w := serve(r, http.MethodPost, "/api/admin/news", `{"title":"","content":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "is required")
	assert.Empty(t, svc.created)

	w = serve(r, http.MethodPost, "/api/admin/news", `{"title":"Bridge opens","content":"<p>Today</p>","status":"live"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.created)

	w = serve(r, http.MethodPost, "/api/admin/news", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPost, "/api/admin/news", `{"title":"Bridge opens","content":"<p>Today</p>"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, svc.created, 1)
}

func TestCreateRejectsWhitespaceOnlyFields(t *testing.T) {
	r, svc := setup()

	w := serve(r, http.MethodPost, "/api/admin/news", `{"title":"   ","content":"<p>Today</p>"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Title is required")

	w = serve(r, http.MethodPost, "/api/admin/news", `{"title":"Bridge opens","content":" \n\t "}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Content is required")
	assert.Empty(t, svc.created)
}

func TestUpdateAndDeleteParams(t *testing.T) {
	r, svc := setup()

	w := serve(r, http.MethodPut, "/api/admin/news/not-a-uuid", `{"title":"a","content":"b"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPut, "/api/admin/news/"+uuid.NewString(), `{"title":"a","content":"b"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	id := uuid.New()
	w = serve(r, http.MethodDelete, "/api/admin/news/"+id.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uuid.UUID{id}, svc.deleted)
}

func TestPublicRoutes(t *testing.T) {
	r, _ := setup()

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/news?page=1&limit=5", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/api/news?limit=500", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/api/news/"+uuid.NewString(), "").Code)
}
