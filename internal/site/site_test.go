package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/middleware"
	eventDto "quezon.gov.ph/portal/internal/modules/event/dto"
	newsDto "quezon.gov.ph/portal/internal/modules/news/dto"
	"quezon.gov.ph/portal/pkg/apperror"
	commonDto "quezon.gov.ph/portal/pkg/dto"
)

type fakeNews struct {
	items []entity.News
	calls int
}

func (f *fakeNews) GetPublished(ctx context.Context, filter newsDto.NewsFilter) (*commonDto.Paginated[entity.News], error) {
	f.calls++
	return &commonDto.Paginated[entity.News]{Data: f.items, Meta: commonDto.NewPaginationMeta(commonDto.PageQuery{Page: 1, Limit: 10}, int64(len(f.items)))}, nil
}

func (f *fakeNews) GetPublishedByID(ctx context.Context, id uuid.UUID) (*entity.News, error) {
	for _, n := range f.items {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, apperror.ErrNotFound
}

type fakeEvents struct{ categories []string }

func (f *fakeEvents) GetPublic(ctx context.Context, filter eventDto.EventFilter) (*commonDto.Paginated[entity.Event], error) {
	f.categories = append(f.categories, filter.Category)
	return &commonDto.Paginated[entity.Event]{Data: []entity.Event{{
		ID:        uuid.New(),
		Title:     "Kaamulan Street Dance",
		EventDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}}}, nil
}

func setup(t *testing.T, opts Options) (*gin.Engine, *fakeNews) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	news := &fakeNews{items: []entity.News{{
		ID:        uuid.New(),
		Title:     gofakeit.Sentence(4),
		Content:   `<p>Road works</p><script>alert(1)</script>`,
		Status:    entity.ContentPublished,
		CreatedAt: time.Now(),
	}}}
	if opts.News == nil {
		opts.News = news
	}

	s, err := New(opts)
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.Recovery(false))
	s.Register(r)
	return r, news
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestEveryPageRenders(t *testing.T) {
	r, _ := setup(t, Options{})
	for _, p := range Pages() {
		w := get(r, p.Path)
		assert.Equal(t, http.StatusOK, w.Code, p.Path)
		assert.Contains(t, w.Body.String(), "<title>"+strings.ReplaceAll(p.Title, "'", "&#39;"), p.Path)
	}
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	r, _ := setup(t, Options{})

	w := get(r, "/no/such/page")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page Not Found")

	w = get(r, "/api/no-such-endpoint")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func TestHomeDefersSectionsUntilRequested(t *testing.T) {
	events := &fakeEvents{}
	r, news := setup(t, Options{Events: events})

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `data-lazy-section="/sections/home/news"`)
	assert.Contains(t, body, `data-lazy-section="/sections/home/events"`)
	assert.Contains(t, body, `src="/assets/deferred.js"`)
	assert.Zero(t, news.calls)
	assert.Empty(t, events.categories)

	w = get(r, "/sections/home/events")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kaamulan Street Dance")
	assert.Contains(t, w.Body.String(), "March 1, 2026 8:00 AM")
	assert.Equal(t, []string{""}, events.categories)

	w = get(r, "/?eager=1")
	assert.NotContains(t, w.Body.String(), "data-lazy-section")
	assert.Equal(t, 1, news.calls)

	assert.Equal(t, http.StatusNotFound, get(r, "/sections/home/nope").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/sections/nope/intro").Code)
}

func TestNewsDetail(t *testing.T) {
	r, news := setup(t, Options{})

	w := get(r, "/news/"+news.items[0].ID.String())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<p>Road works</p>")
	assert.NotContains(t, w.Body.String(), "alert(1)")

	assert.Equal(t, http.StatusNotFound, get(r, "/news/"+uuid.NewString()).Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/news/not-an-id").Code)
}

func TestMaintenanceMode(t *testing.T) {
	r, _ := setup(t, Options{Maintenance: true})

	w := get(r, "/about")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Scheduled Maintenance")
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, get(r, "/maintenance").Code)
}

func TestDownloads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "business-permit-form.pdf"), make([]byte, 2048), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))
	r, _ := setup(t, Options{DownloadsDir: dir})

	w := get(r, "/transparency/downloads")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/downloads/business-permit-form.pdf"`)
	assert.Contains(t, w.Body.String(), "2.0 KB")
	assert.NotContains(t, w.Body.String(), ".hidden")

	w = get(r, "/downloads/business-permit-form.pdf")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2048, w.Body.Len())

	assert.Equal(t, http.StatusNotFound, get(r, "/downloads/missing.pdf").Code)
}

func TestSitemapFollowsRouteTable(t *testing.T) {
	entries := Sitemap()

	var governance *SitemapEntry
	for i := range entries {
		assert.NotEqual(t, "/admin", entries[i].Path)
		assert.NotEqual(t, "/auth", entries[i].Path)
		if entries[i].Path == "/governance" {
			governance = &entries[i]
		}
	}
	require.NotNil(t, governance)
	assert.Len(t, governance.Children, 4)

	r, _ := setup(t, Options{})
	body := get(r, "/sitemap").Body.String()
	for _, p := range Pages() {
		if p.Hidden {
			continue
		}
		assert.Contains(t, body, `href="`+p.Path+`"`)
	}
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", humanSize(512))
	assert.Equal(t, "1.5 KB", humanSize(1536))
	assert.Equal(t, "3.0 MB", humanSize(3*1024*1024))
}
