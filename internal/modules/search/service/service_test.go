package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"quezon.gov.ph/portal/internal/entity"
)

type recorded struct {
	method string
	path   string
	body   string
}

type fakeMeili struct {
	mu       sync.Mutex
	requests []recorded
}

func (f *fakeMeili) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{r.Method, r.URL.Path, string(body)})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if strings.HasSuffix(r.URL.Path, "/search") {
		index := strings.Split(r.URL.Path, "/")[2]
		w.WriteHeader(http.StatusOK)
		switch index {
		case IndexNews:
			_, _ = w.Write([]byte(`{"hits":[{"id":"n1","title":"Kaamulan Festival opens"}],"query":"kaamulan"}`))
		default:
			_, _ = w.Write([]byte(`{"hits":[],"query":"kaamulan"}`))
		}
		return
	}
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte(`{"taskUid":1,"indexUid":"x","status":"enqueued","type":"documentAdditionOrUpdate","enqueuedAt":"2026-01-01T00:00:00Z"}`))
}

func (f *fakeMeili) find(method, prefix string) []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recorded
	for _, r := range f.requests {
		if r.method == method && strings.HasPrefix(r.path, prefix) {
			out = append(out, r)
		}
	}
	return out
}

type fakeSource struct {
	news   []entity.News
	events []entity.Event
	docs   []entity.Document
}

func (f *fakeSource) PublishedNews(ctx context.Context) ([]entity.News, error) {
	return f.news, nil
}

func (f *fakeSource) Events(ctx context.Context) ([]entity.Event, error) {
	return f.events, nil
}

func (f *fakeSource) PublishedDocuments(ctx context.Context) ([]entity.Document, error) {
	return f.docs, nil
}

func newService(t *testing.T, src *fakeSource) (SearchService, *fakeMeili) {
	t.Helper()
	fake := &fakeMeili{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return NewMeiliSearchService(meilisearch.New(srv.URL, meilisearch.WithAPIKey("test")), src), fake
}

func TestIndexNewsPublishedIsSanitized(t *testing.T) {
	svc, fake := newService(t, &fakeSource{})
	n := &entity.News{
		ID:      uuid.New(),
		Title:   "Road <b>repairs</b>",
		Content: "<p>Work starts Monday.</p><script>alert(1)</script><p>Expect delays &amp; detours.</p>",
		Status:  entity.ContentPublished,
	}

	require.NoError(t, svc.IndexNews(n))

	adds := fake.find(http.MethodPost, "/indexes/news/documents")
	require.Len(t, adds, 1)
	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(adds[0].body), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "Road repairs", docs[0]["title"])
	assert.Equal(t, "Work starts Monday. Expect delays & detours.", docs[0]["excerpt"])
	assert.NotContains(t, adds[0].body, "alert")
}

func TestIndexDraftRemoves(t *testing.T) {
	svc, fake := newService(t, &fakeSource{})
	id := uuid.New()

	require.NoError(t, svc.IndexNews(&entity.News{ID: id, Title: "Draft", Status: entity.ContentDraft}))
	require.NoError(t, svc.IndexDocument(&entity.Document{ID: id, Title: "Old", Status: entity.ContentArchived}))

	assert.Empty(t, fake.find(http.MethodPost, "/indexes/news/documents"))
	assert.Len(t, fake.find(http.MethodDelete, "/indexes/news/documents/"+id.String()), 1)
	assert.Len(t, fake.find(http.MethodDelete, "/indexes/documents/documents/"+id.String()), 1)
}

func TestSearchQueriesAllIndexes(t *testing.T) {
	svc, fake := newService(t, &fakeSource{})

	res, err := svc.Search(context.Background(), "  kaamulan ", 5)
	require.NoError(t, err)
	assert.Equal(t, "kaamulan", res.Query)
	require.Len(t, res.News, 1)
	assert.Equal(t, "Kaamulan Festival opens", res.News[0].Title)
	assert.NotNil(t, res.Events)
	assert.Empty(t, res.Documents)

	assert.Len(t, fake.find(http.MethodPost, "/indexes/news/search"), 1)
	assert.Len(t, fake.find(http.MethodPost, "/indexes/events/search"), 1)
	assert.Len(t, fake.find(http.MethodPost, "/indexes/documents/search"), 1)
}

func TestReindex(t *testing.T) {
	src := &fakeSource{
		news:   []entity.News{{ID: uuid.New(), Title: "A", Content: "x", Status: entity.ContentPublished, CreatedAt: time.Now()}},
		events: []entity.Event{{ID: uuid.New(), Title: "Kaamulan", Description: "Festival", EventDate: time.Now(), Status: entity.EventUpcoming}},
	}
	svc, fake := newService(t, src)

	require.NoError(t, svc.Reindex(context.Background()))

	assert.Len(t, fake.find(http.MethodDelete, "/indexes/news/documents"), 1)
	assert.Len(t, fake.find(http.MethodDelete, "/indexes/documents/documents"), 1)
	assert.Len(t, fake.find(http.MethodPost, "/indexes/news/documents"), 1)
	assert.Len(t, fake.find(http.MethodPost, "/indexes/events/documents"), 1)
	assert.Empty(t, fake.find(http.MethodPost, "/indexes/documents/documents"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc…", truncate("abcdef", 3))
}
