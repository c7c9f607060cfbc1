package service

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/metrics"
	"quezon.gov.ph/portal/internal/modules/search/dto"
	"quezon.gov.ph/portal/internal/modules/search/repository"
)

const (
	IndexNews      = "news"
	IndexEvents    = "events"
	IndexDocuments = "documents"
)

type SearchService interface {
	IndexNews(news *entity.News) error
	IndexEvent(event *entity.Event) error
	IndexDocument(doc *entity.Document) error
	Remove(index, id string) error
	Search(ctx context.Context, query string, limit int) (*dto.SearchResponse, error)
	Reindex(ctx context.Context) error
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	source    repository.SourceRepository
	sanitizer *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager, source repository.SourceRepository) SearchService {
	s := &meiliSearchService{
		client:    client,
		source:    source,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	settings := map[string][]string{
		IndexNews:      {"category", "tags"},
		IndexEvents:    {"category", "status"},
		IndexDocuments: {"category", "department"},
	}
	for index, attrs := range settings {
		filterable := make([]any, len(attrs))
		for i, v := range attrs {
			filterable[i] = v
		}
		if _, err := s.client.Index(index).UpdateFilterableAttributes(&filterable); err != nil {
			log.Printf("Failed to update %s filterable attributes: %v", index, err)
		}
	}

	newsSortable := []string{"publish_date"}
	if _, err := s.client.Index(IndexNews).UpdateSortableAttributes(&newsSortable); err != nil {
		log.Printf("Failed to update news sortable attributes: %v", err)
	}
	eventSortable := []string{"event_date"}
	if _, err := s.client.Index(IndexEvents).UpdateSortableAttributes(&eventSortable); err != nil {
		log.Printf("Failed to update events sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

// cleanText reduces stored HTML to plain searchable text.
func (s *meiliSearchService) cleanText(content string) string {
	for _, tag := range []string{"</p>", "<br>", "<br/>", "<br />", "</div>", "</li>", "</h1>", "</h2>", "</h3>"} {
		content = strings.ReplaceAll(content, tag, " ")
	}
	cleanText := html.UnescapeString(s.sanitizer.Sanitize(content))
	return strings.Join(strings.Fields(cleanText), " ")
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strPtr(s string) *string {
	return &s
}

func (s *meiliSearchService) newsDoc(n *entity.News) dto.NewsHit {
	doc := dto.NewsHit{
		ID:       n.ID.String(),
		Title:    s.cleanText(n.Title),
		Excerpt:  s.cleanText(deref(n.Excerpt)),
		Category: deref(n.Category),
		Tags:     []string(n.Tags),
		ImageURL: deref(n.ImageURL),
	}
	if doc.Excerpt == "" {
		doc.Excerpt = truncate(s.cleanText(n.Content), 280)
	}
	if n.PublishDate != nil {
		doc.PublishDate = n.PublishDate.Unix()
	} else {
		doc.PublishDate = n.CreatedAt.Unix()
	}
	return doc
}

func (s *meiliSearchService) eventDoc(e *entity.Event) dto.EventHit {
	location := deref(e.Location)
	if location == "" {
		location = deref(e.Venue)
	}
	return dto.EventHit{
		ID:          e.ID.String(),
		Title:       s.cleanText(e.Title),
		Description: s.cleanText(e.Description),
		Location:    location,
		Category:    deref(e.Category),
		Status:      string(e.Status),
		EventDate:   e.EventDate.Unix(),
	}
}

func (s *meiliSearchService) documentDoc(d *entity.Document) dto.DocumentHit {
	return dto.DocumentHit{
		ID:          d.ID.String(),
		Title:       s.cleanText(d.Title),
		Description: s.cleanText(deref(d.Description)),
		Category:    d.Category,
		Department:  deref(d.Department),
		FileURL:     d.FileURL,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

func (s *meiliSearchService) add(index string, docs any) error {
	if _, err := s.client.Index(index).AddDocuments(docs, strPtr("id")); err != nil {
		metrics.SearchIndexErrors.Inc()
		return fmt.Errorf("index %s: %w", index, err)
	}
	return nil
}

// IndexNews stores published news and removes anything else.
func (s *meiliSearchService) IndexNews(n *entity.News) error {
	if n.Status != entity.ContentPublished {
		return s.Remove(IndexNews, n.ID.String())
	}
	return s.add(IndexNews, []dto.NewsHit{s.newsDoc(n)})
}

func (s *meiliSearchService) IndexEvent(e *entity.Event) error {
	return s.add(IndexEvents, []dto.EventHit{s.eventDoc(e)})
}

func (s *meiliSearchService) IndexDocument(d *entity.Document) error {
	if d.Status != entity.ContentPublished {
		return s.Remove(IndexDocuments, d.ID.String())
	}
	return s.add(IndexDocuments, []dto.DocumentHit{s.documentDoc(d)})
}

func (s *meiliSearchService) Remove(index, id string) error {
	if _, err := s.client.Index(index).DeleteDocument(id); err != nil {
		metrics.SearchIndexErrors.Inc()
		return fmt.Errorf("remove %s/%s: %w", index, id, err)
	}
	return nil
}

type rawHits[T any] struct {
	Hits []T `json:"hits"`
}

func searchIndex[T any](client meilisearch.ServiceManager, index, query string, limit int) ([]T, error) {
	raw, err := client.Index(index).SearchRaw(query, &meilisearch.SearchRequest{Limit: int64(limit)})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", index, err)
	}
	var out rawHits[T]
	if raw != nil {
		if err := json.Unmarshal(*raw, &out); err != nil {
			return nil, fmt.Errorf("decode %s hits: %w", index, err)
		}
	}
	if out.Hits == nil {
		out.Hits = []T{}
	}
	return out.Hits, nil
}

func (s *meiliSearchService) Search(ctx context.Context, query string, limit int) (*dto.SearchResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	query = strings.TrimSpace(query)

	news, err := searchIndex[dto.NewsHit](s.client, IndexNews, query, limit)
	if err != nil {
		return nil, err
	}
	events, err := searchIndex[dto.EventHit](s.client, IndexEvents, query, limit)
	if err != nil {
		return nil, err
	}
	docs, err := searchIndex[dto.DocumentHit](s.client, IndexDocuments, query, limit)
	if err != nil {
		return nil, err
	}

	return &dto.SearchResponse{Query: query, News: news, Events: events, Documents: docs}, nil
}

// Reindex rebuilds every index from the database.
func (s *meiliSearchService) Reindex(ctx context.Context) error {
	news, err := s.source.PublishedNews(ctx)
	if err != nil {
		return fmt.Errorf("load news: %w", err)
	}
	events, err := s.source.Events(ctx)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	docs, err := s.source.PublishedDocuments(ctx)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}

	newsDocs := make([]dto.NewsHit, 0, len(news))
	for i := range news {
		newsDocs = append(newsDocs, s.newsDoc(&news[i]))
	}
	eventDocs := make([]dto.EventHit, 0, len(events))
	for i := range events {
		eventDocs = append(eventDocs, s.eventDoc(&events[i]))
	}
	documentDocs := make([]dto.DocumentHit, 0, len(docs))
	for i := range docs {
		documentDocs = append(documentDocs, s.documentDoc(&docs[i]))
	}

	batches := []struct {
		index string
		docs  any
		n     int
	}{
		{IndexNews, newsDocs, len(newsDocs)},
		{IndexEvents, eventDocs, len(eventDocs)},
		{IndexDocuments, documentDocs, len(documentDocs)},
	}
	for _, b := range batches {
		if _, err := s.client.Index(b.index).DeleteAllDocuments(); err != nil {
			return fmt.Errorf("clear %s: %w", b.index, err)
		}
		if b.n == 0 {
			continue
		}
		if err := s.add(b.index, b.docs); err != nil {
			return err
		}
	}

	log.Printf("Reindexed %d news, %d events, %d documents", len(newsDocs), len(eventDocs), len(documentDocs))
	return nil
}
