package portalclient

import (
	"context"
	"net/http"
	"net/url"

	"quezon.gov.ph/portal/internal/entity"
	documentDto "quezon.gov.ph/portal/internal/modules/document/dto"
	eventDto "quezon.gov.ph/portal/internal/modules/event/dto"
	newsDto "quezon.gov.ph/portal/internal/modules/news/dto"
)

// Store is the admin CRUD surface of one resource under /api/admin.
type Store[Row, Form any] struct {
	c        *Client
	resource string
}

func NewStore[Row, Form any](c *Client, resource string) *Store[Row, Form] {
	return &Store[Row, Form]{c: c, resource: resource}
}

func (s *Store[Row, Form]) path(id string) string {
	p := "/api/admin/" + s.resource
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

func (s *Store[Row, Form]) List(ctx context.Context) ([]Row, error) {
	var res struct {
		Data []Row `json:"data"`
	}
	if err := s.c.Do(ctx, http.MethodGet, s.path(""), nil, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (s *Store[Row, Form]) Create(ctx context.Context, form Form) error {
	return s.c.Do(ctx, http.MethodPost, s.path(""), form, nil)
}

func (s *Store[Row, Form]) Update(ctx context.Context, id string, form Form) error {
	return s.c.Do(ctx, http.MethodPut, s.path(id), form, nil)
}

func (s *Store[Row, Form]) Delete(ctx context.Context, id string) error {
	return s.c.Do(ctx, http.MethodDelete, s.path(id), nil, nil)
}

func (c *Client) Events() *Store[entity.Event, eventDto.EventRequest] {
	return NewStore[entity.Event, eventDto.EventRequest](c, "events")
}

func (c *Client) News() *Store[entity.News, newsDto.NewsRequest] {
	return NewStore[entity.News, newsDto.NewsRequest](c, "news")
}

func (c *Client) Documents() *Store[entity.Document, documentDto.DocumentRequest] {
	return NewStore[entity.Document, documentDto.DocumentRequest](c, "documents")
}
