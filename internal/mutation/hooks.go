// Package mutation runs the side effects shared by every admin write:
// listing cache invalidation, upload attachment and the mutation counter.
package mutation

import (
	"context"
	"log"

	"quezon.gov.ph/portal/internal/metrics"
	"quezon.gov.ph/portal/pkg/cache"
)

const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Attacher marks stored uploads as referenced by content.
type Attacher interface {
	MarkAttached(ctx context.Context, fileURLs ...string) error
}

type Hooks struct {
	cache    *cache.Cache
	attacher Attacher
}

// New accepts nil for either dependency; the matching step is skipped.
func New(c *cache.Cache, attacher Attacher) *Hooks {
	return &Hooks{cache: c, attacher: attacher}
}

// After runs once a write to entity has committed. Failures are logged and
// never undo the write.
func (h *Hooks) After(ctx context.Context, entity, op string, fileURLs ...string) {
	metrics.ContentMutations.WithLabelValues(entity, op).Inc()

	if h == nil {
		return
	}

	h.cache.Invalidate(ctx, entity)

	if h.attacher == nil || op == OpDelete {
		return
	}
	urls := fileURLs[:0:0]
	for _, u := range fileURLs {
		if u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return
	}
	if err := h.attacher.MarkAttached(ctx, urls...); err != nil {
		log.Printf("mark uploads attached for %s: %v", entity, err)
	}
}

// Deref returns *p or "" for nil, for passing optional URLs to After.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
