package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "portal_http_requests_total", Help: "Total HTTP requests by route and status"},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "portal_http_request_duration_seconds", Help: "HTTP request latency", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
	ContentMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "portal_content_mutations_total", Help: "Admin mutations by entity and operation"},
		[]string{"entity", "operation"},
	)
	ContactSubmissions = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "portal_contact_submissions_total", Help: "Accepted public contact messages"},
	)
	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "portal_rate_limited_total", Help: "Requests rejected by a rate limit"},
		[]string{"action"},
	)
	OrphanUploadsRemoved = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "portal_orphan_uploads_removed_total", Help: "Unattached uploads removed by cleanup"},
	)
	SearchIndexErrors = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "portal_search_index_errors_total", Help: "Failed search index operations"},
	)
	Panics = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "portal_recovered_panics_total", Help: "Panics caught by the recovery middleware"},
	)
)

var once sync.Once

// Register adds every collector to the default registry. It is safe to call more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequests,
			HTTPDuration,
			ContentMutations,
			ContactSubmissions,
			RateLimited,
			OrphanUploadsRemoved,
			SearchIndexErrors,
			Panics,
		)
	})
}
