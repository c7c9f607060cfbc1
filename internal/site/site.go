// Package site serves the public pages of the portal from embedded
// templates.
package site

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"quezon.gov.ph/portal/internal/entity"
	"quezon.gov.ph/portal/internal/lazysection"
	bacDto "quezon.gov.ph/portal/internal/modules/bac/dto"
	documentDto "quezon.gov.ph/portal/internal/modules/document/dto"
	eventDto "quezon.gov.ph/portal/internal/modules/event/dto"
	newsDto "quezon.gov.ph/portal/internal/modules/news/dto"
	"quezon.gov.ph/portal/pkg/apperror"
	commonDto "quezon.gov.ph/portal/pkg/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

type NewsSource interface {
	GetPublished(ctx context.Context, filter newsDto.NewsFilter) (*commonDto.Paginated[entity.News], error)
	GetPublishedByID(ctx context.Context, id uuid.UUID) (*entity.News, error)
}

type EventSource interface {
	GetPublic(ctx context.Context, filter eventDto.EventFilter) (*commonDto.Paginated[entity.Event], error)
}

type DocumentSource interface {
	GetPublished(ctx context.Context, filter documentDto.DocumentFilter) (*commonDto.Paginated[entity.Document], error)
}

type BacSource interface {
	GetPublic(ctx context.Context, filter bacDto.BacFilter) (*commonDto.Paginated[entity.BacDocument], error)
}

// Options wires the data behind the dynamic sections. Any source may be nil,
// in which case its sections render empty.
type Options struct {
	News         NewsSource
	Events       EventSource
	Documents    DocumentSource
	Bac          BacSource
	DownloadsDir string
	Maintenance  bool
}

type loader func(c *gin.Context) (any, error)

type Site struct {
	tmpl     *template.Template
	renderer *lazysection.Renderer
	opts     Options
	loaders  map[string]loader
}

func New(opts Options) (*Site, error) {
	rich := bluemonday.UGCPolicy()
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"date": func(t time.Time) string {
			return t.In(commonDto.PhilippineTime).Format("January 2, 2006")
		},
		"datetime": func(t time.Time) string {
			return t.In(commonDto.PhilippineTime).Format("January 2, 2006 3:04 PM")
		},
		"rich": func(s string) template.HTML {
			return template.HTML(rich.Sanitize(s))
		},
		"peso": func(v float64) string {
			return fmt.Sprintf("₱%.2f", v)
		},
		"add": func(delta, n int) int {
			return n + delta
		},
		"label": func(s string) string {
			s = strings.ReplaceAll(s, "_", " ")
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("site: parse templates: %w", err)
	}

	s := &Site{tmpl: tmpl, renderer: lazysection.NewRenderer(tmpl), opts: opts}
	s.loaders = map[string]loader{
		"home/news":                 s.latestNews(3),
		"home/events":               s.upcomingEvents(""),
		"festivals/events":          s.upcomingEvents("festival"),
		"news/list":                 s.newsPage,
		"news-detail/intro":         s.newsDetail,
		"bac/documents":             s.bacDocuments,
		"full-disclosure/documents": s.publishedDocuments,
		"downloads/files":           s.downloadFiles,
		"sitemap/intro":             func(*gin.Context) (any, error) { return Sitemap(), nil },
	}
	return s, nil
}

// Register mounts every page, the section fragments, the loader script and
// the static downloads, plus the not-found fallback.
func (s *Site) Register(r *gin.Engine) {
	r.GET(lazysection.ScriptPath, lazysection.ScriptHandler)
	if s.opts.DownloadsDir != "" {
		r.Static("/downloads", s.opts.DownloadsDir)
	}

	g := r.Group("")
	g.Use(s.maintenanceGate())
	for _, p := range pages {
		g.GET(p.Path, s.page(p))
	}
	g.GET(newsDetailPage.Path, s.page(newsDetailPage))
	g.GET("/sections/:page/:section", s.Section)

	r.NoRoute(s.NotFound)
}

func (s *Site) maintenanceGate() gin.HandlerFunc {
	maintenance, _ := pageByName("maintenance")
	return func(c *gin.Context) {
		if !s.opts.Maintenance || c.FullPath() == maintenance.Path {
			c.Next()
			return
		}
		c.Header("Retry-After", "3600")
		s.render(c, http.StatusServiceUnavailable, maintenance)
		c.Abort()
	}
}

func (s *Site) page(p Page) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.render(c, http.StatusOK, p)
	}
}

// NotFound answers unknown API paths with JSON and everything else with the
// not-found page.
func (s *Site) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	s.render(c, http.StatusNotFound, notFoundPage)
}

// Section serves one fragment for the deferred loader.
func (s *Site) Section(c *gin.Context) {
	p, ok := pageByName(c.Param("page"))
	if !ok {
		c.String(http.StatusNotFound, "")
		return
	}
	sec, ok := p.section(c.Param("section"))
	if !ok {
		c.String(http.StatusNotFound, "")
		return
	}

	data, err := s.data(c, sec.Template)
	if err != nil {
		log.Printf("[Site] section %s/%s: %v", p.Name, sec.Name, err)
		c.Data(http.StatusServiceUnavailable, "text/html; charset=utf-8", []byte(`<p class="section-error">This section is unavailable right now.</p>`))
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Fragment(c.Writer, sec, data); err != nil {
		log.Printf("[Site] render section %s/%s: %v", p.Name, sec.Name, err)
	}
}

func (s *Site) data(c *gin.Context, name string) (any, error) {
	l, ok := s.loaders[name]
	if !ok {
		return nil, nil
	}
	return l(c)
}

type layoutData struct {
	Title       string
	Path        string
	Nav         []SitemapEntry
	Sections    []template.HTML
	Maintenance bool
	Year        int
}

func (s *Site) render(c *gin.Context, status int, p Page) {
	sections, err := s.renderer.Render(p.Name, p.Sections, func(sec lazysection.Section) (any, error) {
		return s.data(c, sec.Template)
	}, lazysection.Eager(c))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) && p.Name != notFoundPage.Name {
			s.render(c, http.StatusNotFound, notFoundPage)
			return
		}
		// the recovery middleware renders the error page
		panic(fmt.Errorf("render %s: %w", p.Name, err))
	}

	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	err = s.tmpl.ExecuteTemplate(c.Writer, "layout", layoutData{
		Title:       p.Title,
		Path:        c.Request.URL.Path,
		Nav:         navigation(),
		Sections:    sections,
		Maintenance: s.opts.Maintenance,
		Year:        time.Now().In(commonDto.PhilippineTime).Year(),
	})
	if err != nil {
		log.Printf("[Site] layout %s: %v", p.Name, err)
	}
}

func (s *Site) latestNews(n int) loader {
	return func(c *gin.Context) (any, error) {
		if s.opts.News == nil {
			return []entity.News{}, nil
		}
		res, err := s.opts.News.GetPublished(c.Request.Context(), newsDto.NewsFilter{PageQuery: commonDto.PageQuery{Page: 1, Limit: n}})
		if err != nil {
			return nil, err
		}
		return res.Data, nil
	}
}

func (s *Site) newsPage(c *gin.Context) (any, error) {
	var filter newsDto.NewsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		filter = newsDto.NewsFilter{}
	}
	filter.Normalize()
	if s.opts.News == nil {
		return &commonDto.Paginated[entity.News]{Data: []entity.News{}, Meta: commonDto.NewPaginationMeta(filter.PageQuery, 0)}, nil
	}
	return s.opts.News.GetPublished(c.Request.Context(), filter)
}

func (s *Site) newsDetail(c *gin.Context) (any, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || s.opts.News == nil {
		return nil, fmt.Errorf("news %q: %w", c.Param("id"), apperror.ErrNotFound)
	}
	return s.opts.News.GetPublishedByID(c.Request.Context(), id)
}

func (s *Site) upcomingEvents(category string) loader {
	return func(c *gin.Context) (any, error) {
		if s.opts.Events == nil {
			return []entity.Event{}, nil
		}
		res, err := s.opts.Events.GetPublic(c.Request.Context(), eventDto.EventFilter{
			PageQuery: commonDto.PageQuery{Page: 1, Limit: 4},
			Category:  category,
		})
		if err != nil {
			return nil, err
		}
		return res.Data, nil
	}
}

func (s *Site) bacDocuments(c *gin.Context) (any, error) {
	if s.opts.Bac == nil {
		return []entity.BacDocument{}, nil
	}
	res, err := s.opts.Bac.GetPublic(c.Request.Context(), bacDto.BacFilter{PageQuery: commonDto.PageQuery{Page: 1, Limit: 20}})
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (s *Site) publishedDocuments(c *gin.Context) (any, error) {
	if s.opts.Documents == nil {
		return []entity.Document{}, nil
	}
	res, err := s.opts.Documents.GetPublished(c.Request.Context(), documentDto.DocumentFilter{PageQuery: commonDto.PageQuery{Page: 1, Limit: 50}})
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// DownloadFile is one static form under the downloads directory.
type DownloadFile struct {
	Name string
	URL  string
	Size string
}

func (s *Site) downloadFiles(*gin.Context) (any, error) {
	files := []DownloadFile{}
	if s.opts.DownloadsDir == "" {
		return files, nil
	}
	entries, err := os.ReadDir(s.opts.DownloadsDir)
	if errors.Is(err, os.ErrNotExist) {
		return files, nil
	}
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, DownloadFile{
			Name: e.Name(),
			URL:  "/downloads/" + e.Name(),
			Size: humanSize(info.Size()),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
