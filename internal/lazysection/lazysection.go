// Package lazysection renders below-the-fold page sections as placeholders
// that the embedded loader script swaps for the real fragment once they
// come near the viewport.
package lazysection

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

//go:embed deferred.js
var script []byte

// ScriptPath is where Handler serves the loader.
const ScriptPath = "/assets/deferred.js"

const (
	DefaultMinHeight  = 320
	DefaultRootMargin = "200px"
)

// Section is one named block of a page.
type Section struct {
	Name string
	// Template is the name of the template that renders the section body.
	Template string
	Deferred bool
	// MinHeight of the placeholder in pixels; zero means DefaultMinHeight.
	MinHeight int
	// RootMargin is how far ahead of the viewport loading starts.
	RootMargin string
}

func (s Section) minHeight() int {
	if s.MinHeight > 0 {
		return s.MinHeight
	}
	return DefaultMinHeight
}

func (s Section) rootMargin() string {
	if s.RootMargin != "" {
		return s.RootMargin
	}
	return DefaultRootMargin
}

// FragmentURL is the path the loader fetches for a section of page.
func FragmentURL(page, section string) string {
	return "/sections/" + url.PathEscape(page) + "/" + url.PathEscape(section)
}

var placeholder = template.Must(template.New("placeholder").Parse(
	`<div class="lazy-section" data-lazy-section="{{.URL}}" data-root-margin="{{.Margin}}" style="min-height: {{.Height}}px" aria-busy="true">` +
		`<noscript><a href="{{.URL}}">Show this section</a></noscript></div>`))

// Placeholder renders the fixed-height stand-in for a deferred section.
func Placeholder(page string, s Section) (template.HTML, error) {
	var buf bytes.Buffer
	err := placeholder.Execute(&buf, struct {
		URL    string
		Margin string
		Height int
	}{FragmentURL(page, s.Name), s.rootMargin(), s.minHeight()})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Renderer executes section templates out of one template set.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer(tmpl *template.Template) *Renderer {
	return &Renderer{tmpl: tmpl}
}

// Fragment writes the body of one section, wrapped so the page keeps a
// stable anchor after the swap.
func (r *Renderer) Fragment(w io.Writer, s Section, data any) error {
	if r.tmpl.Lookup(s.Template) == nil {
		return fmt.Errorf("lazysection: no template %q", s.Template)
	}
	if _, err := fmt.Fprintf(w, `<section id="%s" class="page-section">`, template.HTMLEscapeString(s.Name)); err != nil {
		return err
	}
	if err := r.tmpl.ExecuteTemplate(w, s.Template, data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</section>")
	return err
}

// DataFunc supplies the template data of one section. It is only called for
// sections rendered inline.
type DataFunc func(Section) (any, error)

// Render returns the markup of every section of page. Deferred sections
// become placeholders unless eager is set.
func (r *Renderer) Render(page string, sections []Section, data DataFunc, eager bool) ([]template.HTML, error) {
	out := make([]template.HTML, 0, len(sections))
	for _, s := range sections {
		if s.Deferred && !eager {
			h, err := Placeholder(page, s)
			if err != nil {
				return nil, err
			}
			out = append(out, h)
			continue
		}
		var d any
		if data != nil {
			v, err := data(s)
			if err != nil {
				return nil, err
			}
			d = v
		}
		var buf bytes.Buffer
		if err := r.Fragment(&buf, s, d); err != nil {
			return nil, err
		}
		out = append(out, template.HTML(buf.String()))
	}
	return out, nil
}

// Eager reports whether the request asked for every section inline.
func Eager(c *gin.Context) bool {
	v := c.Query("eager")
	return v == "1" || v == "true"
}

// ScriptHandler serves the embedded loader.
func ScriptHandler(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", script)
}
