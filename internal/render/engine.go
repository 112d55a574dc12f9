// Package render holds the template engine shared by the HTTP server and
// the static exporter. Templates are embedded; a site can override them by
// configuring a template directory.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"sync"

	"rinblog/internal/comments"
	"rinblog/internal/content"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

const layoutTemplate = "layout.html"

// Engine renders page templates against a shared layout, caching parsed
// templates per page.
type Engine struct {
	fsys fs.FS
	urls URLBuilder

	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewEngine creates an engine using the embedded templates, or the files in
// templateDir when it is non-empty.
func NewEngine(templateDir string, urls URLBuilder) (*Engine, error) {
	var fsys fs.FS
	if templateDir != "" {
		fsys = os.DirFS(templateDir)
	} else {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("embedded templates: %w", err)
		}
		fsys = sub
	}
	return &Engine{
		fsys:  fsys,
		urls:  urls,
		cache: make(map[string]*template.Template),
	}, nil
}

// Render executes the named page template inside the layout.
func (e *Engine) Render(w io.Writer, page string, data any) error {
	t, err := e.getTemplate(page)
	if err != nil {
		return err
	}
	return t.ExecuteTemplate(w, layoutTemplate, data)
}

func (e *Engine) getTemplate(page string) (*template.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if t, ok := e.cache[page]; ok {
		return t, nil
	}

	t, err := template.New(page).Funcs(e.funcs()).ParseFS(e.fsys, layoutTemplate, page)
	if err != nil {
		return nil, fmt.Errorf("parsing template %v: %w", page, err)
	}
	e.cache[page] = t
	return t, nil
}

func (e *Engine) funcs() template.FuncMap {
	return template.FuncMap{
		"url": func(name string, pairs ...string) string {
			params := make(map[string]string, len(pairs)/2)
			for i := 0; i+1 < len(pairs); i += 2 {
				params[pairs[i]] = pairs[i+1]
			}
			return e.urls(name, params)
		},
	}
}

// Page carries the fields every template needs.
type Page struct {
	SiteTitle       string
	PageTitle       string
	Lang            string
	Languages       []string
	LanguageNames   map[string]string
	CommentsEnabled bool
}

// PostWithBadges pairs a post with its tag badges for list views.
type PostWithBadges struct {
	Post   *content.Post
	Badges []content.Badge
}

type IndexPage struct {
	Page
	Posts       []PostWithBadges
	Groups      []content.GroupSummary
	Columns     []string
	LatestDaily *content.Post
}

type GroupPage struct {
	Page
	Group content.GroupSummary
	Posts []PostWithBadges
}

type PostPage struct {
	Page
	Post      *content.Post
	Badges    []content.Badge
	Comments  []comments.View
	FormError string
}

type DailyPage struct {
	Page
	Posts []PostWithBadges
}

type CollectionPage struct {
	Page
	Collection *content.Collection
	Posts      []PostWithBadges
}

type ColumnPage struct {
	Page
	Column     string
	Subcolumn  string
	Subcolumns []string
	Posts      []PostWithBadges
}

// WithBadges decorates posts with their badges from the collection set.
func WithBadges(posts []*content.Post, set *content.CollectionSet) []PostWithBadges {
	out := make([]PostWithBadges, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostWithBadges{Post: p, Badges: set.Badges(p.Tags)})
	}
	return out
}
