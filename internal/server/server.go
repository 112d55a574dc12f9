// Package server serves the blog over HTTP: list/detail/group views,
// comment posting, Atom feeds, and static assets.
package server

import (
	"log/slog"
	"net/http"

	"rinblog/internal/comments"
	"rinblog/internal/config"
	"rinblog/internal/content"
	"rinblog/internal/render"
)

type Server struct {
	cfg         *config.Config
	store       *content.Store
	collections *content.CollectionSet
	comments    *comments.Service
	engine      *render.Engine
	log         *slog.Logger
}

func New(cfg *config.Config, store *content.Store, collections *content.CollectionSet, svc *comments.Service, log *slog.Logger) (*Server, error) {
	engine, err := render.NewEngine(cfg.TemplateDir, render.ServeURLs())
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:         cfg,
		store:       store,
		collections: collections,
		comments:    svc,
		engine:      engine,
		log:         log,
	}, nil
}

// Handler builds the route table wrapped in the request logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /daily", s.handleDaily)
	mux.HandleFunc("GET /posts/{slug}", s.handlePost)
	mux.HandleFunc("POST /posts/{slug}/comments", s.handleCreateComment)
	mux.HandleFunc("GET /groups/{slug}", s.handleGroup)
	mux.HandleFunc("GET /collections/{slug}", s.handleCollection)
	mux.HandleFunc("GET /columns/{column}", s.handleColumn)
	mux.HandleFunc("GET /columns/{column}/{subcolumn}", s.handleSubcolumn)
	mux.HandleFunc("GET /feed.xml", s.handleFeed)
	mux.HandleFunc("GET /groups/{slug}/feed.xml", s.handleGroupFeed)
	mux.HandleFunc("GET /health", s.handleHealth)

	fileServer := http.FileServer(http.Dir(s.cfg.StaticDir))
	mux.Handle("GET /static/", http.StripPrefix("/static/", fileServer))

	return s.requestLogger(mux)
}

// page fills the fields every template expects.
func (s *Server) page(title, lang string, commentsEnabled bool) render.Page {
	return render.Page{
		SiteTitle:       s.cfg.SiteTitle,
		PageTitle:       title,
		Lang:            lang,
		Languages:       content.Languages,
		LanguageNames:   content.LanguageNames(),
		CommentsEnabled: commentsEnabled,
	}
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.engine.Render(w, page, data); err != nil {
		s.log.Error("template render failed", "template", page, "error", err)
	}
}

func requestLang(r *http.Request) string {
	return content.NormalizeLang(r.URL.Query().Get("lang"))
}
