package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"rinblog/internal/comments"
	"rinblog/internal/content"
	"rinblog/internal/feed"
	"rinblog/internal/render"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r)

	posts := content.FilterByLanguage(s.store.Posts(false), lang)
	if s.cfg.MaxPostsOnIndex > 0 && len(posts) > s.cfg.MaxPostsOnIndex {
		posts = posts[:s.cfg.MaxPostsOnIndex]
	}

	latest := s.store.LatestDaily()
	for _, p := range s.store.DailyPosts() {
		if p.Lang == lang {
			latest = p
			break
		}
	}

	s.render(w, http.StatusOK, "index.html", render.IndexPage{
		Page:        s.page("", lang, true),
		Posts:       render.WithBadges(posts, s.collections),
		Groups:      s.store.Groups(),
		Columns:     s.store.Columns(),
		LatestDaily: latest,
	})
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r)
	posts := content.FilterByLanguage(s.store.DailyPosts(), lang)

	s.render(w, http.StatusOK, "daily.html", render.DailyPage{
		Page:  s.page("Daily", lang, true),
		Posts: render.WithBadges(posts, s.collections),
	})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	post := s.store.Post(r.PathValue("slug"))
	if post == nil {
		http.NotFound(w, r)
		return
	}

	views, err := s.comments.ListViews(r.Context(), post.Slug)
	if err != nil {
		s.log.Error("listing comments failed", "slug", post.Slug, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, http.StatusOK, "post.html", render.PostPage{
		Page:     s.page(post.Title, post.Lang, true),
		Post:     post,
		Badges:   s.collections.Badges(post.Tags),
		Comments: views,
	})
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	post := s.store.Post(r.PathValue("slug"))
	if post == nil {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	_, err := s.comments.Create(r.Context(),
		post.Slug,
		r.PostFormValue("nickname"),
		r.PostFormValue("content"),
		r.PostFormValue("parent_id"))
	if err != nil {
		if isValidationError(err) {
			views, listErr := s.comments.ListViews(r.Context(), post.Slug)
			if listErr != nil {
				s.log.Error("listing comments failed", "slug", post.Slug, "error", listErr)
			}
			s.render(w, http.StatusBadRequest, "post.html", render.PostPage{
				Page:      s.page(post.Title, post.Lang, true),
				Post:      post,
				Badges:    s.collections.Badges(post.Tags),
				Comments:  views,
				FormError: err.Error(),
			})
			return
		}
		s.log.Error("creating comment failed", "slug", post.Slug, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/posts/"+post.Slug+"#comments", http.StatusSeeOther)
}

func isValidationError(err error) bool {
	return errors.Is(err, comments.ErrEmptyContent) ||
		errors.Is(err, comments.ErrContentTooLong) ||
		errors.Is(err, comments.ErrNicknameTooLong)
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	group := s.store.Group(r.PathValue("slug"))
	if group == nil {
		http.NotFound(w, r)
		return
	}
	lang := requestLang(r)
	posts := content.FilterByLanguage(s.store.PostsByGroup(group.Slug), lang)

	s.render(w, http.StatusOK, "group.html", render.GroupPage{
		Page:  s.page(group.Name, lang, true),
		Group: *group,
		Posts: render.WithBadges(posts, s.collections),
	})
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	collection := s.collections.Collection(r.PathValue("slug"))
	if collection == nil {
		http.NotFound(w, r)
		return
	}
	lang := requestLang(r)
	posts := content.FilterByLanguage(s.collections.PostsFor(collection, s.store), lang)

	s.render(w, http.StatusOK, "collection.html", render.CollectionPage{
		Page:       s.page(collection.Name, lang, true),
		Collection: collection,
		Posts:      render.WithBadges(posts, s.collections),
	})
}

func (s *Server) handleColumn(w http.ResponseWriter, r *http.Request) {
	column := r.PathValue("column")
	all := s.store.PostsByColumn(column)
	if len(all) == 0 {
		http.NotFound(w, r)
		return
	}
	lang := requestLang(r)

	s.render(w, http.StatusOK, "column.html", render.ColumnPage{
		Page:       s.page(column, lang, true),
		Column:     column,
		Subcolumns: s.store.Subcolumns(column),
		Posts:      render.WithBadges(content.FilterByLanguage(all, lang), s.collections),
	})
}

func (s *Server) handleSubcolumn(w http.ResponseWriter, r *http.Request) {
	column := r.PathValue("column")
	subcolumn := r.PathValue("subcolumn")
	all := s.store.PostsByColumn(column, subcolumn)
	if len(all) == 0 {
		http.NotFound(w, r)
		return
	}
	lang := requestLang(r)

	s.render(w, http.StatusOK, "column.html", render.ColumnPage{
		Page:       s.page(column+" / "+subcolumn, lang, true),
		Column:     column,
		Subcolumn:  subcolumn,
		Subcolumns: s.store.Subcolumns(column),
		Posts:      render.WithBadges(content.FilterByLanguage(all, lang), s.collections),
	})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	xml, err := feed.Site(s.feedInfo(), s.store.Posts(true))
	if err != nil {
		s.log.Error("feed generation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	w.Write(xml)
}

func (s *Server) handleGroupFeed(w http.ResponseWriter, r *http.Request) {
	group := s.store.Group(r.PathValue("slug"))
	if group == nil {
		http.NotFound(w, r)
		return
	}
	xml, err := feed.Group(s.feedInfo(), *group, s.store.PostsByGroup(group.Slug))
	if err != nil {
		s.log.Error("feed generation failed", "group", group.Slug, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	w.Write(xml)
}

func (s *Server) feedInfo() feed.Info {
	return feed.Info{
		Title:     s.cfg.SiteTitle,
		Author:    s.cfg.Author,
		AuthorURI: s.cfg.AuthorURI,
		BaseURL:   s.cfg.BaseURL,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
