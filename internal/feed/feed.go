// Package feed generates Atom feeds for the site and for each group.
package feed

import (
	"fmt"
	"strings"
	"time"

	atom "github.com/thomas11/atomgenerator"

	"rinblog/internal/content"
)

// Info carries the site metadata every feed needs.
type Info struct {
	Title     string
	Author    string
	AuthorURI string
	BaseURL   string
}

// Site generates the Atom feed covering all posts.
func Site(info Info, posts []*content.Post) ([]byte, error) {
	return generate(info, info.Title, "", posts)
}

// Group generates the Atom feed for one group.
func Group(info Info, group content.GroupSummary, posts []*content.Post) ([]byte, error) {
	title := info.Title + ` Group "` + group.Name + `"`
	return generate(info, title, "groups/"+group.Slug+"/", posts)
}

func generate(info Info, title, relURL string, posts []*content.Post) ([]byte, error) {
	feedURL := baseURL(info)
	if relURL != "" {
		feedURL += strings.TrimPrefix(relURL, "/")
	}

	feed := atom.Feed{
		Title:   title,
		Link:    feedURL,
		PubDate: time.Now(),
	}
	feed.AddAuthor(atom.Author{
		Name: info.Author,
		Uri:  info.AuthorURI,
	})

	for _, p := range posts {
		feed.AddEntry(entryForPost(info, p))
	}

	if errs := feed.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid atom feed: %w", errs[0])
	}

	return feed.GenXml()
}

func entryForPost(info Info, p *content.Post) *atom.Entry {
	e := &atom.Entry{
		Title:       p.Title,
		Description: p.Summary,
		Link:        baseURL(info) + "posts/" + p.Slug + "/",
		PubDate:     p.Date,
		Content:     string(p.ContentHTML),
	}

	for _, tag := range p.Tags {
		e.AddCategory(atom.Category{Term: tag})
	}

	return e
}

func baseURL(info Info) string {
	base := info.BaseURL
	if base == "" {
		base = "/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}
