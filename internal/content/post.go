package content

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Post is a single Markdown content file after parsing.
type Post struct {
	Slug, Title, Summary string
	ContentHTML          template.HTML
	ContentRaw           string
	Excerpt              template.HTML
	Date                 time.Time
	GroupSlug            string
	GroupLabel           string
	GroupDescription     string
	Tags                 []string
	IsDaily              bool
	Lang                 string
	Column, Subcolumn    string
	Pinned               bool
	Draft                bool
}

// Called from templates
func (p *Post) DisplayDate() string {
	return formatDate(p.Date)
}

func (p *Post) DisplayDateShort() string {
	return formatDateShort(p.Date)
}

func (p *Post) String() string {
	b := new(bytes.Buffer)
	b.WriteString("title: ")
	b.WriteString(p.Title)
	b.WriteString("\nslug: ")
	b.WriteString(p.Slug)
	b.WriteString("\ndate: ")
	b.WriteString(p.Date.String())
	b.WriteString("\ntags: ")
	fmt.Fprintln(b, p.Tags)

	body := p.ContentRaw
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	b.WriteString("body: ")
	b.WriteString(body)

	return b.String()
}

// GroupSummary describes a group of posts for navigation pages.
type GroupSummary struct {
	Slug        string
	Name        string
	Description string
	PostCount   int
}

func formatDate(d time.Time) string {
	return d.Format("January 2, 2006")
}

func formatDateShort(d time.Time) string {
	return d.Format("Jan 2, 2006")
}

type posts []*Post
