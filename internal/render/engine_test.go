package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rinblog/internal/content"
)

func testPage(title string) Page {
	return Page{
		SiteTitle:     "Test Site",
		PageTitle:     title,
		Lang:          "en",
		Languages:     content.Languages,
		LanguageNames: content.LanguageNames(),
	}
}

func testPost() *content.Post {
	return &content.Post{
		Slug:        "first-post",
		Title:       "First Post",
		Summary:     "A summary.",
		ContentHTML: "<p>Hello <strong>world</strong>.</p>",
		Date:        time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		Lang:        "en",
	}
}

func TestEngineRender_Index(t *testing.T) {
	e, err := NewEngine("", ServeURLs())
	require.NoError(t, err)

	var buf bytes.Buffer
	err = e.Render(&buf, "index.html", IndexPage{
		Page:   testPage(""),
		Posts:  []PostWithBadges{{Post: testPost()}},
		Groups: []content.GroupSummary{{Slug: "announcements", Name: "Announcements", PostCount: 2}},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "Test Site")
	assert.Contains(t, html, `href="/posts/first-post"`)
	assert.Contains(t, html, `href="/groups/announcements"`)
	assert.Contains(t, html, "First Post")
}

func TestEngineRender_PostWithComments(t *testing.T) {
	e, err := NewEngine("", ServeURLs())
	require.NoError(t, err)

	var buf bytes.Buffer
	page := testPage("First Post")
	page.CommentsEnabled = true
	err = e.Render(&buf, "post.html", PostPage{
		Page: page,
		Post: testPost(),
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<strong>world</strong>", "post body must not be escaped")
	assert.Contains(t, html, `action="/posts/first-post/comments"`)
	assert.Contains(t, html, "No comments yet.")
}

func TestEngineRender_EveryPageTemplateParses(t *testing.T) {
	e, err := NewEngine("", ServeURLs())
	require.NoError(t, err)

	pages := map[string]any{
		"index.html":      IndexPage{Page: testPage("")},
		"group.html":      GroupPage{Page: testPage("G"), Group: content.GroupSummary{Slug: "g", Name: "G"}},
		"post.html":       PostPage{Page: testPage("P"), Post: testPost()},
		"daily.html":      DailyPage{Page: testPage("Daily")},
		"collection.html": CollectionPage{Page: testPage("C"), Collection: &content.Collection{Slug: "c", Name: "C"}},
		"column.html":     ColumnPage{Page: testPage("Col"), Column: "Col"},
	}

	for name, data := range pages {
		var buf bytes.Buffer
		assert.NoError(t, e.Render(&buf, name, data), "template %v", name)
		assert.NotEmpty(t, buf.String(), "template %v", name)
	}
}

func TestEngine_TemplateDirOverride(t *testing.T) {
	dir := t.TempDir()
	layout := `<html><body>{{block "content" .}}{{end}}</body></html>`
	page := `{{define "content"}}CUSTOM {{.SiteTitle}}{{end}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layout.html"), []byte(layout), 0o664))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(page), 0o664))

	e, err := NewEngine(dir, ServeURLs())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, "index.html", IndexPage{Page: testPage("")}))
	assert.Contains(t, buf.String(), "CUSTOM Test Site")
}

func TestWithBadges(t *testing.T) {
	set := content.LoadCollections("", nil)
	post := testPost()
	post.Tags = []string{"go"}

	decorated := WithBadges([]*content.Post{post}, set)
	require.Len(t, decorated, 1)
	require.Len(t, decorated[0].Badges, 1)
	assert.Equal(t, "go", decorated[0].Badges[0].Label)
}
