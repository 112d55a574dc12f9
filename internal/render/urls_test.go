package render

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

var urlCases = []struct {
	name   string
	params map[string]string
}{
	{"homepage", nil},
	{"daily", nil},
	{"post", map[string]string{"slug": "first-post"}},
	{"group", map[string]string{"slug": "announcements"}},
	{"collection", map[string]string{"slug": "systems"}},
	{"column", map[string]string{"column": "go"}},
	{"subcolumn", map[string]string{"column": "go", "subcolumn": "stdlib"}},
	{"static", map[string]string{"path": "/style.css"}},
	{"feed", nil},
	{"group_feed", map[string]string{"slug": "announcements"}},
}

func dumpURLs(b URLBuilder) []byte {
	var buf bytes.Buffer
	for _, c := range urlCases {
		fmt.Fprintf(&buf, "%-12s %s\n", c.name, b(c.name, c.params))
	}
	return buf.Bytes()
}

func TestServeURLs(t *testing.T) {
	g := goldie.New(t)
	g.Assert(t, "serve_urls", dumpURLs(ServeURLs()))
}

func TestStaticURLs(t *testing.T) {
	g := goldie.New(t)
	g.Assert(t, "static_urls_root", dumpURLs(StaticURLs("")))
	g.Assert(t, "static_urls_subpath", dumpURLs(StaticURLs("my-repo")))
}

func TestStaticURLs_TrimsBase(t *testing.T) {
	b := StaticURLs("/my-repo/")
	assert.Equal(t, "/my-repo/posts/x/", b("post", map[string]string{"slug": "x"}))
}

func TestServeURLs_CommentsRoute(t *testing.T) {
	b := ServeURLs()
	assert.Equal(t, "/posts/x/comments", b("comments", map[string]string{"slug": "x"}))
}
