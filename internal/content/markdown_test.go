package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownRenderer(t *testing.T) {
	r := newMarkdownRenderer()

	html := r.render([]byte("# Title\n\nSome *emphasis* and a [link](https://example.com).\n"))
	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<em>emphasis</em>")
	assert.Contains(t, html, `<a href="https://example.com">link</a>`)
}

func TestMarkdownRenderer_Extensions(t *testing.T) {
	r := newMarkdownRenderer()

	fenced := r.render([]byte("```go\nfmt.Println(1)\n```\n"))
	assert.Contains(t, fenced, "<pre><code class=\"language-go\">")

	strike := r.render([]byte("~~gone~~\n"))
	assert.Contains(t, strike, "<del>gone</del>")

	table := r.render([]byte("a | b\n--- | ---\n1 | 2\n"))
	assert.Contains(t, table, "<table>")

	autolink := r.render([]byte("Visit https://example.com today.\n"))
	assert.Contains(t, autolink, `href="https://example.com"`)
}
