package content

import (
	"github.com/russross/blackfriday/v2"
)

type renderer interface {
	render(in []byte) string
}

const markdownExtensions = blackfriday.NoIntraEmphasis |
	blackfriday.Tables |
	blackfriday.FencedCode |
	blackfriday.Autolink |
	blackfriday.Strikethrough

const htmlFlags = blackfriday.UseXHTML |
	blackfriday.Smartypants |
	blackfriday.SmartypantsFractions |
	blackfriday.SmartypantsLatexDashes

func newMarkdownRenderer() renderer {
	r := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: htmlFlags,
	})
	return &blackfridayHTMLRenderer{r}
}

type blackfridayHTMLRenderer struct {
	r blackfriday.Renderer
}

func (b *blackfridayHTMLRenderer) render(in []byte) string {
	return string(blackfriday.Run(in,
		blackfriday.WithRenderer(b.r),
		blackfriday.WithExtensions(markdownExtensions)))
}
