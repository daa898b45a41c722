// Package markdown renders .md files into standalone HTML preview pages.
package markdown

import (
	"bytes"
	stdhtml "html"

	chroma_html "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/gohugoio/hugo-goldmark-extensions/passthrough"
	admonitions "github.com/stefanfritsch/goldmark-admonitions"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				meta.Meta,
				highlighting.NewHighlighting(
					highlighting.WithStyle("nord"),
					highlighting.WithFormatOptions(
						chroma_html.WithClasses(true),
					),
				),
				&admonitions.Extender{},
				// Math stays untouched for client-side rendering.
				passthrough.New(passthrough.Config{
					InlineDelimiters: []passthrough.Delimiters{{Open: "$", Close: "$"}, {Open: "\\(", Close: "\\)"}},
					BlockDelimiters:  []passthrough.Delimiters{{Open: "$$", Close: "$$"}, {Open: "\\[", Close: "\\]"}},
				}),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// RenderPage converts markdown source into a complete HTML document. The
// page title comes from the frontmatter `title` key when present.
func (r *Renderer) RenderPage(source []byte) ([]byte, error) {
	var body bytes.Buffer
	pc := parser.NewContext()
	if err := r.md.Convert(source, &body, parser.WithContext(pc)); err != nil {
		return nil, err
	}

	title := "Preview"
	if m := meta.Get(pc); m != nil {
		if t, ok := m["title"].(string); ok && t != "" {
			title = t
		}
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<title>")
	page.WriteString(stdhtml.EscapeString(title))
	page.WriteString("</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("\n</body>\n</html>\n")
	return page.Bytes(), nil
}
