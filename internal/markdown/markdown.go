// Package markdown renders Markdown bodies to HTML.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/jacksosa/sitegen/internal/config"
)

// Renderer converts Markdown bodies to HTML with a fixed option set derived
// from the site's markup configuration.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer builds a goldmark instance configured for the site: GFM
// extensions, typographer and auto heading IDs are always on; hard wraps and
// raw HTML pass-through follow the markup config.
func NewRenderer(markup config.Markup) *Renderer {
	rendererOpts := []renderer.Option{}
	if markup.HardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}
	if markup.UnsafeHTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &Renderer{md: md}
}

// Render converts one Markdown body to HTML.
func (r *Renderer) Render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
