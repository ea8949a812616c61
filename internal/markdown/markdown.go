// Package markdown renders chapter sources to HTML fragments.
//
// Rendering uses goldmark with the GitHub Flavored Markdown extensions.
// Single newlines inside a paragraph stay soft (no <br>), and raw HTML in
// the source is passed through untouched.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/sitebook/internal/foundation/errors"
)

// Options controls rendering and source preparation.
type Options struct {
	// HighlightStyle names a chroma style for fenced code blocks. Empty
	// disables highlighting.
	HighlightStyle string
	// StripFrontMatter removes a leading front matter block before rendering.
	StripFrontMatter bool
}

// Renderer converts Markdown to HTML. It is safe to reuse across pages.
type Renderer struct {
	md   goldmark.Markdown
	opts Options
}

// NewRenderer builds a goldmark instance for opts.
func NewRenderer(opts Options) *Renderer {
	exts := []goldmark.Extender{extension.GFM}
	if opts.HighlightStyle != "" {
		exts = append(exts, highlighting.NewHighlighting(highlighting.WithStyle(opts.HighlightStyle)))
	}
	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &Renderer{md: md, opts: opts}
}

// Options returns the options the renderer was built with.
func (r *Renderer) Options() Options { return r.opts }

// Render converts Markdown text to an HTML fragment.
func (r *Renderer) Render(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", errors.WrapError(err, errors.CategoryMarkdown, "markdown conversion failed").Build()
	}
	return buf.String(), nil
}

// RenderChapter prepares a raw chapter source (front matter and leading
// title removed) and renders the remaining body.
func (r *Renderer) RenderChapter(src []byte) (string, error) {
	body, err := PrepareBody(src, r.opts.StripFrontMatter)
	if err != nil {
		return "", err
	}
	return r.Render(body)
}
