// Package site assembles chapter pages and the index page from rendered
// Markdown, the manifest and the page templates.
package site

import (
	"git.home.luguber.info/inful/sitebook/internal/headings"
	"git.home.luguber.info/inful/sitebook/internal/manifest"
	"git.home.luguber.info/inful/sitebook/internal/markdown"
	"git.home.luguber.info/inful/sitebook/internal/templates"
)

// Builder renders pages against one navigation manifest. The shared
// sidebar is computed once at construction.
type Builder struct {
	templates *templates.Set
	nav       *manifest.Manifest
	renderer  *markdown.Renderer
	labels    Labels
	shared    string
}

// NewBuilder prepares a Builder. nav is the manifest every navigation list
// is drawn from; it may be a filtered view of the full manifest.
func NewBuilder(set *templates.Set, nav *manifest.Manifest, r *markdown.Renderer, l Labels) *Builder {
	return &Builder{
		templates: set,
		nav:       nav,
		renderer:  r,
		labels:    l,
		shared:    SharedSidebar(nav, l),
	}
}

// SharedSidebar returns the sidebar prefix common to every page.
func (b *Builder) SharedSidebar() string { return b.shared }

// Page is one rendered chapter or volume.
type Page struct {
	Entry    manifest.Entry
	HTML     string
	Headings []headings.Heading
}

// FileName is the output file name relative to the output directory.
func (p *Page) FileName() string { return p.Entry.Slug + ".html" }

// RenderPage converts the raw Markdown source of e into a full page.
func (b *Builder) RenderPage(e manifest.Entry, src []byte) (*Page, error) {
	body, err := b.renderer.RenderChapter(src)
	if err != nil {
		return nil, err
	}
	body, hs := headings.Process(body)

	prev, next := b.nav.Neighbors(e.Slug)
	content := "<h1>" + e.Title + "</h1>\n" + body
	out := b.templates.FillChapter(
		e.Title,
		PageSidebar(b.shared, hs, b.labels),
		content,
		PrevLink(prev, b.labels),
		NextLink(next, b.labels),
	)
	return &Page{Entry: e, HTML: out, Headings: hs}, nil
}

// RenderIndex fills the index template with chapter and volume cards.
func (b *Builder) RenderIndex() string {
	return b.templates.FillIndex(Grid(b.nav.Chapters()), Grid(b.nav.Volumes()))
}
