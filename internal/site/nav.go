package site

import (
	"html"
	"strings"

	"git.home.luguber.info/inful/sitebook/internal/headings"
	"git.home.luguber.info/inful/sitebook/internal/manifest"
)

// Labels are the visible navigation strings.
type Labels struct {
	VolumesHeading string
	InPageHeading  string
	ChapterPrefix  string
	VolumePrefix   string
	RomanFallback  string
}

// DefaultLabels returns the French labels the stock templates expect.
func DefaultLabels() Labels {
	return Labels{
		VolumesHeading: "Volumes",
		InPageHeading:  "Dans ce chapitre",
		ChapterPrefix:  "Ch.",
		VolumePrefix:   "Vol.",
		RomanFallback:  "Annexes",
	}
}

const emptyNavLink = "        <span></span>"

func sectionBreak(heading string) string {
	return "\n      </ul>\n      <h3 style=\"margin-top: 1.5rem;\">" + heading + "</h3>\n      <ul>\n"
}

func linkLines(entries []manifest.Entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = `        <li><a href="` + e.Slug + `.html">` + e.ShortTitle + `</a></li>`
	}
	return strings.Join(lines, "\n")
}

// SharedSidebar lists every chapter, then every volume under the volumes heading.
func SharedSidebar(m *manifest.Manifest, l Labels) string {
	return linkLines(m.Chapters()) + sectionBreak(l.VolumesHeading) + linkLines(m.Volumes())
}

// PageSidebar appends the in-page heading list to the shared sidebar.
func PageSidebar(shared string, hs []headings.Heading, l Labels) string {
	lines := make([]string, len(hs))
	for i, h := range hs {
		lines[i] = `        <li><a href="#` + h.ID + `">` + html.EscapeString(h.Text) + `</a></li>`
	}
	return shared + sectionBreak(l.InPageHeading) + strings.Join(lines, "\n")
}

func (l Labels) navLabel(e *manifest.Entry) string {
	prefix := l.ChapterPrefix
	if e.IsVolume() {
		prefix = l.VolumePrefix
	}
	roman := e.Roman
	if roman == "" {
		roman = l.RomanFallback
	}
	return prefix + " " + roman
}

// PrevLink renders the backward link, or an empty span when e is nil.
func PrevLink(e *manifest.Entry, l Labels) string {
	if e == nil {
		return emptyNavLink
	}
	return `        <a href="` + e.Slug + `.html" class="nav-link">&larr; ` + l.navLabel(e) + `</a>`
}

// NextLink renders the forward link, or an empty span when e is nil.
func NextLink(e *manifest.Entry, l Labels) string {
	if e == nil {
		return emptyNavLink
	}
	return `        <a href="` + e.Slug + `.html" class="nav-link">` + l.navLabel(e) + ` &rarr;</a>`
}
