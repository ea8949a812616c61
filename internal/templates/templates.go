// Package templates loads the two page templates and fills their
// placeholder tokens.
package templates

import (
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitebook/internal/foundation/errors"
)

const (
	ChapterFile = "chapter.html"
	IndexFile   = "index.html"
)

// Placeholder tokens.
const (
	TokenTitle        = "{{TITLE}}"
	TokenSidebar      = "{{SIDEBAR}}"
	TokenContent      = "{{CONTENT}}"
	TokenPrevLink     = "{{PREV_LINK}}"
	TokenNextLink     = "{{NEXT_LINK}}"
	TokenChaptersGrid = "{{CHAPTERS_GRID}}"
	TokenVolumesGrid  = "{{VOLUMES_GRID}}"
)

// Set is the pair of templates used by one build.
type Set struct {
	Chapter string
	Index   string
}

// Load reads chapter.html and index.html from dir.
func Load(dir string) (*Set, error) {
	chapter, err := readTemplate(dir, ChapterFile)
	if err != nil {
		return nil, err
	}
	index, err := readTemplate(dir, IndexFile)
	if err != nil {
		return nil, err
	}
	return &Set{Chapter: chapter, Index: index}, nil
}

func readTemplate(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path) // #nosec G304 -- template dir is configured by the user
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryTemplate, "failed to read template").
			WithContext("path", path).Fatal().UserAction().Build()
	}
	return string(data), nil
}

// Sub is one token substitution.
type Sub struct {
	Token string
	Value string
}

// Fill applies subs in order, replacing only the first occurrence of each
// token. A value that contains a later token is itself subject to that
// later substitution.
func Fill(tpl string, subs ...Sub) string {
	for _, s := range subs {
		tpl = strings.Replace(tpl, s.Token, s.Value, 1)
	}
	return tpl
}

// FillChapter fills a chapter page template.
func (s *Set) FillChapter(title, sidebar, content, prev, next string) string {
	return Fill(s.Chapter,
		Sub{TokenTitle, title},
		Sub{TokenSidebar, sidebar},
		Sub{TokenContent, content},
		Sub{TokenPrevLink, prev},
		Sub{TokenNextLink, next},
	)
}

// FillIndex fills the index template with the two card grids.
func (s *Set) FillIndex(chaptersGrid, volumesGrid string) string {
	return Fill(s.Index,
		Sub{TokenChaptersGrid, chaptersGrid},
		Sub{TokenVolumesGrid, volumesGrid},
	)
}
