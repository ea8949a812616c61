package markdown

import (
	"bytes"
	"regexp"

	"github.com/adrg/frontmatter"

	"git.home.luguber.info/inful/sitebook/internal/foundation/errors"
)

// titleLine matches the first ATX level-one heading line anywhere in the source.
var titleLine = regexp.MustCompile(`(?m)^#\s+.*$`)

// StripTitle removes the first "# Title" line, which duplicates the manifest
// title injected by the page template, and trims surrounding whitespace.
func StripTitle(src []byte) []byte {
	loc := titleLine.FindIndex(src)
	if loc == nil {
		return bytes.TrimSpace(src)
	}
	out := make([]byte, 0, len(src)-(loc[1]-loc[0]))
	out = append(out, src[:loc[0]]...)
	out = append(out, src[loc[1]:]...)
	return bytes.TrimSpace(out)
}

// SplitFrontMatter separates a leading YAML/TOML/JSON front matter block from
// the body. Sources without front matter are returned unchanged with nil meta.
func SplitFrontMatter(src []byte) (map[string]any, []byte, error) {
	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryMarkdown, "invalid front matter").Build()
	}
	if len(meta) == 0 {
		meta = nil
	}
	return meta, body, nil
}

// PrepareBody applies front matter stripping (when enabled) and title removal.
func PrepareBody(src []byte, stripFrontMatter bool) ([]byte, error) {
	if stripFrontMatter {
		_, body, err := SplitFrontMatter(src)
		if err != nil {
			return nil, err
		}
		src = body
	}
	return StripTitle(src), nil
}
