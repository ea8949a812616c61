// Package manifest loads the ordered chapter list that drives a build.
//
// The manifest is a JSON (or YAML) sequence of entries. Its order is the
// sidebar order and defines prev/next adjacency inside each partition.
package manifest

import (
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebook/internal/foundation/errors"
)

// Kind partitions entries into chapters and volumes.
type Kind string

const (
	KindChapter Kind = "chapter"
	KindVolume  Kind = "volume"
)

// Entry is one manifest item. Slug is its identity and the output file stem.
type Entry struct {
	Slug       string `yaml:"slug" json:"slug"`
	Title      string `yaml:"title" json:"title"`
	ShortTitle string `yaml:"shortTitle" json:"shortTitle"`
	Source     string `yaml:"source" json:"source"`
	Roman      string `yaml:"roman" json:"roman"`
	Badge      string `yaml:"badge,omitempty" json:"badge,omitempty"`
	Color      string `yaml:"color" json:"color"`
	Type       string `yaml:"type,omitempty" json:"type,omitempty"`
}

// Kind reports the entry partition. Only "volume" selects volumes.
func (e Entry) Kind() Kind {
	if e.Type == string(KindVolume) {
		return KindVolume
	}
	return KindChapter
}

// IsVolume is shorthand for Kind() == KindVolume.
func (e Entry) IsVolume() bool { return e.Kind() == KindVolume }

// Validate implements validation.Validatable.
func (e Entry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Slug, validation.Required, validation.By(safeStem)),
		validation.Field(&e.Source, validation.Required),
	)
}

func safeStem(value any) error {
	s, _ := value.(string)
	if s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return validation.NewError("manifest.slug_unsafe", "must be a plain file name")
	}
	return nil
}

// Manifest is the immutable ordered entry list.
type Manifest struct {
	Entries []Entry
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- manifest path is configured by the user
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryManifest, "failed to read manifest").
			WithContext("path", path).Fatal().UserAction().Build()
	}
	m, err := Parse(data)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return m, nil
}

// Parse decodes and validates manifest bytes.
func Parse(data []byte) (*Manifest, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.WrapError(err, errors.CategoryManifest, "failed to parse manifest").
			Fatal().UserAction().Build()
	}
	m := &Manifest{Entries: entries}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks every entry and slug uniqueness.
func (m *Manifest) Validate() error {
	if err := validation.Validate(m.Entries); err != nil {
		return errors.WrapError(err, errors.CategoryManifest, "invalid manifest entry").
			Fatal().UserAction().Build()
	}
	seen := make(map[string]int, len(m.Entries))
	for i, e := range m.Entries {
		if first, dup := seen[e.Slug]; dup {
			return errors.ManifestError(fmt.Sprintf("duplicate slug %q (entries %d and %d)", e.Slug, first, i)).
				WithContext("slug", e.Slug).Build()
		}
		seen[e.Slug] = i
	}
	return nil
}

// Group returns the entries of one kind in manifest order.
func (m *Manifest) Group(kind Kind) []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

func (m *Manifest) Chapters() []Entry { return m.Group(KindChapter) }
func (m *Manifest) Volumes() []Entry  { return m.Group(KindVolume) }

// Filter returns a manifest holding the entries keep accepts, order preserved.
func (m *Manifest) Filter(keep func(Entry) bool) *Manifest {
	out := &Manifest{Entries: make([]Entry, 0, len(m.Entries))}
	for _, e := range m.Entries {
		if keep(e) {
			out.Entries = append(out.Entries, e)
		}
	}
	return out
}

// Neighbors returns the entries before and after slug within its own
// partition. Either is nil at a partition edge or when slug is unknown.
func (m *Manifest) Neighbors(slug string) (prev, next *Entry) {
	var kind Kind
	found := false
	for _, e := range m.Entries {
		if e.Slug == slug {
			kind, found = e.Kind(), true
			break
		}
	}
	if !found {
		return nil, nil
	}
	group := m.Group(kind)
	for i := range group {
		if group[i].Slug != slug {
			continue
		}
		if i > 0 {
			prev = &group[i-1]
		}
		if i < len(group)-1 {
			next = &group[i+1]
		}
		break
	}
	return prev, next
}
