package slug

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Introduction", "introduction"},
		{"accented", "Évolution", "evolution"},
		{"french sentence", "L'été à Montréal", "l-ete-a-montreal"},
		{"punctuation runs", "Hello,   World!!!", "hello-world"},
		{"edge separators", "  --Début--  ", "debut"},
		{"digits", "Chapitre 12: Les années 1990", "chapitre-12-les-annees-1990"},
		{"only symbols", "!!! ???", ""},
		{"non-latin letters", "Ærø ß", "r"},
		{"already clean", "deja-propre", "deja-propre"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestMakeStableOnCleanInput(t *testing.T) {
	inputs := []string{"Évolution des idées", "Q&A: ça marche?", "2024 — Bilan", "a  b  c"}
	for _, in := range inputs {
		once := Make(in)
		assert.Equal(t, once, Make(once), "slug of %q should be stable", in)
	}
}

func TestMakeShape(t *testing.T) {
	inputs := []string{"Évolution", "  Über   Alles ", "Naïve café", "x/y\\z", "Ça va?"}
	for _, in := range inputs {
		got := Make(in)
		assert.Regexp(t, slugShape, got, "input %q", in)
	}
}
