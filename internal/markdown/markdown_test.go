package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderGFM(t *testing.T) {
	r := NewRenderer(Options{})

	out, err := r.Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~"))
	require.NoError(t, err)

	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<del>gone</del>")
}

func TestRenderSoftLineBreaks(t *testing.T) {
	r := NewRenderer(Options{})

	out, err := r.Render([]byte("first line\nsecond line"))
	require.NoError(t, err)

	assert.Equal(t, "<p>first line\nsecond line</p>\n", out)
	assert.NotContains(t, out, "<br")
}

func TestRenderPassesRawHTML(t *testing.T) {
	r := NewRenderer(Options{})

	out, err := r.Render([]byte("<div class=\"note\">brut</div>\n"))
	require.NoError(t, err)

	assert.Contains(t, out, `<div class="note">brut</div>`)
}

func TestRenderNoAutomaticHeadingIDs(t *testing.T) {
	r := NewRenderer(Options{})

	out, err := r.Render([]byte("## Section"))
	require.NoError(t, err)

	assert.Equal(t, "<h2>Section</h2>\n", out)
}

func TestRenderHighlighting(t *testing.T) {
	r := NewRenderer(Options{HighlightStyle: "github"})

	out, err := r.Render([]byte("```go\nfunc main() {}\n```\n"))
	require.NoError(t, err)

	assert.Contains(t, out, "<pre")
	assert.Contains(t, out, "style=")
}

func TestRenderChapter(t *testing.T) {
	r := NewRenderer(Options{StripFrontMatter: true})
	src := "---\nauthor: Anne\n---\n# Chapitre I\n\nCorps du texte.\n"

	out, err := r.RenderChapter([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, "<p>Corps du texte.</p>\n", out)
}
