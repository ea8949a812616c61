package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebook/internal/foundation/errors"
)

func TestFill_SingleShot(t *testing.T) {
	out := Fill("{{TITLE}} | {{TITLE}}", Sub{TokenTitle, "Intro"})
	assert.Equal(t, "Intro | {{TITLE}}", out)
}

func TestFill_MissingTokenIsNoop(t *testing.T) {
	out := Fill("<p>static</p>", Sub{TokenSidebar, "x"})
	assert.Equal(t, "<p>static</p>", out)
}

func TestFill_OrderMatters(t *testing.T) {
	// The title carries a token that a later substitution consumes.
	out := Fill("{{TITLE}} {{SIDEBAR}}", Sub{TokenTitle, "{{SIDEBAR}}"}, Sub{TokenSidebar, "nav"})
	assert.Equal(t, "nav {{SIDEBAR}}", out)
}

func TestFill_NoDollarExpansion(t *testing.T) {
	out := Fill("{{CONTENT}}", Sub{TokenContent, "cost: $& and $1"})
	assert.Equal(t, "cost: $& and $1", out)
}

func TestFillChapter(t *testing.T) {
	s := &Set{Chapter: "<title>{{TITLE}}</title><nav>{{SIDEBAR}}</nav><main>{{CONTENT}}</main>{{PREV_LINK}}|{{NEXT_LINK}}"}
	out := s.FillChapter("T", "S", "C", "P", "N")
	assert.Equal(t, "<title>T</title><nav>S</nav><main>C</main>P|N", out)
}

func TestFillIndex(t *testing.T) {
	s := &Set{Index: "<div>{{CHAPTERS_GRID}}</div><div>{{VOLUMES_GRID}}</div>"}
	assert.Equal(t, "<div>c</div><div>v</div>", s.FillIndex("c", "v"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ChapterFile), []byte("chapter"), 0o600))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryTemplate, errors.GetCategory(err))

	require.NoError(t, os.WriteFile(filepath.Join(dir, IndexFile), []byte("index"), 0o600))
	set, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "chapter", set.Chapter)
	assert.Equal(t, "index", set.Index)
}
