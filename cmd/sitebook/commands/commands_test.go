package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebook/internal/foundation/errors"
)

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"chapters.json": `[
  {"slug": "intro", "title": "Introduction", "shortTitle": "Intro", "source": "00-intro.md", "roman": "I", "color": "#c00"},
  {"slug": "suite", "title": "La suite", "shortTitle": "Suite", "source": "01-suite.md", "roman": "II", "color": "#0c0"}
]`,
		"templates/chapter.html": "<title>{{TITLE}}</title>\n<ul>\n{{SIDEBAR}}\n</ul>\n{{CONTENT}}\n{{PREV_LINK}}\n{{NEXT_LINK}}\n",
		"templates/index.html":   "{{CHAPTERS_GRID}}\n{{VOLUMES_GRID}}\n",
		"Chapitres/00-intro.md":  "# Introduction\n\n## Début\n\nVoir [la suite](suite.html).\n",
		"Chapitres/01-suite.md":  "# La suite\n\nRetour au [début](intro.html#debut).\n",
	}
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
	return dir
}

// run parses args like main does and executes the selected command.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	var buf bytes.Buffer
	err = kctx.Run(&Global{Out: &buf}, cli)
	return buf.String(), err
}

func TestBuildCommand(t *testing.T) {
	dir := writeProject(t)
	out, err := run(t, "-C", dir, "build")
	require.NoError(t, err)
	assert.Equal(t, "Total pages: 3 (2 chapters + index)\n", out)
	assert.FileExists(t, filepath.Join(dir, "docs", "intro.html"))
	assert.FileExists(t, filepath.Join(dir, "docs", "index.html"))
}

func TestBuildCommandOutputAndReport(t *testing.T) {
	dir := writeProject(t)
	report := filepath.Join(t.TempDir(), "report.json")
	_, err := run(t, "-C", dir, "build", "-o", "site", "--verify-links", "--report", report)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "site", "suite.html"))

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "success", decoded["outcome"])
}

func TestBuildCommandRejectsOutputOverSources(t *testing.T) {
	dir := writeProject(t)
	_, err := run(t, "-C", dir, "build", "-o", "Chapitres")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryValidation, errors.GetCategory(err))
}

func TestBuildCommandMissingManifest(t *testing.T) {
	dir := writeProject(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "chapters.json")))
	_, err := run(t, "-C", dir, "build")
	require.Error(t, err)
	assert.NotEqual(t, 0, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	assert.NoDirExists(t, filepath.Join(dir, "docs"))
}

func TestCheckCommand(t *testing.T) {
	dir := writeProject(t)
	_, err := run(t, "-C", dir, "build")
	require.NoError(t, err)

	out, err := run(t, "-C", dir, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "0 broken")

	require.NoError(t, os.Remove(filepath.Join(dir, "docs", "suite.html")))
	out, err = run(t, "-C", dir, "check")
	require.Error(t, err)
	assert.Contains(t, out, "suite.html")
	assert.Equal(t, errors.CategoryBuild, errors.GetCategory(err))
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "-C", dir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "initialized successfully")
	assert.FileExists(t, filepath.Join(dir, "sitebook.yaml"))

	_, err = run(t, "-C", dir, "init")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConfig, errors.GetCategory(err))

	_, err = run(t, "-C", dir, "init", "--force")
	require.NoError(t, err)
}

func TestInitThenBuildUsesWrittenConfig(t *testing.T) {
	dir := writeProject(t)
	_, err := run(t, "-C", dir, "init")
	require.NoError(t, err)
	out, err := run(t, "-C", dir, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "Total pages: 3")
}
