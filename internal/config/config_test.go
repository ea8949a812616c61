package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitebook/internal/foundation/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir, "")
	require.NoError(t, err)

	abs, _ := filepath.Abs(dir)
	assert.Equal(t, abs, cfg.ProjectDir)
	assert.Equal(t, filepath.Join(abs, "chapters.json"), cfg.Paths.Manifest)
	assert.Equal(t, filepath.Join(abs, "Chapitres"), cfg.Paths.Sources)
	assert.Equal(t, filepath.Join(abs, "templates"), cfg.Paths.Templates)
	assert.Equal(t, filepath.Join(abs, "public"), cfg.Paths.Public)
	assert.Equal(t, filepath.Join(abs, "docs"), cfg.Paths.Output)
	assert.True(t, cfg.Markdown.StripFrontMatter)
	assert.False(t, cfg.Navigation.KeepMissing)
	assert.Equal(t, "Dans ce chapitre", cfg.Navigation.InPageHeading)
	assert.Equal(t, "Annexes", cfg.Navigation.RomanFallback)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
}

func TestLoad_FileOverridesAndEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BOOK_OUT", "site")
	writeFile(t, filepath.Join(dir, DefaultFileName), `
version: "1"
paths:
  output: ${BOOK_OUT}
  sources: chapters
markdown:
  highlight_style: monokai
  strip_front_matter: false
navigation:
  keep_missing: true
  chapter_prefix: Chap.
build:
  verify_links: true
`)

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "site", filepath.Base(cfg.Paths.Output))
	assert.Equal(t, "chapters", filepath.Base(cfg.Paths.Sources))
	assert.Equal(t, "chapters.json", filepath.Base(cfg.Paths.Manifest))
	assert.Equal(t, "monokai", cfg.Markdown.HighlightStyle)
	assert.False(t, cfg.Markdown.StripFrontMatter)
	assert.True(t, cfg.Navigation.KeepMissing)
	assert.Equal(t, "Chap.", cfg.Navigation.ChapterPrefix)
	assert.Equal(t, "Vol.", cfg.Navigation.VolumePrefix)
	assert.True(t, cfg.Build.VerifyLinks)
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SB_TEST_SET", "process")
	writeFile(t, filepath.Join(dir, ".env"), "SB_TEST_SET=file\nSB_TEST_OUT=fromenv\n")
	writeFile(t, filepath.Join(dir, DefaultFileName), "paths:\n  output: ${SB_TEST_OUT}\n  public: ${SB_TEST_SET}\n")
	t.Cleanup(func() { _ = os.Unsetenv("SB_TEST_OUT") })

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "fromenv", filepath.Base(cfg.Paths.Output))
	assert.Equal(t, "process", filepath.Base(cfg.Paths.Public))
}

func TestLoad_LogLevelEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvLogLevel, "debug")
	writeFile(t, filepath.Join(dir, DefaultFileName), "logging:\n  level: error\n")

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		category errors.ErrorCategory
	}{
		{"unknown field", "paths:\n  outptu: x\n", errors.CategoryConfig},
		{"malformed", "paths: [\n", errors.CategoryConfig},
		{"bad version", "version: \"2\"\n", errors.CategoryValidation},
		{"bad level", "logging:\n  level: loud\n", errors.CategoryValidation},
		{"output is project", "paths:\n  output: .\n", errors.CategoryValidation},
		{"output is sources", "paths:\n  output: Chapitres\n", errors.CategoryValidation},
		{"output inside public", "paths:\n  output: public/site\n", errors.CategoryValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, DefaultFileName), tt.yaml)

			_, err := Load(dir, "")
			require.Error(t, err)
			assert.Equal(t, tt.category, errors.GetCategory(err))
		})
	}
}

func TestLoad_ExplicitAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	other := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, other, "paths:\n  output: out\n")

	cfg, err := Load(dir, other)
	require.NoError(t, err)
	assert.Equal(t, "out", filepath.Base(cfg.Paths.Output))
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)

	require.NoError(t, Init(path, false))
	err := Init(path, false)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConfig, errors.GetCategory(err))
	require.NoError(t, Init(path, true))

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "docs", filepath.Base(cfg.Paths.Output))
	assert.True(t, cfg.Markdown.StripFrontMatter)
}

func TestLogLevelNormalization(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" WARNING "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("nonsense"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat(""))
}
