// Package config loads sitebook.yaml, the project-level build settings.
//
// Every field has a default, so a project laid out like the classic
// chapters.json / Chapitres / templates / public tree needs no file at all.
package config

import (
	"bytes"
	stdErrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitebook/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebook/internal/logfields"
)

// DefaultFileName is looked up in the project directory when no config path is given.
const DefaultFileName = "sitebook.yaml"

// EnvLogLevel overrides logging.level when set.
const EnvLogLevel = "SITEBOOK_LOG_LEVEL"

// Config is the full project configuration.
type Config struct {
	Version    string           `yaml:"version"`
	Paths      PathsConfig      `yaml:"paths"`
	Markdown   MarkdownConfig   `yaml:"markdown"`
	Navigation NavigationConfig `yaml:"navigation"`
	Build      BuildConfig      `yaml:"build"`
	Logging    LoggingConfig    `yaml:"logging"`

	// ProjectDir is the absolute directory relative paths were resolved against.
	ProjectDir string `yaml:"-"`
}

// PathsConfig locates build inputs and the output directory.
type PathsConfig struct {
	Manifest  string `yaml:"manifest"`
	Sources   string `yaml:"sources"`
	Templates string `yaml:"templates"`
	Public    string `yaml:"public"`
	Output    string `yaml:"output"`
}

// MarkdownConfig tunes the renderer.
type MarkdownConfig struct {
	HighlightStyle   string `yaml:"highlight_style"`
	StripFrontMatter bool   `yaml:"strip_front_matter"`
}

// NavigationConfig holds sidebar and prev/next labels.
type NavigationConfig struct {
	// KeepMissing keeps entries with a missing source in every navigation
	// list, producing links to pages that are never written.
	KeepMissing    bool   `yaml:"keep_missing"`
	VolumesHeading string `yaml:"volumes_heading"`
	InPageHeading  string `yaml:"in_page_heading"`
	ChapterPrefix  string `yaml:"chapter_prefix"`
	VolumePrefix   string `yaml:"volume_prefix"`
	RomanFallback  string `yaml:"roman_fallback"`
}

type BuildConfig struct {
	VerifyLinks bool `yaml:"verify_links"`
}

type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: "1",
		Paths: PathsConfig{
			Manifest:  "chapters.json",
			Sources:   "Chapitres",
			Templates: "templates",
			Public:    "public",
			Output:    "docs",
		},
		Markdown: MarkdownConfig{StripFrontMatter: true},
		Navigation: NavigationConfig{
			VolumesHeading: "Volumes",
			InPageHeading:  "Dans ce chapitre",
			ChapterPrefix:  "Ch.",
			VolumePrefix:   "Vol.",
			RomanFallback:  "Annexes",
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
}

// Load reads the configuration for projectDir. configPath may be relative to
// projectDir; a missing file yields the defaults. A .env file in projectDir
// is loaded first and ${VAR} references in the YAML are expanded.
func Load(projectDir, configPath string) (*Config, error) {
	dir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "cannot resolve project directory").
			WithContext("path", projectDir).Build()
	}
	if err := loadDotEnv(dir); err != nil {
		return nil, err
	}

	if configPath == "" {
		configPath = DefaultFileName
	}
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(dir, configPath)
	}

	cfg := Default()
	data, err := os.ReadFile(configPath) // #nosec G304 -- path comes from the CLI
	switch {
	case stdErrors.Is(err, fs.ErrNotExist):
		slog.Debug("No configuration file, using defaults", logfields.Path(configPath))
	case err != nil:
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).Fatal().Build()
	default:
		if err := decode(data, cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
				WithContext("path", configPath).Fatal().UserAction().Build()
		}
	}

	cfg.applyDefaults()
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.Logging.Level = LogLevel(lvl)
	}
	cfg.resolve(dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stdErrors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyDefaults fills fields an explicit empty value in the file cleared.
func (c *Config) applyDefaults() {
	d := Default()
	setIfEmpty(&c.Version, d.Version)
	setIfEmpty(&c.Paths.Manifest, d.Paths.Manifest)
	setIfEmpty(&c.Paths.Sources, d.Paths.Sources)
	setIfEmpty(&c.Paths.Templates, d.Paths.Templates)
	setIfEmpty(&c.Paths.Public, d.Paths.Public)
	setIfEmpty(&c.Paths.Output, d.Paths.Output)
	setIfEmpty(&c.Navigation.VolumesHeading, d.Navigation.VolumesHeading)
	setIfEmpty(&c.Navigation.InPageHeading, d.Navigation.InPageHeading)
	setIfEmpty(&c.Navigation.ChapterPrefix, d.Navigation.ChapterPrefix)
	setIfEmpty(&c.Navigation.VolumePrefix, d.Navigation.VolumePrefix)
	setIfEmpty(&c.Navigation.RomanFallback, d.Navigation.RomanFallback)
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
}

func (c *Config) resolve(dir string) {
	c.ProjectDir = dir
	for _, p := range []*string{&c.Paths.Manifest, &c.Paths.Sources, &c.Paths.Templates, &c.Paths.Public, &c.Paths.Output} {
		*p = c.ResolvePath(*p)
	}
}

// ResolvePath makes p absolute against the project directory.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectDir, p)
}

func setIfEmpty(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}
