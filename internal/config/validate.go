package config

import (
	"fmt"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"git.home.luguber.info/inful/sitebook/internal/foundation/errors"
)

// Validate checks paths and enum values. The output directory is removed at
// the start of every build, so it may not be the project root or overlap an
// input directory.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Version, validation.In("1").Error("unsupported config version")),
		validation.Field(&c.Paths),
		validation.Field(&c.Logging),
	)
	if err == nil {
		err = c.checkOutput()
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid configuration").
			WithContext("path", c.ProjectDir).Fatal().UserAction().Build()
	}
	return nil
}

func (p PathsConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Manifest, validation.Required),
		validation.Field(&p.Sources, validation.Required),
		validation.Field(&p.Templates, validation.Required),
		validation.Field(&p.Public, validation.Required),
		validation.Field(&p.Output, validation.Required),
	)
}

func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.By(func(value any) error {
			_, err := logLevels.Parse(string(value.(LogLevel)))
			return err
		})),
		validation.Field(&l.Format, validation.By(func(value any) error {
			_, err := logFormats.Parse(string(value.(LogFormat)))
			return err
		})),
	)
}

func (c *Config) checkOutput() error {
	out := filepath.Clean(c.Paths.Output)
	if c.ProjectDir != "" && out == filepath.Clean(c.ProjectDir) {
		return fmt.Errorf("output directory %s is the project directory", out)
	}
	for _, in := range []string{c.Paths.Sources, c.Paths.Templates, c.Paths.Public} {
		in = filepath.Clean(in)
		if out == in || isWithin(in, out) || isWithin(out, in) {
			return fmt.Errorf("output directory %s overlaps input directory %s", out, in)
		}
	}
	return nil
}

// isWithin reports whether child lies inside parent.
func isWithin(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
