package config

import (
	stdErrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/sitebook/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebook/internal/logfields"
)

var envFiles = []string{".env", ".env.local"}

// loadDotEnv loads the first env file found in dir. Variables already set in
// the process environment are not overridden.
func loadDotEnv(dir string) error {
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); stdErrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "failed to load env file").
				WithContext("path", path).Build()
		}
		slog.Debug("Loaded environment variables", logfields.Path(path))
		return nil
	}
	return nil
}
