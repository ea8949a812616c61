// Package assets mirrors the public asset directory into the output tree.
package assets

import (
	stdErrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitebook/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebook/internal/logfields"
)

// CopyTree copies src into dst recursively. Entries are visited in lexical
// order and file modes are preserved. Symlinks are skipped. The returned
// paths are slash-separated and relative to src. A missing src is not an
// error; it yields no files and found == false.
func CopyTree(src, dst string) (copied []string, found bool, err error) {
	info, err := os.Stat(src)
	if stdErrors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fsError(err, "cannot stat asset directory", src)
	}
	if !info.IsDir() {
		return nil, true, errors.FileSystemError("asset path is not a directory").WithContext("path", src).Build()
	}

	// WalkDir visits entries in lexical order.
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fsError(walkErr, "cannot read asset directory", path)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fsError(err, "cannot resolve asset path", path)
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			slog.Debug("Skipping symlink in assets", logfields.Path(path))
			return nil
		case d.IsDir():
			fi, err := d.Info()
			if err != nil {
				return fsError(err, "cannot stat asset directory", path)
			}
			if err := os.MkdirAll(target, fi.Mode().Perm()|0o700); err != nil {
				return fsError(err, "cannot create asset directory", target)
			}
			return nil
		case !d.Type().IsRegular():
			slog.Debug("Skipping non-regular asset", logfields.Path(path))
			return nil
		}

		if err := copyFile(path, target); err != nil {
			return fsError(err, "failed to copy asset", path)
		}
		copied = append(copied, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return copied, true, err
	}
	return copied, true, nil
}

// copyFile copies a single file from src to dst, keeping its permissions.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src) // #nosec G304 -- walking a configured directory
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}
	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm()) // #nosec G304
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}
	// OpenFile honours umask; set the mode explicitly.
	return os.Chmod(dst, srcInfo.Mode().Perm())
}

func fsError(err error, msg, path string) error {
	if errors.IsClassified(err) {
		return err
	}
	return errors.WrapError(err, errors.CategoryFileSystem, msg).WithContext("path", path).Fatal().Build()
}
