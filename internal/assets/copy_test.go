package assets

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "public")

	require.NoError(t, os.MkdirAll(filepath.Join(src, "img", "icons"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(src, "style.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "app.js"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(src, "img", "logo.png"), []byte{0x89, 'P', 'N', 'G'}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "img", "icons", "a.svg"), []byte("<svg/>"), 0o644))

	copied, found, err := CopyTree(src, dst)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"app.js", "img/icons/a.svg", "img/logo.png", "style.css"}, copied)

	data, err := os.ReadFile(filepath.Join(dst, "img", "logo.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(dst, "app.js"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestCopyTree_MissingSource(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "public")
	copied, found, err := CopyTree(filepath.Join(t.TempDir(), "nope"), dst)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, copied)
	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCopyTree_SkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "public")
	require.NoError(t, os.WriteFile(filepath.Join(src, "real.txt"), []byte("r"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(src, "real.txt"), filepath.Join(src, "link.txt")))

	copied, _, err := CopyTree(src, dst)
	require.NoError(t, err)
	assert.Equal(t, []string{"real.txt"}, copied)
	_, err = os.Lstat(filepath.Join(dst, "link.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestCopyTree_SourceIsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))
	_, _, err := CopyTree(f, t.TempDir())
	require.Error(t, err)
}
