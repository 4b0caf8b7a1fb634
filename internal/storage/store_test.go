package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hugh/leadtrack/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(t.TempDir(), []string{"pdf", "doc", "docx", "txt"})
	require.NoError(t, err)
	return store
}

func TestStore_AllowedExtension(t *testing.T) {
	store := newTestStore(t)

	t.Run("accepts allowed extensions", func(t *testing.T) {
		assert.True(t, store.AllowedExtension("resume.pdf"))
		assert.True(t, store.AllowedExtension("resume.doc"))
		assert.True(t, store.AllowedExtension("resume.docx"))
		assert.True(t, store.AllowedExtension("resume.txt"))
	})

	t.Run("is case-insensitive", func(t *testing.T) {
		assert.True(t, store.AllowedExtension("Resume.PDF"))
		assert.True(t, store.AllowedExtension("RESUME.TXT"))
	})

	t.Run("rejects disallowed extensions", func(t *testing.T) {
		assert.False(t, store.AllowedExtension("resume.exe"))
		assert.False(t, store.AllowedExtension("resume.pdf.exe"))
		assert.False(t, store.AllowedExtension("resume"))
		assert.False(t, store.AllowedExtension(""))
	})
}

func TestStore_Save(t *testing.T) {
	store := newTestStore(t)

	t.Run("stores under a generated name", func(t *testing.T) {
		name, err := store.Save(strings.NewReader("resume content"), "my resume.pdf")
		require.NoError(t, err)

		assert.NotEqual(t, "my resume.pdf", name)
		assert.True(t, strings.HasSuffix(name, ".pdf"))

		data, err := os.ReadFile(store.Path(name))
		require.NoError(t, err)
		assert.Equal(t, "resume content", string(data))
	})

	t.Run("generates distinct names for identical filenames", func(t *testing.T) {
		a, err := store.Save(strings.NewReader("first"), "resume.pdf")
		require.NoError(t, err)
		b, err := store.Save(strings.NewReader("second"), "resume.pdf")
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
	})

	t.Run("ignores directory components in the original name", func(t *testing.T) {
		name, err := store.Save(strings.NewReader("x"), "../../etc/passwd.txt")
		require.NoError(t, err)

		assert.NotContains(t, name, "/")
		assert.NotContains(t, name, "..")
	})
}

func TestStore_Remove(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Save(strings.NewReader("content"), "resume.pdf")
	require.NoError(t, err)

	require.NoError(t, store.Remove(name))

	_, err = os.Stat(store.Path(name))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_Path(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewStore(dir, []string{"pdf"})
	require.NoError(t, err)

	t.Run("resolves inside the store directory", func(t *testing.T) {
		assert.Equal(t, filepath.Join(dir, "abc.pdf"), store.Path("abc.pdf"))
	})

	t.Run("strips traversal from persisted names", func(t *testing.T) {
		assert.Equal(t, filepath.Join(dir, "passwd"), store.Path("../../etc/passwd"))
	})
}
