package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes uploaded resumes into a single scoped directory. File names
// are generated, never derived from caller input, so concurrent submissions
// cannot collide and traversal sequences in the original name are inert.
type Store struct {
	dir     string
	allowed map[string]bool
}

func NewStore(dir string, allowedExts []string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	allowed := make(map[string]bool, len(allowedExts))
	for _, ext := range allowedExts {
		allowed["."+strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	return &Store{dir: dir, allowed: allowed}, nil
}

// AllowedExtension reports whether the original filename carries an
// extension from the configured allow list.
func (s *Store) AllowedExtension(filename string) bool {
	return s.allowed[strings.ToLower(filepath.Ext(filename))]
}

// Save writes the upload under a generated name and returns that name. Only
// the extension of the original filename survives.
func (s *Store) Save(r io.Reader, originalFilename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	name := uuid.New().String() + ext

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("creating resume file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing resume file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing resume file: %w", err)
	}

	return name, nil
}

func (s *Store) Remove(name string) error {
	return os.Remove(filepath.Join(s.dir, filepath.Base(name)))
}

// Path returns the on-disk location for a stored name. Base strips any
// directory components so a persisted name can never escape the store.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *Store) Open(name string) (*os.File, error) {
	return os.Open(s.Path(name))
}
