// Package storage keeps uploaded blobs in a single local directory under
// generated names.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrBlobNotFound = errors.New("file not found")

// Store writes and reads blobs under one upload root.
type Store struct {
	dir string
}

// New creates the upload directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// maxExtLen bounds the kept extension, dot included.
const maxExtLen = 16

// Filename derives the stored name for an upload: a random token plus the
// lower-cased extension of the original name. A name without an extension
// gives a bare token, and so does one whose extension is longer than
// maxExtLen bytes.
func Filename(originalName string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	ext := strings.ToLower(filepath.Ext(filepath.Base(strings.ReplaceAll(originalName, `\`, "/"))))
	if ext == "." || len(ext) > maxExtLen {
		ext = ""
	}
	return token + ext
}

// Save copies r verbatim into a newly named file and returns the filename
// (not the full path).
func (s *Store) Save(r io.Reader, originalName string) (string, error) {
	name := Filename(originalName)
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write blob: %w", err)
	}
	return name, nil
}

// Path returns the on-disk location of a stored blob.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", ErrBlobNotFound
	}
	return filepath.Join(s.dir, name), nil
}

// Open returns ErrBlobNotFound when the blob is missing.
func (s *Store) Open(name string) (*os.File, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat blob: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrBlobNotFound
	}
	return f, nil
}

// Remove deletes a blob. A blob that is already gone is not an error.
func (s *Store) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}
