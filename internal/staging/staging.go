// Package staging persists uploaded bytes to a scratch directory so the image
// decoder can read them back from disk.
//
// Every upload is written under its own random key, so concurrent requests
// never read each other's bytes. The only shared file is the optional hex
// cache, which is replaced atomically and is never read back by the service.
package staging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrIO marks every failure of the staging directory or its files.
var ErrIO = errors.New("staging i/o failure")

// keySuffix is appended to generated keys. The decoder sniffs the format from
// content, so the suffix carries no meaning beyond readability on disk.
const keySuffix = ".img"

// Store stages byte payloads under a single directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. The directory is not created until
// EnsureDir or Write is called.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// NewKey returns a fresh staging key that no other request shares.
func NewKey() string {
	return uuid.NewString() + keySuffix
}

// EnsureDir creates the staging directory if it does not exist yet.
// It succeeds when the directory is already present.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create staging directory: %w", ErrIO, err)
	}
	return nil
}

// Path returns the file path a key is staged at.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key)
}

// Write stores data under key, replacing any earlier content, and returns the
// path of the staged file.
func (s *Store) Write(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validKey(key); err != nil {
		return "", err
	}
	if err := s.EnsureDir(); err != nil {
		return "", err
	}

	path := s.Path(key)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("%w: failed to write staged file: %w", ErrIO, err)
	}
	return path, nil
}

// Remove deletes the file staged under key. A missing file is not an error.
func (s *Store) Remove(_ context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: failed to remove staged file: %w", ErrIO, err)
	}
	return nil
}

// WriteCache replaces the file name inside the staging directory with data.
//
// The content is written to a temporary sibling and renamed into place, so a
// reader sees either the previous or the new content, never a mix of two
// concurrent writers.
func (s *Store) WriteCache(name string, data []byte) error {
	if err := validKey(name); err != nil {
		return err
	}
	if err := s.EnsureDir(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("%w: failed to create cache file: %w", ErrIO, err)
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to write cache file: %w", ErrIO, werr)
	}

	if err := os.Rename(tmpName, s.Path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: failed to replace cache file: %w", ErrIO, err)
	}
	return nil
}

// validKey rejects keys that would escape the staging directory.
func validKey(key string) error {
	if key == "" || key == "." || key == ".." || filepath.Base(key) != key {
		return fmt.Errorf("%w: invalid staging key %q", ErrIO, key)
	}
	return nil
}
