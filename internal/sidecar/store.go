// Package sidecar maintains `<file>.sha256` companion files holding the
// expected digest of the adjacent data file.
package sidecar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrNoSidecar = errors.New("no sidecar")

// Store reads and writes digest sidecars for a fixed extension (".sha256").
type Store struct {
	ext string
}

func NewStore(ext string) *Store {
	return &Store{ext: ext}
}

// PathFor returns the sidecar path guarding the given data file.
func (s *Store) PathFor(file string) string {
	return file + s.ext
}

// IsSidecar reports whether the path is itself a sidecar file.
func (s *Store) IsSidecar(path string) bool {
	return strings.HasSuffix(path, s.ext)
}

// Read returns the digest recorded for the given data file. Returns an error
// wrapping ErrNoSidecar when no sidecar exists; the caller decides whether
// absence is a violation.
func (s *Store) Read(file string) (string, error) {
	raw, err := os.ReadFile(s.PathFor(file))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", file, ErrNoSidecar)
		}
		return "", fmt.Errorf("read sidecar for %s: %w", file, err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// Write records the digest for the given data file, replacing any previous
// sidecar. The content is written to a temp file in the same directory and
// renamed into place so an interrupted run never leaves a half-written
// sidecar.
func (s *Store) Write(file string, digest string) error {
	target := s.PathFor(file)
	dir := filepath.Dir(target)

	tmp, err := os.CreateTemp(dir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp sidecar for %s: %w", file, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(digest + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write sidecar for %s: %w", file, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close sidecar for %s: %w", file, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod sidecar for %s: %w", file, err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace sidecar for %s: %w", file, err)
	}
	return nil
}
