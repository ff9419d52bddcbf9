// Package lake models the on-disk layout of the data lake and selects the
// files subject to integrity tracking.
//
// Tracked files live exactly one level under an identifier directory inside a
// category subtree:
//
//	<root>/<category>/<IDENT>/<name>.<ext>
//
// where IDENT is 1-8 uppercase alphanumerics (a ticker symbol or dataset id).
package lake

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	gitignore "github.com/sabhiram/go-gitignore"

	"lakeguard/internal/utils"
)

const (
	metadataDir = ".lakeguard"
	lockFile    = "lakeguard.lock"
)

var ErrLakeLocked = errors.New("data lake locked by another process")

type Lake struct {
	Root        string
	MetadataDir string

	categories []string
	patterns   []string
	ignore     *gitignore.GitIgnore

	flock *flock.Flock
}

// New builds a Lake rooted at rootDir. The ignore file is optional; when
// present at the lake root its gitignore-style rules exclude otherwise
// in-scope files.
func New(rootDir string, categories, extensions []string, ignoreFile string) (*Lake, error) {
	root, err := utils.ResolvePath(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", rootDir, err)
	}

	patterns := make([]string, 0, len(categories))
	extSet := strings.Join(extensions, ",")
	for _, cat := range categories {
		patterns = append(patterns, fmt.Sprintf("%s/*/*.{%s}", cat, extSet))
	}

	var ignore *gitignore.GitIgnore
	if ignoreFile != "" {
		ignorePath := filepath.Join(root, ignoreFile)
		if utils.FileExists(ignorePath) {
			ignore, err = gitignore.CompileIgnoreFile(ignorePath)
			if err != nil {
				return nil, fmt.Errorf("parse ignore file %s: %w", ignorePath, err)
			}
		}
	}

	metaDir := filepath.Join(root, metadataDir)

	return &Lake{
		Root:        root,
		MetadataDir: metaDir,
		categories:  categories,
		patterns:    patterns,
		ignore:      ignore,
		flock:       flock.New(filepath.Join(metaDir, lockFile)),
	}, nil
}

// Lock takes the lake-wide lock so that two passes cannot interleave sidecar
// writes for the same paths.
func (l *Lake) Lock() error {
	if err := utils.EnsureDir(l.MetadataDir); err != nil {
		return fmt.Errorf("create metadata dir %s: %w", l.MetadataDir, err)
	}

	locked, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("lock data lake: %w", err)
	}
	if !locked {
		return ErrLakeLocked
	}
	return nil
}

func (l *Lake) Unlock() error {
	if !l.flock.Locked() {
		return nil
	}
	return l.flock.Unlock()
}

// Init creates the category skeleton and the metadata directory.
func (l *Lake) Init() ([]string, error) {
	created := make([]string, 0, len(l.categories)+1)
	for _, cat := range l.categories {
		dir := filepath.Join(l.Root, cat)
		if err := utils.EnsureDir(dir); err != nil {
			return created, fmt.Errorf("create %s: %w", dir, err)
		}
		created = append(created, dir)
	}
	if err := utils.EnsureDir(l.MetadataDir); err != nil {
		return created, fmt.Errorf("create %s: %w", l.MetadataDir, err)
	}
	created = append(created, l.MetadataDir)
	return created, nil
}

// Abs resolves a root-relative slash path to an absolute filesystem path.
func (l *Lake) Abs(rel string) string {
	return filepath.Join(l.Root, filepath.FromSlash(rel))
}
