package lake

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"lakeguard/internal/utils"
)

// identRe is the identifier directory rule: 1-8 uppercase alphanumerics.
var identRe = regexp.MustCompile(`^[A-Z0-9]{1,8}$`)

// InScope reports whether a root-relative slash path is subject to integrity
// tracking. Non-matching paths are silently out of scope, never an error.
func (l *Lake) InScope(rel string) bool {
	rel = path.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "../") {
		return false
	}

	segs := strings.Split(rel, "/")
	if len(segs) != 3 || !identRe.MatchString(segs[1]) {
		return false
	}

	if l.ignore != nil && l.ignore.MatchesPath(rel) {
		return false
	}

	for _, pattern := range l.patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Select walks the lake and returns every in-scope file as a de-duplicated,
// lexicographically sorted list of root-relative slash paths. Stable ordering
// keeps reports and downstream processing reproducible.
func (l *Lake) Select() ([]string, error) {
	seen := make(map[string]struct{})

	err := filepath.WalkDir(l.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == l.MetadataDir {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(l.Root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if l.InScope(rel) {
			seen[rel] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", l.Root, err)
	}

	return sortedKeys(seen), nil
}

// Filter maps hook-provided paths (absolute or cwd-relative) onto the set of
// in-scope root-relative paths. Paths outside the lake, out-of-scope paths
// and duplicates are silently dropped.
func (l *Lake) Filter(paths []string) ([]string, error) {
	seen := make(map[string]struct{})

	for _, p := range paths {
		abs, err := utils.ResolvePath(p)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(l.Root, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if l.InScope(rel) {
			seen[rel] = struct{}{}
		}
	}

	return sortedKeys(seen), nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for rel := range set {
		out = append(out, rel)
	}
	sort.Strings(out)
	return out
}
