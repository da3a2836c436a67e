// Package source locates and watches content fixture files on disk so
// audits can run over a directory and re-run when files change.
package source

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sybrew/the-seo-framework/content"
)

// Scanner finds content files under a root directory using
// include/exclude glob patterns. Patterns match slash-separated paths
// relative to the root.
type Scanner struct {
	root    string
	include []string
	exclude []string
}

// NewScanner creates a Scanner. Empty include patterns match every
// YAML file; invalid patterns are reported up front.
func NewScanner(root string, include, exclude []string) (*Scanner, error) {
	if len(include) == 0 {
		include = []string{"**/*.yaml", "**/*.yml"}
	}
	for _, pat := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid glob pattern %q", pat)
		}
	}
	return &Scanner{root: root, include: include, exclude: exclude}, nil
}

// Match reports whether a root-relative path is an auditable content
// file. Exclusions win over inclusions.
func (s *Scanner) Match(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, pat := range s.exclude {
		if ok, _ := doublestar.Match(pat, relPath); ok {
			return false
		}
	}
	for _, pat := range s.include {
		if ok, _ := doublestar.Match(pat, relPath); ok {
			return true
		}
	}
	return false
}

// Scan walks the root and returns matching file paths, root-relative.
func (s *Scanner) Scan() ([]string, error) {
	var out []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			// Hidden directories never hold auditable content.
			if base := filepath.Base(path); strings.HasPrefix(base, ".") && rel != "." {
				return filepath.SkipDir
			}
			return nil
		}
		if s.Match(rel) {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.root, err)
	}
	return out, nil
}

// LoadStore scans the root and loads every matching fixture into a
// fresh content store.
func (s *Scanner) LoadStore() (*content.Store, error) {
	paths, err := s.Scan()
	if err != nil {
		return nil, err
	}
	store := content.NewStore()
	for _, rel := range paths {
		if err := store.LoadFile(filepath.Join(s.root, rel)); err != nil {
			return nil, err
		}
	}
	return store, nil
}
