package content

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixture is the on-disk representation of auditable content: one YAML
// document holding posts, terms, and taxonomy bindings.
type Fixture struct {
	Posts      []*Post             `yaml:"posts,omitempty"`
	Terms      []*Term             `yaml:"terms,omitempty"`
	Taxonomies map[string][]string `yaml:"taxonomies,omitempty"`
}

// LoadFile reads one fixture file into the store.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse fixture %s: %w", path, err)
	}

	for _, p := range f.Posts {
		if p.Type == "" {
			p.Type = "post"
		}
		if p.Status == "" {
			p.Status = StatusPublish
		}
		if p.Visibility == "" {
			p.Visibility = VisibilityPublic
		}
		if err := s.PutPost(p); err != nil {
			return fmt.Errorf("fixture %s: %w", path, err)
		}
	}
	for _, t := range f.Terms {
		if err := s.PutTerm(t); err != nil {
			return fmt.Errorf("fixture %s: %w", path, err)
		}
	}
	for taxonomy, postTypes := range f.Taxonomies {
		s.BindTaxonomy(taxonomy, postTypes...)
	}
	return nil
}

// LoadDir walks dir loading every .yaml/.yml fixture file.
func (s *Store) LoadDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		return s.LoadFile(path)
	})
}
