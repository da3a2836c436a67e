package content

import (
	"fmt"
	"sort"
	"sync"
)

// Store is an in-memory content store. It backs the CLI's fixture
// auditing and the processor's request handling; both only read, but
// ingestion may run concurrently with audits, so access is locked.
type Store struct {
	mu        sync.RWMutex
	posts     map[int64]*Post
	terms     map[termKey]*Term
	postTypes map[string][]string // taxonomy → bound post types
}

type termKey struct {
	taxonomy string
	id       int64
}

// NewStore creates an empty content store.
func NewStore() *Store {
	return &Store{
		posts:     make(map[int64]*Post),
		terms:     make(map[termKey]*Term),
		postTypes: make(map[string][]string),
	}
}

// PutPost inserts or replaces a post.
func (s *Store) PutPost(p *Post) error {
	if p.ID == 0 {
		return fmt.Errorf("post has no ID")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[p.ID] = p
	return nil
}

// PutTerm inserts or replaces a term.
func (s *Store) PutTerm(t *Term) error {
	if t.ID == 0 || t.Taxonomy == "" {
		return fmt.Errorf("term needs both ID and taxonomy")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms[termKey{t.Taxonomy, t.ID}] = t
	return nil
}

// BindTaxonomy records which post types a taxonomy applies to.
func (s *Store) BindTaxonomy(taxonomy string, postTypes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.postTypes[taxonomy] = append(s.postTypes[taxonomy], postTypes...)
}

// Post returns the post with the given ID, or ErrNotFound.
func (s *Store) Post(id int64) (*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	return p, nil
}

// Term returns the term identified by taxonomy and ID, or ErrNotFound.
func (s *Store) Term(taxonomy string, id int64) (*Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.terms[termKey{taxonomy, id}]
	if !ok {
		return nil, fmt.Errorf("term %s/%d: %w", taxonomy, id, ErrNotFound)
	}
	return t, nil
}

// PostTypes returns the post types bound to a taxonomy.
func (s *Store) PostTypes(taxonomy string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.postTypes[taxonomy]...)
}

// Posts returns all posts ordered by ID.
func (s *Store) Posts() []*Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Terms returns all terms ordered by taxonomy, then ID.
func (s *Store) Terms() []*Term {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Term, 0, len(s.terms))
	for _, t := range s.terms {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Taxonomy != out[j].Taxonomy {
			return out[i].Taxonomy < out[j].Taxonomy
		}
		return out[i].ID < out[j].ID
	})
	return out
}
