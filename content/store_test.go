package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.PutPost(&Post{ID: 1, Type: "page", Title: "About"}))
	require.NoError(t, s.PutTerm(&Term{ID: 7, Taxonomy: "category", Name: "News", Count: 3}))
	s.BindTaxonomy("category", "post")

	p, err := s.Post(1)
	require.NoError(t, err)
	assert.Equal(t, "About", p.Title)

	term, err := s.Term("category", 7)
	require.NoError(t, err)
	assert.Equal(t, "News", term.Name)
	assert.False(t, term.IsEmpty())

	assert.Equal(t, []string{"post"}, s.PostTypes("category"))

	_, err = s.Post(99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Term("category", 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreRejectsUnidentified(t *testing.T) {
	s := NewStore()
	assert.Error(t, s.PutPost(&Post{Title: "no id"}))
	assert.Error(t, s.PutTerm(&Term{ID: 1, Name: "no taxonomy"}))
}

func TestQubit(t *testing.T) {
	assert.False(t, QubitInherit.Set())
	assert.True(t, QubitOn.Set())
	assert.True(t, QubitOff.Set())

	assert.True(t, QubitInherit.Enabled(true))
	assert.False(t, QubitInherit.Enabled(false))
	assert.True(t, QubitOn.Enabled(false))
	assert.False(t, QubitOff.Enabled(true))
}

func TestPostStates(t *testing.T) {
	assert.True(t, (&Post{Status: StatusDraft}).IsDraft())
	assert.True(t, (&Post{Status: StatusPending}).IsDraft())
	assert.True(t, (&Post{Status: StatusFuture}).IsDraft())
	assert.False(t, (&Post{Status: StatusPublish}).IsDraft())

	assert.True(t, (&Post{Visibility: VisibilityProtected}).IsProtected())
	assert.True(t, (&Post{Visibility: VisibilityPrivate}).IsProtected())
	assert.False(t, (&Post{Visibility: VisibilityPublic}).IsProtected())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	fixture := `
posts:
  - id: 1
    title: Hello World
  - id: 2
    type: page
    title: About
    status: draft
terms:
  - id: 3
    taxonomy: category
    name: News
    count: 2
taxonomies:
  category: [post]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content.yaml"), []byte(fixture), 0644))

	s := NewStore()
	require.NoError(t, s.LoadDir(dir))

	assert.Len(t, s.Posts(), 2)
	assert.Len(t, s.Terms(), 1)

	// Defaults applied on load.
	p, err := s.Post(1)
	require.NoError(t, err)
	assert.Equal(t, "post", p.Type)
	assert.Equal(t, StatusPublish, p.Status)
	assert.Equal(t, VisibilityPublic, p.Visibility)

	p2, err := s.Post(2)
	require.NoError(t, err)
	assert.True(t, p2.IsDraft())
}

func TestLoadFileBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("posts: {not: [a, list"), 0644))

	s := NewStore()
	assert.Error(t, s.LoadFile(path))
}
