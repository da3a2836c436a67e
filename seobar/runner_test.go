package seobar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sybrew/the-seo-framework/seobar"
)

func TestRunnerTestSelection(t *testing.T) {
	all := []string{
		seobar.TestTitle, seobar.TestDescription, seobar.TestIndexing,
		seobar.TestFollowing, seobar.TestArchiving, seobar.TestRedirect,
	}

	t.Run("empty request runs everything", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.store.PutPost(goodPost(1)))

		_, order := h.runPage(t, 1)
		assert.Equal(t, all, order)
	})

	t.Run("request order does not matter", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.store.PutPost(goodPost(1)))

		_, order := h.runPage(t, 1, seobar.TestRedirect, seobar.TestIndexing, seobar.TestTitle)
		assert.Equal(t, []string{seobar.TestTitle, seobar.TestIndexing, seobar.TestRedirect}, order)
	})

	t.Run("unknown names are dropped", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.store.PutPost(goodPost(1)))

		_, order := h.runPage(t, 1, "bogus", seobar.TestTitle, "keywords")
		assert.Equal(t, []string{seobar.TestTitle}, order)
	})

	t.Run("only unknown names yields nothing", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.store.PutPost(goodPost(1)))

		out, order := h.runPage(t, 1, "bogus")
		assert.Empty(t, order)
		assert.Empty(t, out)
	})
}

func TestRunnerDeterminism(t *testing.T) {
	// Two runs over identical inputs, each with a fresh cache and
	// subject context, must produce identical verdicts.
	h := newHarness()
	require.NoError(t, h.store.PutPost(goodPost(1)))

	first, _ := h.runPage(t, 1)
	second, _ := h.runPage(t, 1)

	require.Equal(t, first, second)
}

func TestRunnerPrimeErrors(t *testing.T) {
	t.Run("missing post", func(t *testing.T) {
		h := newHarness()
		b, err := seobar.NewPageBuilder(h.deps())
		require.NoError(t, err)

		_, err = seobar.NewRunner(b, testLogger()).Run(seobar.Query{ID: 404}, nil)
		assert.Error(t, err)
	})

	t.Run("page builder rejects taxonomy queries", func(t *testing.T) {
		h := newHarness()
		b, err := seobar.NewPageBuilder(h.deps())
		require.NoError(t, err)

		_, err = seobar.NewRunner(b, testLogger()).Run(seobar.Query{ID: 1, Taxonomy: "category"}, nil)
		assert.Error(t, err)
	})

	t.Run("term builder requires a taxonomy", func(t *testing.T) {
		h := newHarness()
		b, err := seobar.NewTermBuilder(h.deps())
		require.NoError(t, err)

		_, err = seobar.NewRunner(b, testLogger()).Run(seobar.Query{ID: 1}, nil)
		assert.Error(t, err)
	})
}

func TestRunnerCurrentQuery(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.store.PutPost(goodPost(1)))
	b, err := seobar.NewPageBuilder(h.deps())
	require.NoError(t, err)
	r := seobar.NewRunner(b, testLogger())

	_, ok := r.CurrentQuery()
	assert.False(t, ok)

	q := seobar.Query{ID: 1}
	_, err = r.Run(q, nil)
	require.NoError(t, err)

	got, ok := r.CurrentQuery()
	require.True(t, ok)
	assert.Equal(t, q, got)

	r.ClearQueryCache()
	_, ok = r.CurrentQuery()
	assert.False(t, ok)
}

func TestBuilderDependencyValidation(t *testing.T) {
	h := newHarness()

	t.Run("page builder needs a post source", func(t *testing.T) {
		deps := h.deps()
		deps.Posts = nil
		_, err := seobar.NewPageBuilder(deps)
		assert.Error(t, err)
	})

	t.Run("term builder needs a term source", func(t *testing.T) {
		deps := h.deps()
		deps.Terms = nil
		_, err := seobar.NewTermBuilder(deps)
		assert.Error(t, err)
	})

	t.Run("common dependencies", func(t *testing.T) {
		deps := h.deps()
		deps.Cache = nil
		_, err := seobar.NewPageBuilder(deps)
		assert.Error(t, err)
	})
}
