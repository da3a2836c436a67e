package storage

import (
	"testing"

	"github.com/sybrew/the-seo-framework/seobar"
)

func TestResultKey(t *testing.T) {
	t.Run("post key", func(t *testing.T) {
		key := ResultKey(seobar.Query{ID: 42})
		if key != "post.42" {
			t.Errorf("expected post.42, got %s", key)
		}
	})

	t.Run("term key", func(t *testing.T) {
		key := ResultKey(seobar.Query{ID: 7, Taxonomy: "category"})
		if key != "term.category.7" {
			t.Errorf("expected term.category.7, got %s", key)
		}
	})
}

func TestParseResultKey(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		queries := []seobar.Query{
			{ID: 1},
			{ID: 42},
			{ID: 7, Taxonomy: "category"},
			{ID: 9, Taxonomy: "post_tag"},
		}
		for _, q := range queries {
			got, err := ParseResultKey(ResultKey(q))
			if err != nil {
				t.Errorf("unexpected error for %+v: %v", q, err)
				continue
			}
			if got != q {
				t.Errorf("round trip %+v: got %+v", q, got)
			}
		}
	})

	t.Run("rejects invalid keys", func(t *testing.T) {
		invalid := []string{
			"",
			"post.",
			"post.abc",
			"term.7",
			"term.category.",
			"page.1",
			"noseparator",
		}
		for _, key := range invalid {
			if _, err := ParseResultKey(key); err == nil {
				t.Errorf("expected error for %q, got nil", key)
			}
		}
	})
}
