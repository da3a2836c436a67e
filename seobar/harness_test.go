package seobar_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sybrew/the-seo-framework/config"
	"github.com/sybrew/the-seo-framework/content"
	"github.com/sybrew/the-seo-framework/meta"
	"github.com/sybrew/the-seo-framework/meta/robots"
	"github.com/sybrew/the-seo-framework/seobar"
)

func boolPtr(b bool) *bool { return &b }

// harness wires a real generator, resolver, and in-memory store around
// a mutable config, the way the audit command assembles them.
type harness struct {
	cfg   *config.Config
	store *content.Store
}

func newHarness() *harness {
	cfg := config.DefaultConfig()
	cfg.Site.Name = "Acme"
	cfg.Site.URL = "https://acme.example"
	return &harness{cfg: cfg, store: content.NewStore()}
}

func (h *harness) deps() seobar.Deps {
	return seobar.Deps{
		Config: h.cfg,
		Posts:  h.store,
		Terms:  h.store,
		Meta:   meta.NewGenerator(h.cfg),
		Robots: robots.NewResolver(h.cfg),
		Cache:  seobar.NewCache(),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// runPage collects every yielded verdict for one post, keyed by test
// name, plus the yield order.
func (h *harness) runPage(t *testing.T, id int64, tests ...string) (map[string]seobar.Verdict, []string) {
	t.Helper()
	b, err := seobar.NewPageBuilder(h.deps())
	require.NoError(t, err)
	return collect(t, seobar.NewRunner(b, testLogger()), seobar.Query{ID: id}, tests)
}

func (h *harness) runTerm(t *testing.T, taxonomy string, id int64, tests ...string) (map[string]seobar.Verdict, []string) {
	t.Helper()
	b, err := seobar.NewTermBuilder(h.deps())
	require.NoError(t, err)
	return collect(t, seobar.NewRunner(b, testLogger()), seobar.Query{ID: id, Taxonomy: taxonomy}, tests)
}

func collect(t *testing.T, r *seobar.Runner, q seobar.Query, tests []string) (map[string]seobar.Verdict, []string) {
	t.Helper()
	seq, err := r.Run(q, tests)
	require.NoError(t, err)

	out := make(map[string]seobar.Verdict)
	var order []string
	for name, v := range seq {
		out[name] = v
		order = append(order, name)
	}
	return out, order
}
