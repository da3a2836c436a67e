package seobar

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/sybrew/the-seo-framework/config"
	"github.com/sybrew/the-seo-framework/content"
	"github.com/sybrew/the-seo-framework/meta"
)

// Canonical test names. Requested tests always run in this order,
// regardless of the order the caller asked for.
const (
	TestTitle       = "title"
	TestDescription = "description"
	TestIndexing    = "indexing"
	TestFollowing   = "following"
	TestArchiving   = "archiving"
	TestRedirect    = "redirect"
)

var canonicalTests = []string{
	TestTitle, TestDescription, TestIndexing,
	TestFollowing, TestArchiving, TestRedirect,
}

// Query identifies the item to evaluate: a post by ID, or a term by
// taxonomy and ID.
type Query struct {
	ID       int64  `json:"id"`
	Taxonomy string `json:"taxonomy,omitempty"`
}

// PostSource supplies posts to the page builder.
type PostSource interface {
	Post(id int64) (*content.Post, error)
}

// TermSource supplies terms and their taxonomy bindings to the term
// builder.
type TermSource interface {
	Term(taxonomy string, id int64) (*content.Term, error)
	PostTypes(taxonomy string) []string
}

// MetaGenerator supplies generated titles and descriptions.
// *meta.Generator satisfies it.
type MetaGenerator interface {
	CustomTitle(p *content.Post) string
	GeneratedTitle(p *content.Post) string
	TermCustomTitle(t *content.Term) string
	TermGeneratedTitle(t *content.Term) string
	Branded(title string) string
	Untitled() string
	IsHomepage(p *content.Post) bool
	CustomDescription(p *content.Post) (string, meta.DescriptionOrigin)
	GenerateDescription(p *content.Post) (string, meta.DescriptionOrigin)
	TermDescription(t *content.Term) (string, meta.DescriptionOrigin)
}

// RobotsResolver supplies effective robots directives.
// *robots.Resolver satisfies it.
type RobotsResolver interface {
	ForPost(p *content.Post) content.RobotsMeta
	ForTerm(t *content.Term, postTypes []string) content.RobotsMeta
}

// Deps bundles everything an evaluator reads. The engine itself never
// touches storage or the network; these collaborators do.
type Deps struct {
	Config *config.Config
	Posts  PostSource
	Terms  TermSource
	Meta   MetaGenerator
	Robots RobotsResolver
	// Cache is the run-lifetime shared cache. Use one Cache per run;
	// see Cache.
	Cache *Cache
}

func (d Deps) validate() error {
	switch {
	case d.Config == nil:
		return fmt.Errorf("seobar: Deps.Config is required")
	case d.Meta == nil:
		return fmt.Errorf("seobar: Deps.Meta is required")
	case d.Robots == nil:
		return fmt.Errorf("seobar: Deps.Robots is required")
	case d.Cache == nil:
		return fmt.Errorf("seobar: Deps.Cache is required")
	}
	return nil
}

// siteState is the site-wide settings snapshot shared by every
// evaluated item in a run.
type siteState struct {
	public       bool
	hasRobotsTxt bool
	site         config.Directives
	brand        string
	minWordLen   int
	locale       string
}

func (d Deps) siteState() siteState {
	return memo(d.Cache, keySiteState, func() siteState {
		return siteState{
			public:       d.Config.Site.IsPublic(),
			hasRobotsTxt: d.Config.Site.HasRobotsTxt,
			site:         d.Config.Robots.Site,
			brand:        d.Config.Site.Name,
			minWordLen:   d.Config.Meta.MinWordLength,
			locale:       d.Config.Site.Locale,
		}
	})
}

// subject is the per-item query context an evaluator reads. It is
// built fresh for every Run call and never shared across items.
type subject interface {
	isSubject()
}

// Builder evaluates one kind of item. The two implementations are
// PageBuilder (singular content) and TermBuilder (taxonomy archives).
type Builder interface {
	// Tests returns the registered test names in canonical order.
	Tests() []string

	prime(q Query) (subject, error)
	evaluate(test string, s subject) Verdict
}

// Runner drives a Builder over items, yielding verdicts lazily.
type Runner struct {
	builder Builder
	logger  *slog.Logger

	// current mirrors the most recently primed query so callers can
	// inspect or discard it; evaluators never read it.
	current *Query
}

// NewRunner creates a Runner for the given builder.
func NewRunner(b Builder, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{builder: b, logger: logger}
}

// Run evaluates the requested tests against one item and returns a
// lazy sequence of (test name, verdict) pairs. Unknown test names are
// silently dropped; an empty request means every registered test.
// Results come in canonical test order, one verdict at a time —
// breaking out of the range stops further evaluation. The sequence is
// for a single consumer and is not restartable after exhaustion.
//
// When the redirect test is requested and the item carries a blocking
// redirect, the sequence yields only the redirect verdict: every other
// SEO signal is moot on a redirecting page.
func (r *Runner) Run(q Query, tests []string) (iter.Seq2[string, Verdict], error) {
	effective := r.filterTests(tests)

	s, err := r.builder.prime(q)
	if err != nil {
		return nil, fmt.Errorf("prime query %+v: %w", q, err)
	}
	r.current = &q

	// The redirect verdict is computed eagerly: it decides whether the
	// remaining tests run at all, and it is cheap.
	var redirect *Verdict
	if slices.Contains(effective, TestRedirect) {
		v := r.builder.evaluate(TestRedirect, s)
		redirect = &v
		if v.Blocking {
			r.logger.Debug("redirect blocks remaining tests",
				slog.Int64("id", q.ID), slog.String("taxonomy", q.Taxonomy))
			effective = []string{TestRedirect}
		}
	}

	return func(yield func(string, Verdict) bool) {
		for _, name := range effective {
			var v Verdict
			if name == TestRedirect && redirect != nil {
				v = *redirect
			} else {
				v = r.builder.evaluate(name, s)
			}
			if !yield(name, v) {
				return
			}
		}
	}, nil
}

// filterTests intersects the request with the registered tests,
// preserving the builder's canonical order.
func (r *Runner) filterTests(requested []string) []string {
	registered := r.builder.Tests()
	if len(requested) == 0 {
		return slices.Clone(registered)
	}
	var out []string
	for _, name := range registered {
		if slices.Contains(requested, name) {
			out = append(out, name)
		}
	}
	return out
}

// CurrentQuery returns the most recently primed query, if any.
func (r *Runner) CurrentQuery() (Query, bool) {
	if r.current == nil {
		return Query{}, false
	}
	return *r.current, true
}

// ClearQueryCache forgets the current query context.
func (r *Runner) ClearQueryCache() {
	r.current = nil
}
