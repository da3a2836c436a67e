package seoassessor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sybrew/the-seo-framework/config"
	"github.com/sybrew/the-seo-framework/content"
	"github.com/sybrew/the-seo-framework/meta"
	"github.com/sybrew/the-seo-framework/meta/robots"
	"github.com/sybrew/the-seo-framework/seobar"
)

// Executor runs one audit per request. Each request gets a fresh
// engine cache and subject context; nothing leaks between requests.
type Executor struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewExecutor creates an Executor bound to the site configuration the
// verdicts are judged against.
func NewExecutor(cfg *config.Config, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{cfg: cfg, logger: logger}
}

// Execute audits the item carried by the request.
func (e *Executor) Execute(req *AuditRequest) (*AuditResult, error) {
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	store := content.NewStore()
	deps := seobar.Deps{
		Config: e.cfg,
		Posts:  store,
		Terms:  store,
		Meta:   meta.NewGenerator(e.cfg),
		Robots: robots.NewResolver(e.cfg),
		Cache:  seobar.NewCache(),
	}

	var (
		builder seobar.Builder
		query   seobar.Query
		err     error
	)
	if req.Post != nil {
		if err = store.PutPost(req.Post); err != nil {
			return nil, fmt.Errorf("stage post: %w", err)
		}
		query = seobar.Query{ID: req.Post.ID}
		builder, err = seobar.NewPageBuilder(deps)
	} else {
		if err = store.PutTerm(req.Term); err != nil {
			return nil, fmt.Errorf("stage term: %w", err)
		}
		store.BindTaxonomy(req.Term.Taxonomy, req.PostTypes...)
		query = seobar.Query{ID: req.Term.ID, Taxonomy: req.Term.Taxonomy}
		builder, err = seobar.NewTermBuilder(deps)
	}
	if err != nil {
		return nil, err
	}

	runner := seobar.NewRunner(builder, e.logger)
	seq, err := runner.Run(query, req.Tests)
	if err != nil {
		return nil, fmt.Errorf("run audit: %w", err)
	}

	result := &AuditResult{
		RequestID:   requestID,
		Query:       query,
		CompletedAt: time.Now().UTC(),
	}
	for name, v := range seq {
		result.Verdicts = append(result.Verdicts, TestVerdict{Test: name, Verdict: v})
	}
	return result, nil
}
