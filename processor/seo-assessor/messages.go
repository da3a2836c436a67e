// Package seoassessor provides a JetStream processor that runs SEO Bar
// audits as a service. It consumes AuditRequest messages, evaluates the
// requested tests against the carried item, and publishes an
// AuditResult.
package seoassessor

import (
	"fmt"
	"time"

	"github.com/sybrew/the-seo-framework/content"
	"github.com/sybrew/the-seo-framework/seobar"
)

// AuditRequest asks for one item to be audited. The item travels
// inline so the worker needs no access to the requester's content
// store. Exactly one of Post or Term must be set.
type AuditRequest struct {
	// RequestID correlates the result with the request. Assigned by
	// the worker when empty.
	RequestID string `json:"request_id,omitempty"`

	Post *content.Post `json:"post,omitempty"`
	Term *content.Term `json:"term,omitempty"`

	// PostTypes lists the post types bound to the term's taxonomy.
	// Ignored for post requests.
	PostTypes []string `json:"post_types,omitempty"`

	// Tests selects which tests run; empty means all.
	Tests []string `json:"tests,omitempty"`
}

// Validate checks structural validity of the request.
func (r *AuditRequest) Validate() error {
	switch {
	case r.Post == nil && r.Term == nil:
		return fmt.Errorf("audit request carries no item")
	case r.Post != nil && r.Term != nil:
		return fmt.Errorf("audit request carries both a post and a term")
	case r.Post != nil && r.Post.ID == 0:
		return fmt.Errorf("post has no ID")
	case r.Term != nil && r.Term.ID == 0:
		return fmt.Errorf("term has no ID")
	case r.Term != nil && r.Term.Taxonomy == "":
		return fmt.Errorf("term has no taxonomy")
	}
	return nil
}

// TestVerdict pairs a test name with its verdict, preserving the
// engine's yield order.
type TestVerdict struct {
	Test    string         `json:"test"`
	Verdict seobar.Verdict `json:"verdict"`
}

// AuditResult is the outcome of one audited item.
type AuditResult struct {
	RequestID   string        `json:"request_id"`
	Query       seobar.Query  `json:"query"`
	Verdicts    []TestVerdict `json:"verdicts"`
	CompletedAt time.Time     `json:"completed_at"`
}

// WorstStatus returns the most severe status across all verdicts, for
// quick triage without walking the list. Bad outranks Unknown, which
// outranks Okay, which outranks Good.
func (r *AuditResult) WorstStatus() seobar.Status {
	rank := func(s seobar.Status) int {
		switch s {
		case seobar.StatusBad:
			return 4
		case seobar.StatusUnknown:
			return 3
		case seobar.StatusOkay:
			return 2
		case seobar.StatusGood:
			return 1
		}
		return 0
	}

	var worst seobar.Status
	for _, tv := range r.Verdicts {
		if rank(tv.Verdict.Status) > rank(worst) {
			worst = tv.Verdict.Status
		}
	}
	return worst
}
