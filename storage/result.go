// Package storage persists audit results in NATS KV, one entry per
// audited item with a short revision history.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	seoassessor "github.com/sybrew/the-seo-framework/processor/seo-assessor"
	"github.com/sybrew/the-seo-framework/seobar"
)

// BucketResults is the KV bucket holding the latest audit result per
// item.
const BucketResults = "TSF_AUDIT_RESULTS"

// resultHistory is how many revisions the bucket keeps per key.
const resultHistory = 5

// ResultKey derives the bucket key for an audited item:
// "post.<id>" for posts, "term.<taxonomy>.<id>" for terms.
func ResultKey(q seobar.Query) string {
	if q.Taxonomy != "" {
		return fmt.Sprintf("term.%s.%d", q.Taxonomy, q.ID)
	}
	return fmt.Sprintf("post.%d", q.ID)
}

// ParseResultKey inverts ResultKey.
func ParseResultKey(key string) (seobar.Query, error) {
	switch {
	case strings.HasPrefix(key, "post."):
		id, err := strconv.ParseInt(key[len("post."):], 10, 64)
		if err != nil {
			return seobar.Query{}, fmt.Errorf("invalid result key %q: %w", key, err)
		}
		return seobar.Query{ID: id}, nil
	case strings.HasPrefix(key, "term."):
		rest := key[len("term."):]
		dot := strings.LastIndex(rest, ".")
		if dot <= 0 {
			return seobar.Query{}, fmt.Errorf("invalid result key %q", key)
		}
		id, err := strconv.ParseInt(rest[dot+1:], 10, 64)
		if err != nil {
			return seobar.Query{}, fmt.Errorf("invalid result key %q: %w", key, err)
		}
		return seobar.Query{ID: id, Taxonomy: rest[:dot]}, nil
	}
	return seobar.Query{}, fmt.Errorf("invalid result key %q", key)
}

// Store provides audit result storage backed by NATS KV.
type Store struct {
	results jetstream.KeyValue
}

// NewStore creates a Store, creating the results bucket if it doesn't
// exist.
func NewStore(ctx context.Context, js jetstream.JetStream) (*Store, error) {
	results, err := getOrCreateBucket(ctx, js, BucketResults)
	if err != nil {
		return nil, fmt.Errorf("create results bucket: %w", err)
	}
	return &Store{results: results}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "SEO audit result storage",
		History:     resultHistory,
	})
}

// SaveResult stores the result under its item's key, superseding any
// previous audit of the same item.
func (s *Store) SaveResult(ctx context.Context, res *seoassessor.AuditResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if _, err := s.results.Put(ctx, ResultKey(res.Query), data); err != nil {
		return fmt.Errorf("store result: %w", err)
	}
	return nil
}

// GetResult retrieves the latest audit result for an item.
func (s *Store) GetResult(ctx context.Context, q seobar.Query) (*seoassessor.AuditResult, error) {
	entry, err := s.results.Get(ctx, ResultKey(q))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get result: %w", err)
	}

	var res seoassessor.AuditResult
	if err := json.Unmarshal(entry.Value(), &res); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &res, nil
}

// ListResults returns the latest result for every audited item.
func (s *Store) ListResults(ctx context.Context) ([]*seoassessor.AuditResult, error) {
	keys, err := s.results.Keys(ctx)
	if err != nil {
		if err == jetstream.ErrNoKeysFound {
			return nil, nil
		}
		return nil, fmt.Errorf("list result keys: %w", err)
	}

	results := make([]*seoassessor.AuditResult, 0, len(keys))
	for _, key := range keys {
		entry, err := s.results.Get(ctx, key)
		if err != nil {
			continue // Skip entries that fail to load
		}
		var res seoassessor.AuditResult
		if err := json.Unmarshal(entry.Value(), &res); err != nil {
			continue
		}
		results = append(results, &res)
	}
	return results, nil
}

// History returns prior audits of an item, oldest first, up to the
// bucket's history depth.
func (s *Store) History(ctx context.Context, q seobar.Query) ([]*seoassessor.AuditResult, error) {
	entries, err := s.results.History(ctx, ResultKey(q))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("result history: %w", err)
	}

	results := make([]*seoassessor.AuditResult, 0, len(entries))
	for _, entry := range entries {
		if entry.Operation() != jetstream.KeyValuePut {
			continue
		}
		var res seoassessor.AuditResult
		if err := json.Unmarshal(entry.Value(), &res); err != nil {
			continue
		}
		results = append(results, &res)
	}
	return results, nil
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "key not found")
}
