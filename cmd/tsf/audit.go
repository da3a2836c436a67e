package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sybrew/the-seo-framework/config"
	"github.com/sybrew/the-seo-framework/content"
	"github.com/sybrew/the-seo-framework/meta"
	"github.com/sybrew/the-seo-framework/meta/robots"
	"github.com/sybrew/the-seo-framework/pagefetch"
	"github.com/sybrew/the-seo-framework/seobar"
	"github.com/sybrew/the-seo-framework/source"
)

// itemReport is one audited item with its verdicts, in yield order.
type itemReport struct {
	Kind     string           `json:"kind"` // "post" or "term"
	Query    seobar.Query     `json:"query"`
	Label    string           `json:"label"`
	Tests    []string         `json:"tests"`
	Verdicts []seobar.Verdict `json:"verdicts"`
}

func auditCmd() *cobra.Command {
	var (
		tests      []string
		format     string
		watch      bool
		contentDir string
	)

	cmd := &cobra.Command{
		Use:   "audit [url]",
		Short: "Run the SEO Bar over content fixtures or a live URL",
		Long: `Audit evaluates every post and term found in the content directory,
or a single live page when given an HTTPS URL.

Examples:
  tsf audit
  tsf audit --tests title,description --format json
  tsf audit https://example.com/pricing
  tsf audit --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader(slog.Default()).Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if contentDir != "" {
				cfg.Audit.ContentDir = contentDir
			}
			if len(tests) == 0 {
				tests = cfg.Audit.Tests
			}
			tests = splitTests(tests)

			if len(args) == 1 {
				return auditURL(cmd.Context(), cfg, args[0], tests, format)
			}
			if watch {
				return auditWatch(cmd.Context(), cfg, tests, format)
			}
			return auditDir(cfg, tests, format)
		},
	}

	cmd.Flags().StringSliceVar(&tests, "tests", nil, "Comma-separated test names (default: all)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table, json)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-audit when content files change")
	cmd.Flags().StringVar(&contentDir, "content-dir", "", "Content directory (overrides config)")

	return cmd
}

// splitTests tolerates both repeated flags and comma-joined values.
func splitTests(in []string) []string {
	var out []string
	for _, t := range in {
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func auditDir(cfg *config.Config, tests []string, format string) error {
	scanner, err := source.NewScanner(cfg.Audit.ContentDir, cfg.Audit.Include, cfg.Audit.Exclude)
	if err != nil {
		return err
	}
	store, err := scanner.LoadStore()
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	reports, err := auditStore(cfg, store, tests)
	if err != nil {
		return err
	}
	return render(os.Stdout, reports, format)
}

// auditStore audits every post and term in the store, sharing one
// engine cache across the whole run.
func auditStore(cfg *config.Config, store *content.Store, tests []string) ([]itemReport, error) {
	deps := seobar.Deps{
		Config: cfg,
		Posts:  store,
		Terms:  store,
		Meta:   meta.NewGenerator(cfg),
		Robots: robots.NewResolver(cfg),
		Cache:  seobar.NewCache(),
	}

	pageBuilder, err := seobar.NewPageBuilder(deps)
	if err != nil {
		return nil, err
	}
	termBuilder, err := seobar.NewTermBuilder(deps)
	if err != nil {
		return nil, err
	}
	pages := seobar.NewRunner(pageBuilder, slog.Default())
	terms := seobar.NewRunner(termBuilder, slog.Default())

	var reports []itemReport

	posts := store.Posts()
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	for _, p := range posts {
		report, err := collectReport(pages, seobar.Query{ID: p.ID}, tests)
		if err != nil {
			return nil, err
		}
		report.Kind = "post"
		report.Label = p.Title
		reports = append(reports, report)
	}

	termList := store.Terms()
	sort.Slice(termList, func(i, j int) bool {
		if termList[i].Taxonomy != termList[j].Taxonomy {
			return termList[i].Taxonomy < termList[j].Taxonomy
		}
		return termList[i].ID < termList[j].ID
	})
	for _, t := range termList {
		report, err := collectReport(terms, seobar.Query{ID: t.ID, Taxonomy: t.Taxonomy}, tests)
		if err != nil {
			return nil, err
		}
		report.Kind = "term"
		report.Label = t.Name
		reports = append(reports, report)
	}

	return reports, nil
}

func collectReport(r *seobar.Runner, q seobar.Query, tests []string) (itemReport, error) {
	seq, err := r.Run(q, tests)
	if err != nil {
		return itemReport{}, err
	}
	report := itemReport{Query: q}
	for name, v := range seq {
		report.Tests = append(report.Tests, name)
		report.Verdicts = append(report.Verdicts, v)
	}
	return report, nil
}

func auditURL(ctx context.Context, cfg *config.Config, url string, tests []string, format string) error {
	fetcher := pagefetch.NewFetcher(30*time.Second, "", 0)
	res, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}

	post, err := pagefetch.BuildPost(1, url, res)
	if err != nil {
		return fmt.Errorf("parse %s: %w", url, err)
	}

	store := content.NewStore()
	if err := store.PutPost(post); err != nil {
		return err
	}

	reports, err := auditStore(cfg, store, tests)
	if err != nil {
		return err
	}
	if len(reports) > 0 {
		reports[0].Label = url
	}
	return render(os.Stdout, reports, format)
}

func auditWatch(ctx context.Context, cfg *config.Config, tests []string, format string) error {
	scanner, err := source.NewScanner(cfg.Audit.ContentDir, cfg.Audit.Include, cfg.Audit.Exclude)
	if err != nil {
		return err
	}

	watcher, err := source.NewWatcher(scanner, 500*time.Millisecond, slog.Default())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	// One full pass up front, then one per change batch.
	if err := auditDir(cfg, tests, format); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			slog.Info("content changed, re-auditing",
				slog.String("path", ev.Path),
				slog.String("op", string(ev.Operation)))
			if err := auditDir(cfg, tests, format); err != nil {
				slog.Error("re-audit failed", slog.Any("error", err))
			}
		}
	}
}
