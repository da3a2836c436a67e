package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sybrew/the-seo-framework/seobar"
)

func render(w io.Writer, reports []itemReport, format string) error {
	switch format {
	case "json":
		return renderJSON(w, reports)
	case "table", "":
		return renderTable(w, reports)
	default:
		return fmt.Errorf("unknown format %q (want table or json)", format)
	}
}

func renderJSON(w io.Writer, reports []itemReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

func renderTable(w io.Writer, reports []itemReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s\t%s\t\t\n", itemHeading(r), worstOf(r.Verdicts))
		for j, name := range r.Tests {
			v := r.Verdicts[j]
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", v.Symbol, v.Status, name, v.Reason)
		}
	}
	return tw.Flush()
}

func itemHeading(r itemReport) string {
	if r.Kind == "term" {
		return fmt.Sprintf("%s %s/%d (%s)", r.Kind, r.Query.Taxonomy, r.Query.ID, r.Label)
	}
	return fmt.Sprintf("%s %d (%s)", r.Kind, r.Query.ID, r.Label)
}

// worstOf reports the least favorable status across the item's
// verdicts, so the heading line reads as an at-a-glance summary.
func worstOf(vs []seobar.Verdict) seobar.Status {
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
	worst := seobar.StatusUndefined
	for _, v := range vs {
		if rank(v.Status) > rank(worst) {
			worst = v.Status
		}
	}
	return worst
}
