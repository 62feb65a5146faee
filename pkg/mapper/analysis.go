// Package mapper converts analysis results into visualization patterns.
package mapper

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dkoosis/testalot/pkg/analyze"
	"github.com/dkoosis/testalot/pkg/pattern"
	"github.com/dkoosis/testalot/pkg/surefire"
)

var printer = message.NewPrinter(language.English)

// FromAnalysis converts a report into patterns.
// Returns: Summary + Leaderboard (slow tests) + TestTable (flaky tests), with
// a Sparkline and Comparison of per-run totals when there are several runs.
func FromAnalysis(rep analyze.Report) []pattern.Pattern {
	patterns := []pattern.Pattern{summary(rep), slowBoard(rep.Slow)}
	if len(rep.Runs) > 1 {
		patterns = append(patterns, runSparkline(rep.Runs))
		if c := runComparison(rep.Runs); c != nil {
			patterns = append(patterns, c)
		}
	}
	return append(patterns, flakyTable(rep.Flaky))
}

func summary(rep analyze.Report) *pattern.Summary {
	flaky := len(rep.Flaky.Tests)
	metrics := []pattern.SummaryItem{
		{Label: "Runs", Value: printer.Sprintf("%d", rep.Flaky.Runs), Kind: "info"},
		{Label: "Tests", Value: printer.Sprintf("%d", rep.Distinct), Kind: "info"},
		{Label: "Outcomes", Value: printer.Sprintf("%d", rep.Outcomes), Kind: "info"},
	}
	if rep.Failed > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "Failed", Value: printer.Sprintf("%d", rep.Failed), Kind: "error",
		})
	}
	if rep.Errored > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "Errors", Value: printer.Sprintf("%d", rep.Errored), Kind: "error",
		})
	}
	flakyKind := "success"
	if flaky > 0 {
		flakyKind = "warning"
	}
	metrics = append(metrics,
		pattern.SummaryItem{Label: "Flaky", Value: printer.Sprintf("%d", flaky), Kind: flakyKind},
		pattern.SummaryItem{Label: "Total time", Value: FormatSeconds(rep.Slow.Total), Kind: "info"},
	)

	return &pattern.Summary{
		Label:   fmt.Sprintf("%s, %s, %d flaky", plural(rep.Flaky.Runs, "run"), plural(rep.Distinct, "test"), flaky),
		Metrics: metrics,
	}
}

func slowBoard(s analyze.SlowReport) *pattern.Leaderboard {
	items := make([]pattern.LeaderboardItem, 0, len(s.Tests))
	for i, t := range s.Tests {
		items = append(items, pattern.LeaderboardItem{
			Name:     t.Name,
			Status:   status(t.Kind),
			Metric:   FormatSeconds(t.Slowest),
			Contrast: FormatSeconds(t.Fastest),
			Median:   FormatSeconds(t.Median),
			Samples:  t.Runs,
			Value:    t.Slowest.Seconds(),
			Rank:     i + 1,
		})
	}
	return &pattern.Leaderboard{
		Label:        "Slow tests",
		MetricName:   "Slowest",
		ContrastName: "Fastest",
		Items:        items,
		TotalCount:   s.Distinct,
		Share:        s.Percentage,
		ShowRank:     true,
	}
}

func flakyTable(f analyze.FlakyReport) *pattern.TestTable {
	t := &pattern.TestTable{
		Label:   fmt.Sprintf("Flaky tests (%s)", plural(f.Runs, "run")),
		Runs:    f.Runs,
		Results: make([]pattern.TestTableItem, 0, len(f.Tests)),
	}
	for _, ft := range f.Tests {
		t.Results = append(t.Results, pattern.TestTableItem{
			Name:    ft.Name,
			Status:  "flaky",
			History: ft.History,
		})
	}
	if len(t.Results) == 0 {
		t.Empty = fmt.Sprintf("No flaky tests found in %s.", plural(f.Runs, "run"))
	}
	return t
}

func runSparkline(runs []analyze.RunTotal) *pattern.Sparkline {
	values := make([]float64, 0, len(runs))
	for _, r := range runs {
		values = append(values, r.Total.Seconds())
	}
	return &pattern.Sparkline{Label: "Test time per run", Values: values, Unit: "s"}
}

func runComparison(runs []analyze.RunTotal) *pattern.Comparison {
	first, last := runs[0], runs[len(runs)-1]
	if first.Total <= 0 {
		return nil
	}
	change := float64(last.Total-first.Total) * 100 / float64(first.Total)
	return &pattern.Comparison{
		Label: "First run vs last run",
		Changes: []pattern.ComparisonItem{{
			Label:  "Test time",
			Before: FormatSeconds(first.Total),
			After:  FormatSeconds(last.Total),
			Change: change,
			Unit:   "%",
		}},
	}
}

// FormatSeconds formats d as seconds with millisecond precision and
// thousands separators, e.g. "1,234.567s".
func FormatSeconds(d time.Duration) string {
	return printer.Sprintf("%.3fs", d.Seconds())
}

func status(k surefire.Kind) string {
	return strings.ToLower(k.String())
}

func plural(n int, noun string) string {
	if n == 1 {
		return printer.Sprintf("%d %s", n, noun)
	}
	return printer.Sprintf("%d %ss", n, noun)
}
