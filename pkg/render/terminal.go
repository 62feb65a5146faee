package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/montanaflynn/stats"

	"github.com/dkoosis/testalot/pkg/pattern"
)

// Terminal renders patterns as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats all patterns for terminal display.
func (t *Terminal) Render(patterns []pattern.Pattern) string {
	var sections []string
	for _, p := range patterns {
		s := t.renderOne(p)
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderOne(p pattern.Pattern) string {
	switch v := p.(type) {
	case *pattern.Summary:
		return t.renderSummary(v)
	case *pattern.Leaderboard:
		return t.renderLeaderboard(v)
	case *pattern.TestTable:
		return t.renderTestTable(v)
	case *pattern.Sparkline:
		return t.renderSparkline(v)
	case *pattern.Comparison:
		return t.renderComparison(v)
	default:
		return ""
	}
}

func (t *Terminal) renderSummary(s *pattern.Summary) string {
	var sb strings.Builder
	if s.Label != "" {
		sb.WriteString(t.theme.Bold.Render(s.Label))
		sb.WriteString("\n")
	}
	for _, m := range s.Metrics {
		sb.WriteString("  ")
		icon, style := t.theme.Metric(m.Kind)
		sb.WriteString(style.Render(icon + " " + m.Label + ": " + m.Value))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderLeaderboard(l *pattern.Leaderboard) string {
	var sb strings.Builder
	if l.Label != "" {
		header := l.Label
		if l.TotalCount > len(l.Items) {
			header += fmt.Sprintf(" (top %d of %d)", len(l.Items), l.TotalCount)
		}
		sb.WriteString(t.theme.Bold.Render(header))
		sb.WriteString("\n")
	}
	if len(l.Items) == 0 {
		sb.WriteString("  " + t.theme.Muted.Render("No tests found."))
		sb.WriteString("\n")
		return sb.String()
	}

	maxMetric, maxContrast, maxMedian := runewidth.StringWidth(l.MetricName), runewidth.StringWidth(l.ContrastName), runewidth.StringWidth("Median")
	for _, item := range l.Items {
		maxMetric = max(maxMetric, runewidth.StringWidth(item.Metric))
		maxContrast = max(maxContrast, runewidth.StringWidth(item.Contrast))
		maxMedian = max(maxMedian, runewidth.StringWidth(item.Median))
	}
	// rank, icon, three duration columns and their gaps
	maxName := t.width - 2 - 4 - 2 - maxMetric - maxContrast - maxMedian - 8
	if maxName < 20 {
		maxName = 20
	}

	sb.WriteString("  ")
	if l.ShowRank {
		sb.WriteString("    ")
	}
	sb.WriteString(t.theme.Muted.Render("  " + padLeft(l.MetricName, maxMetric) + "  " +
		padLeft(l.ContrastName, maxContrast) + "  " + padLeft("Median", maxMedian) + "  Test"))
	sb.WriteString("\n")

	for _, item := range l.Items {
		sb.WriteString("  ")
		if l.ShowRank {
			sb.WriteString(t.theme.Muted.Render(fmt.Sprintf("%2d. ", item.Rank)))
		}
		icon, style := t.theme.Status(item.Status)
		sb.WriteString(style.Render(icon + " "))
		sb.WriteString(t.theme.Warning.Render(padLeft(item.Metric, maxMetric)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Success.Render(padLeft(item.Contrast, maxContrast)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Muted.Render(padLeft(item.Median, maxMedian)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Primary.Render(runewidth.Truncate(item.Name, maxName, "...")))
		sb.WriteString("\n")
	}
	if l.Share > 0 {
		sb.WriteString("  ")
		sb.WriteString(t.theme.Muted.Render(fmt.Sprintf("%d%% of all test time", l.Share)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderTestTable(tt *pattern.TestTable) string {
	var sb strings.Builder
	if tt.Label != "" {
		sb.WriteString(t.theme.Bold.Render(tt.Label))
		sb.WriteString("\n")
	}
	if len(tt.Results) == 0 {
		if tt.Empty != "" {
			sb.WriteString("  ")
			sb.WriteString(t.theme.Success.Render(t.theme.Icons.Pass + " " + tt.Empty))
			sb.WriteString("\n")
		}
		return sb.String()
	}

	maxHistory := 0
	for _, r := range tt.Results {
		maxHistory = max(maxHistory, len(r.History))
	}
	maxName := t.width - 2 - 2 - maxHistory - 2
	if maxName < 20 {
		maxName = 20
	}

	for _, r := range tt.Results {
		sb.WriteString("  ")
		icon, style := t.theme.Status(r.Status)
		sb.WriteString(style.Render(icon + " "))
		sb.WriteString(padRight(t.theme.History(r.History), maxHistory, len(r.History)))
		sb.WriteString("  ")
		sb.WriteString(runewidth.Truncate(r.Name, maxName, "..."))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderSparkline(s *pattern.Sparkline) string {
	if len(s.Values) == 0 {
		return ""
	}
	var sb strings.Builder
	if s.Label != "" {
		sb.WriteString(t.theme.Primary.Render(s.Label + ": "))
	}

	minVal, maxVal := s.Min, s.Max
	if minVal == 0 && maxVal == 0 {
		minVal, _ = stats.Min(s.Values)
		maxVal, _ = stats.Max(s.Values)
	}
	valueRange := maxVal - minVal
	if valueRange == 0 {
		valueRange = 1
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	var spark strings.Builder
	for _, v := range s.Values {
		idx := int((v - minVal) / valueRange * 7)
		idx = min(max(idx, 0), 7)
		spark.WriteRune(blocks[idx])
	}
	sb.WriteString(t.theme.Success.Render(spark.String()))

	latest := s.Values[len(s.Values)-1]
	sb.WriteString(t.theme.Muted.Render(fmt.Sprintf(" %.1f%s", latest, s.Unit)))
	sb.WriteString("\n")
	return sb.String()
}

func (t *Terminal) renderComparison(c *pattern.Comparison) string {
	if len(c.Changes) == 0 {
		return ""
	}
	var sb strings.Builder
	if c.Label != "" {
		sb.WriteString(t.theme.Bold.Render(c.Label))
		sb.WriteString("\n")
	}
	for _, item := range c.Changes {
		sb.WriteString("  ")
		sb.WriteString(item.Label + ": ")
		sb.WriteString(t.theme.Muted.Render(item.Before + " → " + item.After))
		sb.WriteString(" ")

		var arrow string
		var style lipgloss.Style
		switch {
		case item.Change > 0:
			arrow = "↑"
			style = t.theme.Warning
		case item.Change < 0:
			arrow = "↓"
			style = t.theme.Success
		default:
			arrow = "="
			style = t.theme.Muted
		}
		sb.WriteString(style.Render(fmt.Sprintf("%s %.1f%s", arrow, math.Abs(item.Change), item.Unit)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// padRight pads a possibly styled s whose visible width is visible.
func padRight(s string, width, visible int) string {
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func padLeft(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}
