package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/funnel/pkg/pattern"
)

// textBarWidth is the widest histogram bar in plain text output.
const textBarWidth = 40

// Text renders patterns as plain text: zero ANSI codes, stable layout,
// suitable for logs and pipes.
type Text struct{}

// NewText creates a plain text renderer.
func NewText() *Text {
	return &Text{}
}

// Render formats all patterns as plain text.
func (x *Text) Render(patterns []pattern.Pattern) string {
	var sb strings.Builder
	for i, p := range patterns {
		s := x.renderOne(p)
		if s == "" {
			continue
		}
		if i > 0 && sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(s)
	}
	return sb.String()
}

func (x *Text) renderOne(p pattern.Pattern) string {
	switch v := p.(type) {
	case *pattern.Summary:
		return x.renderSummary(v)
	case *pattern.Histogram:
		return x.renderHistogram(v)
	case *pattern.Leaderboard:
		return x.renderLeaderboard(v)
	case *pattern.StageTable:
		return x.renderStageTable(v)
	case *pattern.Sparkline:
		return x.renderSparkline(v)
	case *pattern.Comparison:
		return x.renderComparison(v)
	default:
		return ""
	}
}

// renderSummary prints the inputs on the label line and the statistics on
// the line below it.
func (x *Text) renderSummary(s *pattern.Summary) string {
	var inputs, results []string
	for _, m := range s.Metrics {
		kv := m.Label + ": " + m.Value
		if m.Kind == "input" {
			inputs = append(inputs, kv)
		} else {
			results = append(results, kv)
		}
	}
	var sb strings.Builder
	sb.WriteString(s.Label)
	if len(inputs) > 0 {
		sb.WriteString(": " + strings.Join(inputs, ", "))
	}
	sb.WriteString("\n")
	if len(results) > 0 {
		sb.WriteString(strings.Join(results, ", "))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (x *Text) renderHistogram(h *pattern.Histogram) string {
	if len(h.Bins) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("HISTOGRAM " + h.Label)
	if h.Unit != "" {
		sb.WriteString(" (" + h.Unit + ")")
	}
	sb.WriteString("\n")

	ranges := make([]string, len(h.Bins))
	maxRange := 0
	for i, b := range h.Bins {
		ranges[i] = formatBound(b.Lo) + "-" + formatBound(b.Hi)
		maxRange = max(maxRange, len(ranges[i]))
	}
	peak := maxBinCount(h.Bins)
	marks := markersByBin(h)
	for i, b := range h.Bins {
		n := 0
		if peak > 0 {
			n = int(float64(b.Count)/float64(peak)*textBarWidth + 0.5)
		}
		if b.Count > 0 && n == 0 {
			n = 1
		}
		line := "  " + padLeft(ranges[i], maxRange) + " |" + padRight(strings.Repeat("#", n), textBarWidth) + " " + formatCount(b.Count)
		if ms, ok := marks[i]; ok {
			line += " " + markerText("<-", ms)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func (x *Text) renderLeaderboard(l *pattern.Leaderboard) string {
	if len(l.Items) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(l.Label + "\n")
	for _, item := range l.Items {
		line := fmt.Sprintf("  %d. %s %s", item.Rank, item.Name, item.Metric)
		if item.Context != "" {
			line += " (" + item.Context + ")"
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func (x *Text) renderStageTable(st *pattern.StageTable) string {
	if len(st.Rows) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(st.Label + "\n")
	maxStage := 0
	for _, r := range st.Rows {
		maxStage = max(maxStage, len(r.Stage))
	}
	for _, r := range st.Rows {
		sb.WriteString("  " + padRight(r.Stage, maxStage) + "  " + padLeft(r.Rate, 6) + "  " + r.Expected + "\n")
	}
	return sb.String()
}

func (x *Text) renderSparkline(s *pattern.Sparkline) string {
	if len(s.Values) == 0 {
		return ""
	}
	parts := make([]string, len(s.Values))
	for i, v := range s.Values {
		parts[i] = printer.Sprintf("%.1f", v)
	}
	return s.Label + ": " + strings.Join(parts, " > ") + "\n"
}

func (x *Text) renderComparison(c *pattern.Comparison) string {
	if len(c.Changes) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(c.Label + "\n")
	for _, item := range c.Changes {
		sb.WriteString(fmt.Sprintf("  %s: %s -> %s (%+.1f%s)\n", item.Label, item.Before, item.After, item.Change, item.Unit))
	}
	return sb.String()
}
