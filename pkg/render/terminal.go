package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/funnel/pkg/pattern"
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
	case *pattern.Histogram:
		return t.renderHistogram(v)
	case *pattern.Leaderboard:
		return t.renderLeaderboard(v)
	case *pattern.StageTable:
		return t.renderStageTable(v)
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
		if m.Kind == "input" {
			sb.WriteString(t.theme.Muted.Render(t.theme.Icons.Bullet + " " + m.Label + ": " + m.Value))
		} else {
			icon, style := t.iconStyle(m.Kind)
			sb.WriteString(style.Render(icon + " " + m.Label + ": " + m.Value))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderHistogram draws one row per bin: range, bar, count, and any markers
// that fall inside the bin.
func (t *Terminal) renderHistogram(h *pattern.Histogram) string {
	if len(h.Bins) == 0 {
		return ""
	}
	var sb strings.Builder
	title := h.Label
	if h.Unit != "" {
		title += " · " + h.Unit
	}
	sb.WriteString(t.theme.Bold.Render(title))
	sb.WriteString("\n")

	ranges := make([]string, len(h.Bins))
	counts := make([]string, len(h.Bins))
	maxRange, maxCountW := 0, 0
	for i, b := range h.Bins {
		ranges[i] = formatBound(b.Lo) + " - " + formatBound(b.Hi)
		counts[i] = formatCount(b.Count)
		maxRange = max(maxRange, cellWidth(ranges[i]))
		maxCountW = max(maxCountW, cellWidth(counts[i]))
	}

	markerWidth := 0
	marks := markersByBin(h)
	for _, ms := range marks {
		markerWidth = max(markerWidth, cellWidth(markerText(t.theme.Icons.Marker, ms)))
	}

	// indent + range + " │" + bar + " " + count + " " + markers
	barWidth := t.width - 2 - maxRange - 2 - 1 - maxCountW - 1 - markerWidth
	barWidth = max(barWidth, 10)

	peak := maxBinCount(h.Bins)
	barStyle := t.theme.PaletteStyle(h.Color)
	for i, b := range h.Bins {
		frac := 0.0
		if peak > 0 {
			frac = float64(b.Count) / float64(peak)
		}
		sb.WriteString("  ")
		sb.WriteString(t.theme.Muted.Render(padLeft(ranges[i], maxRange) + " │"))
		sb.WriteString(barStyle.Render(padRight(bar(frac, barWidth), barWidth)))
		sb.WriteString(" ")
		sb.WriteString(t.theme.Muted.Render(padLeft(counts[i], maxCountW)))
		if ms, ok := marks[i]; ok {
			sb.WriteString(" ")
			sb.WriteString(t.markerStyle(ms).Render(markerText(t.theme.Icons.Marker, ms)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// markerText joins markers sharing a bin, e.g. "◀ median 3,898".
func markerText(pointer string, ms []pattern.Marker) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.Label + " " + printer.Sprintf("%.1f", m.Value)
	}
	return pointer + " " + strings.Join(parts, ", ")
}

func (t *Terminal) markerStyle(ms []pattern.Marker) lipgloss.Style {
	for _, m := range ms {
		if m.Kind == pattern.MarkerMedian {
			return t.theme.Bold
		}
	}
	return t.theme.Error
}

func (t *Terminal) renderLeaderboard(l *pattern.Leaderboard) string {
	if len(l.Items) == 0 {
		return ""
	}
	var sb strings.Builder
	if l.Label != "" {
		header := l.Label
		if l.TotalCount > len(l.Items) {
			header += fmt.Sprintf(" (top %d of %d)", len(l.Items), l.TotalCount)
		}
		sb.WriteString(t.theme.Bold.Render(header))
		sb.WriteString("\n")
	}

	maxName, maxMetric := 0, 0
	for _, item := range l.Items {
		maxName = max(maxName, cellWidth(item.Name))
		maxMetric = max(maxMetric, cellWidth(item.Metric))
	}
	maxName = min(maxName, 40)

	for _, item := range l.Items {
		sb.WriteString("  ")
		if l.ShowRank {
			sb.WriteString(t.theme.Muted.Render(fmt.Sprintf("%2d. ", item.Rank)))
		}
		sb.WriteString(t.theme.Primary.Render(padRight(truncate(item.Name, maxName), maxName)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Warning.Render(padLeft(item.Metric, maxMetric)))
		if item.Context != "" {
			sb.WriteString("  ")
			sb.WriteString(t.theme.Muted.Render(item.Context))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderStageTable(st *pattern.StageTable) string {
	if len(st.Rows) == 0 {
		return ""
	}
	var sb strings.Builder
	if st.Label != "" {
		sb.WriteString(t.theme.Bold.Render(st.Label))
		sb.WriteString("\n")
	}

	maxStage, maxRate, maxExp := 0, 0, 0
	for _, r := range st.Rows {
		maxStage = max(maxStage, cellWidth(r.Stage))
		maxRate = max(maxRate, cellWidth(r.Rate))
		maxExp = max(maxExp, cellWidth(r.Expected))
	}

	for _, r := range st.Rows {
		sb.WriteString("  ")
		sb.WriteString(t.theme.Primary.Render(t.theme.Icons.Bullet + " "))
		sb.WriteString(padRight(r.Stage, maxStage))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Warning.Render(padLeft(r.Rate, maxRate)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Muted.Render(padLeft(r.Expected, maxExp)))
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
		minVal, maxVal = s.Values[0], s.Values[0]
		for _, v := range s.Values {
			minVal = min(minVal, v)
			maxVal = max(maxVal, v)
		}
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
	sb.WriteString(t.theme.Muted.Render(printer.Sprintf(" %.1f%s", latest, s.Unit)))
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
		switch {
		case item.Change > 0:
			arrow = "↑"
		case item.Change < 0:
			arrow = "↓"
		default:
			arrow = "="
		}
		// Simulation noise beyond 5% of the analytic mean is worth a second look.
		style := t.theme.Success
		if abs := absFloat(item.Change); abs > 5 {
			style = t.theme.Warning
		}
		sb.WriteString(style.Render(fmt.Sprintf("%s %.1f%s", arrow, absFloat(item.Change), item.Unit)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) iconStyle(kind string) (string, lipgloss.Style) {
	switch kind {
	case "success":
		return t.theme.Icons.Pass, t.theme.Success
	case "error":
		return t.theme.Icons.Fail, t.theme.Error
	case "warning":
		return t.theme.Icons.Warn, t.theme.Warning
	default:
		return t.theme.Icons.Info, t.theme.Primary
	}
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
