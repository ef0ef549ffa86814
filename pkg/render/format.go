package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dkoosis/funnel/pkg/pattern"
)

var printer = message.NewPrinter(language.English)

// formatBound renders a bin edge as a grouped whole number.
func formatBound(f float64) string {
	return printer.Sprintf("%.0f", f)
}

func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// padRight pads s with spaces to width terminal cells.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// padLeft right-aligns s within width terminal cells.
func padLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// truncate shortens s to at most width cells, marking the cut with "...".
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}

func cellWidth(s string) int {
	return runewidth.StringWidth(s)
}

// bar returns a horizontal bar of frac·width cells using eighth blocks.
func bar(frac float64, width int) string {
	if frac <= 0 || width <= 0 {
		return ""
	}
	if frac > 1 {
		frac = 1
	}
	eighths := int(frac*float64(width)*8 + 0.5)
	full, rest := eighths/8, eighths%8
	partial := []string{"", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}
	s := strings.Repeat("█", full) + partial[rest]
	if s == "" {
		s = "▏"
	}
	return s
}

// markersByBin groups histogram markers by the index of the bin holding them.
// Markers outside the histogram range are dropped.
func markersByBin(h *pattern.Histogram) map[int][]pattern.Marker {
	out := make(map[int][]pattern.Marker, len(h.Markers))
	if len(h.Bins) == 0 {
		return out
	}
	last := len(h.Bins) - 1
	for _, m := range h.Markers {
		if m.Value < h.Bins[0].Lo || m.Value > h.Bins[last].Hi {
			continue
		}
		idx := last
		for i, b := range h.Bins {
			if m.Value < b.Hi {
				idx = i
				break
			}
		}
		out[idx] = append(out[idx], m)
	}
	return out
}

func maxBinCount(bins []pattern.HistogramBin) int {
	m := 0
	for _, b := range bins {
		m = max(m, b.Count)
	}
	return m
}
