// Package chart exports histogram patterns as PNG images.
//
// Each image mirrors the interactive view: a filled histogram in the unit's
// palette color, dashed red lines at the 95% interval bounds, a solid black
// line at the median, and a "Median: X" annotation.
package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dkoosis/funnel/pkg/pattern"
)

// Default image size in pixels.
const (
	Width  = 600
	Height = 400
)

// ErrEmptyHistogram is returned when a histogram has no bins or no counts.
var ErrEmptyHistogram = errors.New("chart: histogram has no data")

// palette cycles per unit: blue, then orange, at half opacity.
var palette = []drawing.Color{
	{R: 0, G: 0, B: 255, A: 128},
	{R: 255, G: 165, B: 0, A: 128},
}

var printer = message.NewPrinter(language.English)

// Render writes h as a PNG to w.
func Render(w io.Writer, h *pattern.Histogram) error {
	ch, err := build(h)
	if err != nil {
		return err
	}
	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %q: %w", h.Label, err)
	}
	return nil
}

// WriteDir writes one PNG per histogram in patterns into dir, creating it if
// needed. File names are slugs of the histogram labels. Returns the paths
// written, in pattern order.
func WriteDir(dir string, patterns []pattern.Pattern) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	var paths []string
	seen := make(map[string]int)
	for _, p := range patterns {
		h, ok := p.(*pattern.Histogram)
		if !ok {
			continue
		}
		name := Slug(h.Label)
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s-%d", name, n)
		}
		path := filepath.Join(dir, name+".png")
		if err := writeFile(path, h); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, h *pattern.Histogram) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return Render(f, h)
}

func build(h *pattern.Histogram) (*gochart.Chart, error) {
	if h == nil || len(h.Bins) == 0 {
		return nil, ErrEmptyHistogram
	}
	peak := 0
	for _, b := range h.Bins {
		peak = max(peak, b.Count)
	}
	if peak == 0 {
		return nil, ErrEmptyHistogram
	}
	top := float64(peak) * 1.1
	lo, hi := h.Bins[0].Lo, h.Bins[len(h.Bins)-1].Hi

	fill := palette[0]
	if h.Color > 0 {
		fill = palette[h.Color%len(palette)]
	}
	series := []gochart.Series{stepSeries(h, fill)}

	var annotations []gochart.Value2
	for _, m := range h.Markers {
		if m.Value < lo || m.Value > hi {
			continue
		}
		style := gochart.Style{StrokeColor: gochart.ColorRed, StrokeWidth: 1, StrokeDashArray: []float64{5, 5}}
		if m.Kind == pattern.MarkerMedian {
			style = gochart.Style{StrokeColor: gochart.ColorBlack, StrokeWidth: 1}
			annotations = append(annotations, gochart.Value2{
				XValue: m.Value,
				YValue: top * 0.95,
				Label:  printer.Sprintf("Median: %.1f", m.Value),
			})
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    m.Label,
			Style:   style,
			XValues: []float64{m.Value, m.Value},
			YValues: []float64{0, top},
		})
	}
	if len(annotations) > 0 {
		series = append(series, gochart.AnnotationSeries{Annotations: annotations})
	}

	return &gochart.Chart{
		Title:      h.Label,
		Width:      Width,
		Height:     Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:           h.Unit,
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: countFormatter,
		},
		YAxis: gochart.YAxis{
			Name:           "trials",
			Range:          &gochart.ContinuousRange{Min: 0, Max: top},
			ValueFormatter: countFormatter,
		},
		Series: series,
	}, nil
}

// stepSeries traces the histogram outline so the area fill matches the bars.
func stepSeries(h *pattern.Histogram, fill drawing.Color) gochart.ContinuousSeries {
	xs := make([]float64, 0, 2*len(h.Bins)+2)
	ys := make([]float64, 0, 2*len(h.Bins)+2)
	xs = append(xs, h.Bins[0].Lo)
	ys = append(ys, 0)
	for _, b := range h.Bins {
		xs = append(xs, b.Lo, b.Hi)
		ys = append(ys, float64(b.Count), float64(b.Count))
	}
	xs = append(xs, h.Bins[len(h.Bins)-1].Hi)
	ys = append(ys, 0)

	stroke := fill
	stroke.A = 255
	return gochart.ContinuousSeries{
		Name:    h.Label,
		Style:   gochart.Style{StrokeColor: stroke, StrokeWidth: 1, FillColor: fill},
		XValues: xs,
		YValues: ys,
	}
}

func countFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return printer.Sprintf("%.0f", f)
	}
	return fmt.Sprint(v)
}

// Slug turns a label into a lowercase file name stem: "Office A" → "office-a".
func Slug(label string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			dash = false
		case sb.Len() > 0 && !dash:
			sb.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(sb.String(), "-")
	if s == "" {
		return "unit"
	}
	return s
}
