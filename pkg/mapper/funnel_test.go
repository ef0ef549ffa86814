package mapper

import (
	"testing"

	"github.com/dkoosis/funnel/pkg/funnel"
	"github.com/dkoosis/funnel/pkg/pattern"
	"github.com/dkoosis/funnel/pkg/stats"
)

func sampleResult(label string, median float64) funnel.Result {
	f := funnel.Funnel{Applicants: 1000, Rates: []float64{0.5, 0.5, 1, 0.8, 0.5}}
	return funnel.Result{
		Unit:      funnel.Unit{Label: label, Funnel: f},
		Summary:   stats.Summary{N: 4, Mean: 101, Median: median, P2_5: median - 10, P97_5: median + 10},
		Histogram: []stats.Bin{{Lo: 90, Hi: 100, Count: 2}, {Lo: 100, Hi: 110, Count: 2}},
		Expected:  f.Expected(),
	}
}

func TestFromResults_SingleUnit(t *testing.T) {
	patterns := FromResults([]funnel.Result{sampleResult("Office A", 100)})

	if len(patterns) != 5 {
		t.Fatalf("expected 5 patterns, got %d", len(patterns))
	}
	sum, ok := patterns[0].(*pattern.Summary)
	if !ok {
		t.Fatalf("expected Summary, got %T", patterns[0])
	}
	if sum.Label != "Office A" || sum.Kind != pattern.SummaryKindUnit {
		t.Errorf("unexpected summary header: %+v", sum)
	}
	if got := sum.Metrics[1].Value; got != "[0.5, 0.5, 1, 0.8, 0.5]" {
		t.Errorf("rates = %q", got)
	}
	if got := sum.Metrics[0].Value; got != "1,000" {
		t.Errorf("applicants = %q, want grouped digits", got)
	}

	hist, ok := patterns[1].(*pattern.Histogram)
	if !ok {
		t.Fatalf("expected Histogram, got %T", patterns[1])
	}
	if len(hist.Bins) != 2 || len(hist.Markers) != 3 {
		t.Fatalf("unexpected histogram shape: %+v", hist)
	}
	if hist.Markers[1].Kind != pattern.MarkerMedian || hist.Markers[1].Value != 100 {
		t.Errorf("median marker = %+v", hist.Markers[1])
	}
	if hist.Unit != "billed" {
		t.Errorf("histogram unit = %q", hist.Unit)
	}

	cmp := patterns[2].(*pattern.Comparison)
	// expected = 1000*0.5*0.5*1*0.8*0.5 = 100 → mean 101 is +1%
	if c := cmp.Changes[0].Change; c < 0.99 || c > 1.01 {
		t.Errorf("change = %v, want 1%%", c)
	}

	table := patterns[3].(*pattern.StageTable)
	if len(table.Rows) != len(funnel.Stages) {
		t.Fatalf("got %d stage rows", len(table.Rows))
	}
	if table.Rows[2].Stage != "Offer Accepted" || table.Rows[2].Rate != "100%" {
		t.Errorf("row 2 = %+v", table.Rows[2])
	}

	spark := patterns[4].(*pattern.Sparkline)
	if len(spark.Values) != len(funnel.Stages)+1 || spark.Values[0] != 1000 {
		t.Errorf("sparkline values = %v", spark.Values)
	}
}

func TestFromResults_RanksUnitsByMedian(t *testing.T) {
	patterns := FromResults([]funnel.Result{
		sampleResult("Office A", 50),
		sampleResult("Office B", 300),
	})

	lb, ok := patterns[len(patterns)-1].(*pattern.Leaderboard)
	if !ok {
		t.Fatalf("expected trailing Leaderboard, got %T", patterns[len(patterns)-1])
	}
	if lb.Items[0].Name != "Office B" || lb.Items[0].Rank != 1 {
		t.Errorf("top item = %+v", lb.Items[0])
	}
	if lb.Items[1].Context != "95%: 40.0 - 60.0" {
		t.Errorf("context = %q", lb.Items[1].Context)
	}
	if h := patterns[6].(*pattern.Histogram); h.Color != 1 {
		t.Errorf("second unit color = %d, want 1", h.Color)
	}
}

func TestFromResults_Empty(t *testing.T) {
	if got := FromResults(nil); len(got) != 0 {
		t.Errorf("expected no patterns, got %d", len(got))
	}
}

func TestFormatRates_NoExponent(t *testing.T) {
	tests := []struct {
		rates []float64
		want  string
	}{
		{[]float64{0.00001, 0.572}, "[0.00001, 0.572]"},
		{[]float64{1, 0}, "[1, 0]"},
		{[]float64{57.2 / 100}, "[0.572]"},
	}
	for _, tt := range tests {
		if got := formatRates(tt.rates); got != tt.want {
			t.Errorf("formatRates(%v) = %q, want %q", tt.rates, got, tt.want)
		}
	}
}
