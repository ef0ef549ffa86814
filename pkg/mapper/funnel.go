package mapper

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dkoosis/funnel/pkg/entry"
	"github.com/dkoosis/funnel/pkg/funnel"
	"github.com/dkoosis/funnel/pkg/pattern"
)

const (
	kindInput   = "input"
	kindSuccess = "success"
	kindWarning = "warning"
	kindInfo    = "info"
)

// FromResults converts simulated units into visualization patterns.
// Returns, per unit: Summary + Histogram + Comparison + StageTable + Sparkline;
// then a Leaderboard ranking the units when there is more than one.
func FromResults(results []funnel.Result) []pattern.Pattern {
	patterns := make([]pattern.Pattern, 0, len(results)*5+1)
	for i, r := range results {
		patterns = append(patterns,
			unitSummary(r),
			unitHistogram(r, i),
			expectationComparison(r),
			stageTable(r),
			stageSparkline(r),
		)
	}
	if len(results) > 1 {
		patterns = append(patterns, medianLeaderboard(results))
	}
	return patterns
}

func unitSummary(r funnel.Result) *pattern.Summary {
	s := r.Summary
	return &pattern.Summary{
		Label: r.Unit.Label,
		Kind:  pattern.SummaryKindUnit,
		Metrics: []pattern.SummaryItem{
			{Label: "Applicants", Value: formatCount(r.Unit.Funnel.Applicants), Raw: float64(r.Unit.Funnel.Applicants), Kind: kindInput},
			{Label: "Conversion rates", Value: formatRates(r.Unit.Funnel.Rates), Kind: kindInput},
			{Label: "Trials", Value: formatCount(s.N), Raw: float64(s.N), Kind: kindInput},
			{Label: "Average", Value: formatFloat(s.Mean), Raw: s.Mean, Kind: kindSuccess},
			{Label: "Median", Value: formatFloat(s.Median), Raw: s.Median, Kind: kindInfo},
			{Label: "2.5%", Value: formatFloat(s.P2_5), Raw: s.P2_5, Kind: kindWarning},
			{Label: "97.5%", Value: formatFloat(s.P97_5), Raw: s.P97_5, Kind: kindWarning},
			{Label: "Std dev", Value: formatFloat(s.StdDev), Raw: s.StdDev, Kind: kindInfo},
		},
	}
}

func unitHistogram(r funnel.Result, color int) *pattern.Histogram {
	bins := make([]pattern.HistogramBin, len(r.Histogram))
	for i, b := range r.Histogram {
		bins[i] = pattern.HistogramBin{Lo: b.Lo, Hi: b.Hi, Count: b.Count}
	}
	return &pattern.Histogram{
		Label: r.Unit.Label,
		Unit:  strings.ToLower(string(funnel.Stages[len(funnel.Stages)-1])),
		Bins:  bins,
		Markers: []pattern.Marker{
			{Label: "2.5%", Value: r.Summary.P2_5, Kind: pattern.MarkerBound},
			{Label: "median", Value: r.Summary.Median, Kind: pattern.MarkerMedian},
			{Label: "97.5%", Value: r.Summary.P97_5, Kind: pattern.MarkerBound},
		},
		Color: color,
	}
}

func expectationComparison(r funnel.Result) *pattern.Comparison {
	var change float64
	if r.Expected != 0 {
		change = (r.Summary.Mean - r.Expected) / r.Expected * 100
	}
	return &pattern.Comparison{
		Label: r.Unit.Label + " vs. expectation",
		Changes: []pattern.ComparisonItem{{
			Label:  "Mean billed",
			Before: formatFloat(r.Expected),
			After:  formatFloat(r.Summary.Mean),
			Change: change,
			Unit:   "%",
		}},
	}
}

func stageTable(r funnel.Result) *pattern.StageTable {
	expected := r.Unit.Funnel.ExpectedByStage()
	rows := make([]pattern.StageRow, len(expected))
	for i, e := range expected {
		rows[i] = pattern.StageRow{
			Stage:    string(funnel.Stages[i]),
			Rate:     entry.FormatRate(r.Unit.Funnel.Rates[i]) + "%",
			Expected: formatFloat(e),
			Value:    e,
		}
	}
	return &pattern.StageTable{Label: r.Unit.Label + " stages", Rows: rows}
}

func stageSparkline(r funnel.Result) *pattern.Sparkline {
	values := append([]float64{float64(r.Unit.Funnel.Applicants)}, r.Unit.Funnel.ExpectedByStage()...)
	return &pattern.Sparkline{
		Label:  r.Unit.Label + " expected by stage",
		Values: values,
		Unit:   " candidates",
	}
}

func medianLeaderboard(results []funnel.Result) *pattern.Leaderboard {
	items := make([]pattern.LeaderboardItem, len(results))
	for i, r := range results {
		items[i] = pattern.LeaderboardItem{
			Name:    r.Unit.Label,
			Metric:  formatFloat(r.Summary.Median),
			Value:   r.Summary.Median,
			Context: fmt.Sprintf("95%%: %s - %s", formatFloat(r.Summary.P2_5), formatFloat(r.Summary.P97_5)),
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Value > items[j].Value })
	for i := range items {
		items[i].Rank = i + 1
	}
	return &pattern.Leaderboard{
		Label:      "Units by median billed",
		MetricName: "Median billed",
		Items:      items,
		Direction:  "highest",
		TotalCount: len(items),
		ShowRank:   true,
	}
}

// formatRates renders probabilities as a bracketed list, e.g. [0.572, 0.49].
func formatRates(rates []float64) string {
	parts := make([]string, len(rates))
	for i, r := range rates {
		parts[i] = strconv.FormatFloat(math.Round(r*1e6)/1e6, 'f', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
