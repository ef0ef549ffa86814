// Package stats summarizes integer outcome ensembles.
package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the order statistics reported for an ensemble.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	P2_5   float64 `json:"p2_5"`
	P97_5  float64 `json:"p97_5"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes Summary for values. An empty slice yields the zero Summary.
// values is not modified.
func Summarize(values []int) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := toSortedFloats(values)

	s := Summary{
		N:      len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: Percentile(sorted, 50),
		P2_5:   Percentile(sorted, 2.5),
		P97_5:  Percentile(sorted, 97.5),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
	if s.N > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}

// Percentile returns the p-th percentile (0..100) of sorted, interpolating
// linearly between the two closest ranks at h = (N-1)·p/100.
// sorted must be ascending and non-empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	p = math.Min(math.Max(p, 0), 100)
	h := float64(n-1) * p / 100
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func toSortedFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	slices.Sort(out)
	return out
}
