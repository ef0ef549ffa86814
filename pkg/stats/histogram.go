package stats

const (
	// DefaultBins is the bin count used when none is configured.
	DefaultBins = 20
	// MaxBins is the largest bin count Histogram will allocate.
	MaxBins = 1000
)

// Bin is one histogram bucket covering [Lo, Hi). The last bin of a histogram
// also includes Hi.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram buckets values into equal-width bins spanning [min, max].
// When every value is equal the range is widened to [v-0.5, v+0.5] so the
// bins keep a positive width. bins <= 0 selects DefaultBins; larger than
// MaxBins is clamped to MaxBins.
func Histogram(values []int, bins int) []Bin {
	if len(values) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = DefaultBins
	}
	bins = min(bins, MaxBins)

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	first, last := float64(lo), float64(hi)
	if first == last {
		first -= 0.5
		last += 0.5
	}
	width := (last - first) / float64(bins)

	out := make([]Bin, bins)
	for i := range out {
		out[i].Lo = first + float64(i)*width
		out[i].Hi = first + float64(i+1)*width
	}
	out[bins-1].Hi = last

	for _, v := range values {
		idx := int((float64(v) - first) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}
	return out
}
