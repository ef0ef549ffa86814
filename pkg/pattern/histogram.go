package pattern

// MarkerKind distinguishes the vertical markers drawn on a histogram.
type MarkerKind string

const (
	MarkerMedian MarkerKind = "median"
	MarkerBound  MarkerKind = "bound"
)

// Histogram is an outcome distribution with annotated reference values.
type Histogram struct {
	Label   string         `json:"label"`
	Unit    string         `json:"unit,omitempty"` // what the x axis counts, e.g. "billed"
	Bins    []HistogramBin `json:"bins"`
	Markers []Marker       `json:"markers"`
	Color   int            `json:"color"` // palette index, stable per organizational unit
}

// HistogramBin is one bucket covering [Lo, Hi).
type HistogramBin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Marker is a labelled vertical line at Value.
type Marker struct {
	Label string     `json:"label"` // e.g. "median", "2.5%"
	Value float64    `json:"value"`
	Kind  MarkerKind `json:"kind,omitempty"`
}

func (h *Histogram) Type() PatternType { return PatternTypeHistogram }
