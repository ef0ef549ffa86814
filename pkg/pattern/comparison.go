package pattern

// Comparison represents expected/observed metric comparisons.
type Comparison struct {
	Label   string           `json:"label"`
	Changes []ComparisonItem `json:"changes"`
}

// ComparisonItem is a single expected-versus-observed delta.
type ComparisonItem struct {
	Label  string  `json:"label"`
	Before string  `json:"before"`         // reference value, e.g. the analytic expectation
	After  string  `json:"after"`          // observed value
	Change float64 `json:"change"`         // positive or negative
	Unit   string  `json:"unit,omitempty"` // e.g., "%"
}

func (c *Comparison) Type() PatternType { return PatternTypeComparison }
