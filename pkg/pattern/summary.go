package pattern

// SummaryKind identifies what a summary describes, for renderer dispatch.
type SummaryKind string

const (
	SummaryKindUnit SummaryKind = "unit"
)

// Summary represents high-level metrics and counts.
type Summary struct {
	Label   string        `json:"label"`
	Kind    SummaryKind   `json:"kind"` // dispatch key for renderers
	Metrics []SummaryItem `json:"metrics"`
}

// SummaryItem is a single metric in a summary.
type SummaryItem struct {
	Label string  `json:"label"`         // e.g., "Mean", "2.5%", "Applicants"
	Value string  `json:"value"`         // formatted value
	Raw   float64 `json:"raw,omitempty"` // unformatted value, for machine output
	Kind  string  `json:"kind"`          // "input", "success", "warning", "info"; affects coloring
}

func (s *Summary) Type() PatternType { return PatternTypeSummary }
