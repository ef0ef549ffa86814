package pattern

// Sparkline represents a word-sized trend graphic using Unicode blocks.
type Sparkline struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
	Min    float64   `json:"min,omitempty"`  // 0 = auto-detect
	Max    float64   `json:"max,omitempty"`  // 0 = auto-detect
	Unit   string    `json:"unit,omitempty"` // e.g., "candidates"
}

func (s *Sparkline) Type() PatternType { return PatternTypeSparkline }
