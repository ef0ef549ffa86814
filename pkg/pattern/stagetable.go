package pattern

// StageTable lists a funnel's stages with their rates and expected survivors.
type StageTable struct {
	Label string     `json:"label"`
	Rows  []StageRow `json:"rows"`
}

// StageRow is a single funnel stage.
type StageRow struct {
	Stage    string  `json:"stage"`
	Rate     string  `json:"rate"`     // formatted percentage
	Expected string  `json:"expected"` // formatted expected survivors
	Value    float64 `json:"value"`    // expected survivors
}

func (t *StageTable) Type() PatternType { return PatternTypeStageTable }
