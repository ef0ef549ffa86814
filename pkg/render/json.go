package render

import (
	"encoding/json"

	"github.com/dkoosis/funnel/pkg/pattern"
)

// jsonSchemaVersion is bumped when the envelope shape changes.
const jsonSchemaVersion = "1.1"

// RunInfo describes the simulation a set of patterns came from.
type RunInfo struct {
	Seed   uint64 `json:"seed"`
	Trials int    `json:"trials"`
	Bins   int    `json:"bins"`
	Units  int    `json:"units"`
}

// JSON renders patterns as structured JSON for automation.
type JSON struct {
	run *RunInfo
}

// NewJSON creates a JSON renderer. A non-nil run is emitted as the "run"
// object.
func NewJSON(run *RunInfo) *JSON {
	return &JSON{run: run}
}

type jsonOutput struct {
	Version  string        `json:"version"`
	Run      *RunInfo      `json:"run,omitempty"`
	Patterns []jsonPattern `json:"patterns"`
}

type jsonPattern struct {
	Type string          `json:"type"`
	Data pattern.Pattern `json:"data"`
}

// Render formats all patterns as JSON, each wrapped with its type.
func (j *JSON) Render(patterns []pattern.Pattern) string {
	out := jsonOutput{
		Version:  jsonSchemaVersion,
		Run:      j.run,
		Patterns: make([]jsonPattern, 0, len(patterns)),
	}
	for _, p := range patterns {
		out.Patterns = append(out.Patterns, jsonPattern{Type: string(p.Type()), Data: p})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return string(data) + "\n"
}
