// Package entry turns user-entered text into a validated funnel.Scenario.
// All validation for a run happens here; the simulator trusts its input.
package entry

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dkoosis/funnel/pkg/funnel"
)

const (
	// DefaultTrials is the trial count offered when none is entered.
	DefaultTrials = 10000
	// MaxTrials bounds the ensemble size held in memory for one unit.
	MaxTrials = 10_000_000
)

// RawUnit holds one unit's fields exactly as typed.
type RawUnit struct {
	Label      string   `yaml:"label"`
	Applicants string   `yaml:"applicants"`
	Rates      []string `yaml:"rates"` // percentages, Stages order
}

// Sheet is the full set of entry fields for one run.
type Sheet struct {
	Trials string
	Units  []RawUnit
}

// Field names used in FieldError.
const (
	FieldTrials     = "trials"
	FieldApplicants = "applicants"
)

// FieldError reports one rejected field.
type FieldError struct {
	Unit   string // empty for run-level fields
	Index  int    // position of Unit in Sheet.Units; -1 for run-level fields
	Field  string // FieldTrials, FieldApplicants, or a stage name
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	where := e.Field
	if e.Unit != "" {
		where = e.Unit + " " + e.Field
	}
	return fmt.Sprintf("%s: %q %s", where, e.Value, e.Reason)
}

// ValidationErrors collects every rejected field of a Sheet.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	switch len(v) {
	case 0:
		return "no validation errors"
	case 1:
		return v[0].Error()
	}
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d invalid fields: %s", len(v), strings.Join(msgs, "; "))
}

// ParseTrials parses a trial count in [1, MaxTrials].
func ParseTrials(s string) (int, error) {
	n, err := parseInt(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("must be at least 1")
	}
	if n > MaxTrials {
		return 0, fmt.Errorf("must be at most %d", MaxTrials)
	}
	return n, nil
}

// ParseApplicants parses a non-negative applicant count.
func ParseApplicants(s string) (int, error) {
	n, err := parseInt(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}

// ParseRate parses a percentage in [0,100] and returns it as a probability.
func ParseRate(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, fmt.Errorf("is empty")
	}
	pct, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("is not a number")
	}
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0, fmt.Errorf("is not a finite number")
	}
	if pct < 0 || pct > 100 {
		return 0, fmt.Errorf("must be between 0 and 100")
	}
	return pct / 100, nil
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("is empty")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("is not a whole number")
	}
	return n, nil
}

// Scenario validates every field of the sheet. If any field is invalid it
// returns ValidationErrors listing all of them and no scenario.
func (sh Sheet) Scenario() (funnel.Scenario, error) {
	var errs ValidationErrors
	reject := func(index int, unit, field, value string, err error) {
		errs = append(errs, &FieldError{Unit: unit, Index: index, Field: field, Value: value, Reason: err.Error()})
	}

	trials, err := ParseTrials(sh.Trials)
	if err != nil {
		reject(-1, "", FieldTrials, sh.Trials, err)
	}
	if len(sh.Units) == 0 {
		errs = append(errs, &FieldError{Index: -1, Field: "units", Reason: "at least one unit is required"})
	}

	units := make([]funnel.Unit, 0, len(sh.Units))
	for i, ru := range sh.Units {
		label := strings.TrimSpace(ru.Label)
		if label == "" {
			label = fmt.Sprintf("Unit %d", i+1)
		}
		applicants, err := ParseApplicants(ru.Applicants)
		if err != nil {
			reject(i, label, FieldApplicants, ru.Applicants, err)
		}
		if len(ru.Rates) != len(funnel.Stages) {
			errs = append(errs, &FieldError{
				Unit:   label,
				Index:  i,
				Field:  "rates",
				Value:  strings.Join(ru.Rates, ","),
				Reason: fmt.Sprintf("needs %d stage rates, got %d", len(funnel.Stages), len(ru.Rates)),
			})
			continue
		}
		rates := make([]float64, len(funnel.Stages))
		for j, raw := range ru.Rates {
			r, err := ParseRate(raw)
			if err != nil {
				reject(i, label, string(funnel.Stages[j]), raw, err)
				continue
			}
			rates[j] = r
		}
		units = append(units, funnel.Unit{
			Label:  label,
			Funnel: funnel.Funnel{Applicants: applicants, Rates: rates},
		})
	}

	if len(errs) > 0 {
		return funnel.Scenario{}, errs
	}
	return funnel.Scenario{Trials: trials, Units: units}, nil
}

// FormatRate renders a probability back as percentage text.
func FormatRate(p float64) string {
	return strconv.FormatFloat(math.Round(p*1e6)/1e4, 'f', -1, 64)
}
