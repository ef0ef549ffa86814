// Package funnel models candidates flowing through a fixed recruiting funnel.
// Each stage thins the surviving candidate count with an independent binomial
// draw; repeating the draw builds an empirical distribution of outcomes.
package funnel

// Stage is one step of the recruiting funnel.
type Stage string

const (
	StageInterview        Stage = "Interview"
	StageConditionalOffer Stage = "Conditional Offer"
	StageOfferAccepted    Stage = "Offer Accepted"
	StageHired            Stage = "Hired"
	StageBilled           Stage = "Billed"
)

// Stages is the fixed stage order. Funnel.Rates is indexed by it.
var Stages = []Stage{
	StageInterview,
	StageConditionalOffer,
	StageOfferAccepted,
	StageHired,
	StageBilled,
}

// Funnel is one unit's starting candidate count and per-stage conversion
// probabilities, in Stages order. Rates must lie in [0,1]; the simulator does
// not check.
type Funnel struct {
	Applicants int       `json:"applicants"`
	Rates      []float64 `json:"rates"`
}

// Expected returns the analytic mean outcome: Applicants × Π rates.
func (f Funnel) Expected() float64 {
	e := float64(f.Applicants)
	for _, r := range f.Rates {
		e *= r
	}
	return e
}

// ExpectedByStage returns the expected survivors after each stage.
func (f Funnel) ExpectedByStage() []float64 {
	out := make([]float64, len(f.Rates))
	e := float64(f.Applicants)
	for i, r := range f.Rates {
		e *= r
		out[i] = e
	}
	return out
}

// Unit is a labelled organizational unit evaluated independently of others.
type Unit struct {
	Label  string `json:"label"`
	Funnel Funnel `json:"funnel"`
}

// Scenario is the complete input of one run.
type Scenario struct {
	Trials int    `json:"trials"`
	Units  []Unit `json:"units"`
}

// Ensemble holds one outcome per trial. Every element lies in [0, Applicants].
type Ensemble []int
