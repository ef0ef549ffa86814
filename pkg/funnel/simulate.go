package funnel

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dkoosis/funnel/pkg/stats"
)

// pcgStream is the fixed PCG stream selector; only the seed varies per run.
const pcgStream = 0x9e3779b97f4a7c15

// Simulator draws funnel outcomes from a single pseudo-random stream.
// A Simulator is not safe for concurrent use.
type Simulator struct {
	seed uint64
	src  rand.Source
}

// NewSimulator returns a simulator seeded with seed. Seed 0 picks a random seed.
func NewSimulator(seed uint64) *Simulator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Simulator{seed: seed, src: rand.NewPCG(seed, pcgStream)}
}

// Seed reports the seed the stream was started from.
func (s *Simulator) Seed() uint64 { return s.seed }

// SimulateOnce thins applicants through each stage rate in order and returns
// the survivors of the last stage.
func (s *Simulator) SimulateOnce(applicants int, rates []float64) int {
	candidates := applicants
	for _, p := range rates {
		candidates = s.thin(candidates, p)
	}
	return candidates
}

// RunEnsemble returns trials independent SimulateOnce outcomes.
func (s *Simulator) RunEnsemble(trials, applicants int, rates []float64) Ensemble {
	out := make(Ensemble, trials)
	for i := range out {
		out[i] = s.SimulateOnce(applicants, rates)
	}
	return out
}

// thin draws Binomial(n, p). The degenerate cases are exact and consume no
// randomness.
func (s *Simulator) thin(n int, p float64) int {
	switch {
	case n <= 0 || p <= 0:
		return 0
	case p >= 1:
		return n
	}
	b := distuv.Binomial{N: float64(n), P: p, Src: s.src}
	k := int(b.Rand())
	return min(max(k, 0), n)
}

// Result is one unit's ensemble with its derived statistics.
type Result struct {
	Unit      Unit          `json:"unit"`
	Ensemble  Ensemble      `json:"-"`
	Summary   stats.Summary `json:"summary"`
	Histogram []stats.Bin   `json:"histogram"`
	Expected  float64       `json:"expected"`
	Elapsed   time.Duration `json:"-"`
}

// Evaluate runs every unit of sc in order, blocking until all are done.
func (s *Simulator) Evaluate(sc Scenario, bins int) []Result {
	results := make([]Result, 0, len(sc.Units))
	for _, u := range sc.Units {
		start := time.Now()
		ens := s.RunEnsemble(sc.Trials, u.Funnel.Applicants, u.Funnel.Rates)
		values := []int(ens)
		results = append(results, Result{
			Unit:      u,
			Ensemble:  ens,
			Summary:   stats.Summarize(values),
			Histogram: stats.Histogram(values, bins),
			Expected:  u.Funnel.Expected(),
			Elapsed:   time.Since(start),
		})
	}
	return results
}
