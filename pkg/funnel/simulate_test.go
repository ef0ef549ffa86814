package funnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var officeA = Funnel{Applicants: 50546, Rates: []float64{0.572, 0.536, 0.717, 0.716, 0.490}}

func TestRunEnsemble_ResultsWithinBounds(t *testing.T) {
	t.Parallel()

	sim := NewSimulator(1)
	tests := []struct {
		name       string
		applicants int
		rates      []float64
	}{
		{"small pool", 7, []float64{0.5, 0.5, 0.5, 0.5, 0.5}},
		{"mid pool", 300, []float64{0.9, 0.1, 0.7, 0.3, 0.99}},
		{"large pool", 50546, officeA.Rates},
		{"no stages", 12, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ens := sim.RunEnsemble(500, tt.applicants, tt.rates)
			require.Len(t, ens, 500)
			for _, v := range ens {
				assert.GreaterOrEqual(t, v, 0)
				assert.LessOrEqual(t, v, tt.applicants)
			}
		})
	}
}

func TestRunEnsemble_When_NoApplicants(t *testing.T) {
	t.Parallel()

	ens := NewSimulator(2).RunEnsemble(1000, 0, []float64{0.3, 1, 0.8, 0.5, 0.9})
	for _, v := range ens {
		require.Equal(t, 0, v)
	}
}

func TestRunEnsemble_When_AnyRateZero(t *testing.T) {
	t.Parallel()

	sim := NewSimulator(3)
	for stage := range Stages {
		rates := []float64{0.9, 0.9, 0.9, 0.9, 0.9}
		rates[stage] = 0
		for _, v := range sim.RunEnsemble(200, 10000, rates) {
			require.Equal(t, 0, v, "zero rate at stage %s", Stages[stage])
		}
	}
}

func TestRunEnsemble_When_AllRatesOne(t *testing.T) {
	t.Parallel()

	ens := NewSimulator(4).RunEnsemble(1000, 46630, []float64{1, 1, 1, 1, 1})
	for _, v := range ens {
		require.Equal(t, 46630, v)
	}
}

func TestRunEnsemble_MeanNearExpectation(t *testing.T) {
	t.Parallel()

	ens := NewSimulator(5).RunEnsemble(10000, officeA.Applicants, officeA.Rates)

	sum := 0
	for _, v := range ens {
		sum += v
	}
	mean := float64(sum) / float64(len(ens))
	expected := officeA.Expected()

	assert.InDelta(t, 3898.3, expected, 0.1)
	assert.InEpsilon(t, expected, mean, 0.05)
}

func TestSimulator_SeedIsReproducible(t *testing.T) {
	t.Parallel()

	a := NewSimulator(99).RunEnsemble(100, 1000, []float64{0.5, 0.4, 0.3, 0.8, 0.9})
	b := NewSimulator(99).RunEnsemble(100, 1000, []float64{0.5, 0.4, 0.3, 0.8, 0.9})

	assert.Equal(t, a, b)
	assert.Equal(t, uint64(99), NewSimulator(99).Seed())
	assert.NotZero(t, NewSimulator(0).Seed())
}

func TestFunnel_ExpectedByStage(t *testing.T) {
	t.Parallel()

	f := Funnel{Applicants: 1000, Rates: []float64{0.5, 0.5, 1, 0.2, 1}}

	assert.Equal(t, []float64{500, 250, 250, 50, 50}, f.ExpectedByStage())
	assert.Equal(t, 50.0, f.Expected())
}

func TestEvaluate_ProducesOneResultPerUnit(t *testing.T) {
	t.Parallel()

	sc := Scenario{
		Trials: 300,
		Units: []Unit{
			{Label: "Office A", Funnel: officeA},
			{Label: "Empty", Funnel: Funnel{Applicants: 0, Rates: []float64{1, 1, 1, 1, 1}}},
		},
	}
	results := NewSimulator(6).Evaluate(sc, 10)

	require.Len(t, results, 2)
	assert.Equal(t, "Office A", results[0].Unit.Label)
	assert.Len(t, results[0].Ensemble, 300)
	assert.Equal(t, 300, results[0].Summary.N)
	assert.Len(t, results[0].Histogram, 10)
	assert.InDelta(t, officeA.Expected(), results[0].Expected, 1e-9)

	empty := results[1]
	assert.Equal(t, 0.0, empty.Summary.Mean)
	assert.Equal(t, 0.0, empty.Summary.P97_5)
}
