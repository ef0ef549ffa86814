package entry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"57.2", 0.572, false},
		{" 100 ", 1, false},
		{"0", 0, false},
		{"49%", 0.49, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-0.1", 0, true},
		{"100.01", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestParseTrials(t *testing.T) {
	t.Parallel()

	n, err := ParseTrials("10000")
	require.NoError(t, err)
	assert.Equal(t, 10000, n)

	n, err = ParseTrials("10000000")
	require.NoError(t, err)
	assert.Equal(t, MaxTrials, n)

	for _, bad := range []string{"", "0", "-3", "1.5", "ten", "10000001", "1000000000000000", "999999999999999999999"} {
		_, err := ParseTrials(bad)
		assert.Error(t, err, "input %q", bad)
	}

	_, err = ParseTrials("1000000000000000")
	assert.EqualError(t, err, "must be at most 10000000")
}

func TestParseApplicants(t *testing.T) {
	t.Parallel()

	n, err := ParseApplicants(" 0 ")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = ParseApplicants("-1")
	assert.Error(t, err)
	_, err = ParseApplicants("5e3")
	assert.Error(t, err)
}

func TestSheetScenario_When_Defaults(t *testing.T) {
	t.Parallel()

	sc, err := DefaultSheet().Scenario()
	require.NoError(t, err)

	assert.Equal(t, DefaultTrials, sc.Trials)
	require.Len(t, sc.Units, 2)
	assert.Equal(t, "Office A", sc.Units[0].Label)
	assert.Equal(t, 50546, sc.Units[0].Funnel.Applicants)
	assert.InDeltaSlice(t, []float64{0.572, 0.536, 0.717, 0.716, 0.49}, sc.Units[0].Funnel.Rates, 1e-12)
	assert.InDelta(t, 1.0, sc.Units[1].Funnel.Rates[2], 1e-12)
}

func TestSheetScenario_RejectsWholeRun_When_AnyFieldInvalid(t *testing.T) {
	t.Parallel()

	sh := DefaultSheet()
	sh.Trials = "lots"
	sh.Units[1].Applicants = "-5"
	sh.Units[1].Rates[3] = "120"

	sc, err := sh.Scenario()
	require.Error(t, err)
	assert.Empty(t, sc.Units)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 3)
	assert.Equal(t, FieldTrials, verrs[0].Field)
	assert.Equal(t, -1, verrs[0].Index)
	assert.Equal(t, "Office B", verrs[1].Unit)
	assert.Equal(t, 1, verrs[1].Index)
	assert.Equal(t, 1, verrs[2].Index)
	assert.Equal(t, FieldApplicants, verrs[1].Field)
	assert.Equal(t, "Hired", verrs[2].Field)
	assert.Contains(t, err.Error(), "3 invalid fields")
}

func TestSheetScenario_When_WrongRateCount(t *testing.T) {
	t.Parallel()

	sh := Sheet{Trials: "10", Units: []RawUnit{{Applicants: "5", Rates: []string{"50"}}}}

	_, err := sh.Scenario()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unit 1 rates")
}

func TestSheetScenario_When_NoUnits(t *testing.T) {
	t.Parallel()

	_, err := Sheet{Trials: "10"}.Scenario()
	assert.Error(t, err)
}

func TestFieldError_Message(t *testing.T) {
	t.Parallel()

	e := &FieldError{Unit: "Office A", Field: "Billed", Value: "x", Reason: "is not a number"}
	assert.Equal(t, `Office A Billed: "x" is not a number`, e.Error())
}

func TestFormatRate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "57.2", FormatRate(0.572))
	assert.Equal(t, "100", FormatRate(1))
	assert.Equal(t, "0", FormatRate(0))
}
