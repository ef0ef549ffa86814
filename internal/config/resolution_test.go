package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfig_PriorityOrder(t *testing.T) {
	tests := []struct {
		name       string
		withFile   bool
		cliFlags   CliFlags
		envVars    map[string]string
		wantTrials int
		wantSource string
	}{
		{
			name:       "defaults",
			wantTrials: 10000,
			wantSource: SourceDefault,
		},
		{
			name:       "file over default",
			withFile:   true,
			wantTrials: 500,
			wantSource: SourceFile,
		},
		{
			name:       "env over file",
			withFile:   true,
			envVars:    map[string]string{"FUNNEL_TRIALS": "250"},
			wantTrials: 250,
			wantSource: SourceEnv,
		},
		{
			name:       "CLI over env",
			withFile:   true,
			cliFlags:   CliFlags{Trials: 3, TrialsSet: true},
			envVars:    map[string]string{"FUNNEL_TRIALS": "250"},
			wantTrials: 3,
			wantSource: SourceCLI,
		},
		{
			name:       "unset CLI value is ignored",
			cliFlags:   CliFlags{Trials: 3},
			wantTrials: 10000,
			wantSource: SourceDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			if tt.withFile {
				writeFile(t, filepath.Join(dir, ".funnel.yaml"), sampleYAML)
			}
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			resolved, err := ResolveConfig(tt.cliFlags)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTrials, resolved.Trials)
			assert.Equal(t, tt.wantSource, resolved.TrialsSource)
		})
	}
}

func TestResolveConfig_ThemeAndNoColor(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".funnel.yaml"), sampleYAML)

	resolved, err := ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.Equal(t, "orca", resolved.Theme)
	assert.Equal(t, SourceFile, resolved.ThemeSource)
	assert.False(t, resolved.NoColor)

	t.Setenv("FUNNEL_THEME", "mono")
	t.Setenv("NO_COLOR", "1")
	resolved, err = ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.Equal(t, "mono", resolved.Theme)
	assert.Equal(t, SourceEnv, resolved.ThemeSource)
	assert.True(t, resolved.NoColor)
	assert.Equal(t, SourceEnv, resolved.NoColorSource)

	t.Setenv("FUNNEL_NO_COLOR", "false")
	resolved, err = ResolveConfig(CliFlags{ThemeName: "default"})
	require.NoError(t, err)
	assert.False(t, resolved.NoColor, "FUNNEL_NO_COLOR outranks NO_COLOR")
	assert.Equal(t, SourceCLI, resolved.ThemeSource)

	resolved, err = ResolveConfig(CliFlags{NoColor: true, NoColorSet: true})
	require.NoError(t, err)
	assert.True(t, resolved.NoColor)
	assert.Equal(t, SourceCLI, resolved.NoColorSource)
}

func TestResolveConfig_SeedAndDebug(t *testing.T) {
	isolate(t)
	t.Setenv("FUNNEL_SEED", "123")
	t.Setenv("FUNNEL_DEBUG", "1")

	resolved, err := ResolveConfig(CliFlags{})
	require.NoError(t, err)
	assert.Equal(t, uint64(123), resolved.Seed)
	assert.Equal(t, SourceEnv, resolved.SeedSource)
	assert.True(t, resolved.Debug)

	resolved, err = ResolveConfig(CliFlags{Seed: 9, SeedSet: true, Debug: false, DebugSet: true})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), resolved.Seed)
	assert.False(t, resolved.Debug)
}

func TestResolveConfig_Validation(t *testing.T) {
	tests := []struct {
		name     string
		cliFlags CliFlags
		envVars  map[string]string
		wantErr  string
	}{
		{name: "bad format", cliFlags: CliFlags{Format: "xml"}, wantErr: `invalid format "xml"`},
		{name: "bad theme", envVars: map[string]string{"FUNNEL_THEME": "neon"}, wantErr: `invalid theme "neon"`},
		{name: "zero bins", cliFlags: CliFlags{Bins: 0, BinsSet: true}, wantErr: "bins must be positive"},
		{name: "too many bins", cliFlags: CliFlags{Bins: 1 << 40, BinsSet: true}, wantErr: "bins must be at most 1000"},
		{name: "bad env trials", envVars: map[string]string{"FUNNEL_TRIALS": "lots"}, wantErr: "FUNNEL_TRIALS"},
		{name: "bad env seed", envVars: map[string]string{"FUNNEL_SEED": "-1"}, wantErr: "FUNNEL_SEED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			_, err := ResolveConfig(tt.cliFlags)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolvedConfig_Sheet(t *testing.T) {
	isolate(t)
	resolved, err := ResolveConfig(CliFlags{Trials: 50, TrialsSet: true})
	require.NoError(t, err)

	sc, err := resolved.Sheet().Scenario()
	require.NoError(t, err)
	assert.Equal(t, 50, sc.Trials)
	require.Len(t, sc.Units, 2)
	assert.InDelta(t, 0.572, sc.Units[0].Funnel.Rates[0], 1e-12)

	resolved.Trials = 0
	_, err = resolved.Sheet().Scenario()
	assert.Error(t, err, "trial count is validated by the entry sheet")
}
