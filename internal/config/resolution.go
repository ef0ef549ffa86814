package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/dkoosis/funnel/pkg/entry"
	"github.com/dkoosis/funnel/pkg/stats"
)

// Sources recorded on ResolvedConfig, highest priority first.
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// Valid values for Format and Theme.
var (
	Formats = []string{"auto", "terminal", "text", "json"}
	Themes  = []string{"default", "orca", "mono"}
)

// ResolvedConfig holds the final configuration after applying all priority rules.
type ResolvedConfig struct {
	Trials   int
	Seed     uint64
	Bins     int
	Format   string
	Theme    string
	NoColor  bool
	ChartDir string
	Debug    bool
	Units    []entry.RawUnit

	// Resolution metadata (for debugging)
	ConfigPath    string // file that was read, "" for none
	TrialsSource  string
	SeedSource    string
	FormatSource  string
	ThemeSource   string
	NoColorSource string
}

// ResolveConfig resolves configuration from all sources with explicit priority
// order: CLI flags, then environment, then the scenario file, then defaults.
func ResolveConfig(cliFlags CliFlags) (*ResolvedConfig, error) {
	appCfg, path, err := LoadConfig(cliFlags.ConfigPath)
	if err != nil {
		return nil, err
	}

	fileOr := func(set bool) string {
		if set && path != "" {
			return SourceFile
		}
		return SourceDefault
	}
	def := DefaultAppConfig()

	resolved := &ResolvedConfig{
		Trials:        appCfg.Trials,
		Seed:          appCfg.Seed,
		Bins:          appCfg.Bins,
		Format:        appCfg.Format,
		Theme:         appCfg.Theme,
		NoColor:       appCfg.NoColor,
		ChartDir:      appCfg.ChartDir,
		Debug:         appCfg.Debug,
		Units:         appCfg.Units,
		ConfigPath:    path,
		TrialsSource:  fileOr(appCfg.Trials != def.Trials),
		SeedSource:    fileOr(appCfg.Seed != 0),
		FormatSource:  fileOr(appCfg.Format != def.Format),
		ThemeSource:   fileOr(appCfg.Theme != def.Theme),
		NoColorSource: fileOr(appCfg.NoColor),
	}

	// Trials: CLI > ENV > file > default
	if cliFlags.TrialsSet {
		resolved.Trials, resolved.TrialsSource = cliFlags.Trials, SourceCLI
	} else if v, ok, err := getEnvInt("FUNNEL_TRIALS"); err != nil {
		return nil, err
	} else if ok {
		resolved.Trials, resolved.TrialsSource = v, SourceEnv
	}

	// Seed: CLI > ENV > file > default
	if cliFlags.SeedSet {
		resolved.Seed, resolved.SeedSource = cliFlags.Seed, SourceCLI
	} else if raw := os.Getenv("FUNNEL_SEED"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("FUNNEL_SEED: %q is not an unsigned integer", raw)
		}
		resolved.Seed, resolved.SeedSource = seed, SourceEnv
	}

	// Format and theme: CLI > ENV > file > default
	if cliFlags.Format != "" {
		resolved.Format, resolved.FormatSource = cliFlags.Format, SourceCLI
	} else if env := os.Getenv("FUNNEL_FORMAT"); env != "" {
		resolved.Format, resolved.FormatSource = env, SourceEnv
	}
	if cliFlags.ThemeName != "" {
		resolved.Theme, resolved.ThemeSource = cliFlags.ThemeName, SourceCLI
	} else if env := os.Getenv("FUNNEL_THEME"); env != "" {
		resolved.Theme, resolved.ThemeSource = env, SourceEnv
	}

	// NoColor: CLI > ENV > file > default
	if cliFlags.NoColorSet {
		resolved.NoColor, resolved.NoColorSource = cliFlags.NoColor, SourceCLI
	} else if envNoColor := getEnvBool("FUNNEL_NO_COLOR"); envNoColor != nil {
		resolved.NoColor, resolved.NoColorSource = *envNoColor, SourceEnv
	} else if os.Getenv("NO_COLOR") != "" {
		resolved.NoColor, resolved.NoColorSource = true, SourceEnv
	}

	if cliFlags.BinsSet {
		resolved.Bins = cliFlags.Bins
	}
	if cliFlags.ChartDirSet {
		resolved.ChartDir = cliFlags.ChartDir
	}

	// Debug: CLI > ENV > file
	if cliFlags.DebugSet {
		resolved.Debug = cliFlags.Debug
	} else if os.Getenv("FUNNEL_DEBUG") != "" {
		resolved.Debug = true
	}

	if err := validateResolvedConfig(resolved); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return resolved, nil
}

// Sheet returns the run's entry fields for validation by the entry package.
func (r *ResolvedConfig) Sheet() entry.Sheet {
	units := make([]entry.RawUnit, len(r.Units))
	for i, u := range r.Units {
		units[i] = entry.RawUnit{Label: u.Label, Applicants: u.Applicants, Rates: append([]string(nil), u.Rates...)}
	}
	return entry.Sheet{Trials: strconv.Itoa(r.Trials), Units: units}
}

// getEnvBool reads a boolean from environment variables, trying multiple keys.
// Returns nil if none are set, or a pointer to the boolean value.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				return &b
			}
		}
	}
	return nil
}

// getEnvInt reads an integer from key. ok is false when key is unset.
func getEnvInt(key string) (v int, ok bool, err error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false, nil
	}
	v, err = strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %q is not an integer", key, raw)
	}
	return v, true, nil
}

// validateResolvedConfig rejects settings no renderer or simulator accepts.
// Trial counts and unit fields are validated by the entry package.
func validateResolvedConfig(cfg *ResolvedConfig) error {
	if !slices.Contains(Formats, cfg.Format) {
		return fmt.Errorf("invalid format %q (must be one of %v)", cfg.Format, Formats)
	}
	if !slices.Contains(Themes, cfg.Theme) {
		return fmt.Errorf("invalid theme %q (must be one of %v)", cfg.Theme, Themes)
	}
	if cfg.Bins < 1 {
		return fmt.Errorf("bins must be positive, got: %d", cfg.Bins)
	}
	if cfg.Bins > stats.MaxBins {
		return fmt.Errorf("bins must be at most %d, got: %d", stats.MaxBins, cfg.Bins)
	}
	return nil
}
