package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dkoosis/funnel/pkg/entry"
	"github.com/dkoosis/funnel/pkg/stats"
)

// CliFlags holds the values of command-line flags.
type CliFlags struct {
	ConfigPath string
	Trials     int
	Seed       uint64
	Bins       int
	Format     string
	ThemeName  string
	NoColor    bool
	ChartDir   string
	Debug      bool

	// Flags to track if they were explicitly set by the user
	TrialsSet   bool
	SeedSet     bool
	BinsSet     bool
	NoColorSet  bool
	ChartDirSet bool
	DebugSet    bool
}

// AppConfig is the on-disk scenario file (.funnel.yaml).
type AppConfig struct {
	Trials   int             `yaml:"trials,omitempty"`
	Seed     uint64          `yaml:"seed,omitempty"`
	Bins     int             `yaml:"bins,omitempty"`
	Theme    string          `yaml:"theme,omitempty"`
	Format   string          `yaml:"format,omitempty"`
	NoColor  bool            `yaml:"no_color,omitempty"`
	ChartDir string          `yaml:"chart_dir,omitempty"`
	Debug    bool            `yaml:"debug,omitempty"`
	Units    []entry.RawUnit `yaml:"units,omitempty"`
}

// Constants for default values.
const (
	DefaultTheme  = "default"
	DefaultFormat = "auto"

	localConfigName = ".funnel.yaml"
	xdgConfigName   = "funnel.yaml"
	dotEnvName      = ".env"
)

// DefaultAppConfig returns the built-in scenario: two sample offices.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Trials: entry.DefaultTrials,
		Bins:   stats.DefaultBins,
		Theme:  DefaultTheme,
		Format: DefaultFormat,
		Units:  entry.DefaultSheet().Units,
	}
}

// LoadConfig reads the scenario file and merges it over the defaults.
// An explicit path must exist; otherwise .funnel.yaml in the working
// directory and then $XDG_CONFIG_HOME/funnel/funnel.yaml are tried.
// Returns the merged config and the path that was read ("" for none).
func LoadConfig(explicitPath string) (*AppConfig, string, error) {
	appCfg := DefaultAppConfig()

	configPath := explicitPath
	if configPath == "" {
		configPath = getConfigPath()
	}
	if configPath == "" {
		debugf("no config file found, using defaults")
		return appCfg, "", nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("read config %s: %w", configPath, err)
	}
	var fileCfg AppConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, "", fmt.Errorf("parse config %s: %w", configPath, err)
	}

	// Merge file settings onto the defaults
	if fileCfg.Trials != 0 {
		appCfg.Trials = fileCfg.Trials
	}
	appCfg.Seed = fileCfg.Seed
	if fileCfg.Bins != 0 {
		appCfg.Bins = fileCfg.Bins
	}
	if fileCfg.Theme != "" {
		appCfg.Theme = fileCfg.Theme
	}
	if fileCfg.Format != "" {
		appCfg.Format = fileCfg.Format
	}
	appCfg.NoColor = fileCfg.NoColor
	appCfg.ChartDir = fileCfg.ChartDir
	appCfg.Debug = fileCfg.Debug
	if len(fileCfg.Units) > 0 {
		appCfg.Units = fileCfg.Units
	}

	debugf("loaded config from %s (%d units)", configPath, len(appCfg.Units))
	return appCfg, configPath, nil
}

// getConfigPath tries to find the scenario file.
// It checks the local directory first, then the XDG user config dir.
func getConfigPath() string {
	if _, err := os.Stat(localConfigName); err == nil {
		return localConfigName
	}

	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		debugf("user config dir unusable: %v (%q)", err, configHome)
		return ""
	}
	xdgPath := filepath.Join(configHome, "funnel", xdgConfigName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	debugf("no config file at %s", xdgPath)
	return ""
}

// LoadDotEnv loads .env from the working directory into the process
// environment. Variables that are already set win. A missing file is not an
// error.
func LoadDotEnv() error {
	err := godotenv.Load(dotEnvName)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", dotEnvName, err)
}

// WriteSample writes the default scenario as YAML to path. It refuses to
// overwrite an existing file.
func WriteSample(path string) error {
	data, err := yaml.Marshal(DefaultAppConfig())
	if err != nil {
		return fmt.Errorf("marshal sample: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("write sample: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write sample: %w", err)
	}
	return f.Close()
}

func debugf(format string, args ...any) {
	if os.Getenv("FUNNEL_DEBUG") != "" {
		fmt.Fprintf(os.Stderr, "[DEBUG config] "+format+"\n", args...)
	}
}
