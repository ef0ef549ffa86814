// Package config loads the funnel scenario and run settings.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--trials, --seed, --theme, --format, --no-color, etc.)
//  2. Environment variables (FUNNEL_TRIALS, FUNNEL_SEED, FUNNEL_THEME, ...)
//  3. YAML scenario file (.funnel.yaml in the working directory or
//     ~/.config/funnel/funnel.yaml)
//  4. Built-in defaults (two sample offices, 10000 trials, 20 bins)
//
// A .env file in the working directory is loaded into the environment
// before resolution; variables that are already set are left alone.
//
// # Scenario File
//
//	trials: 10000
//	seed: 42
//	units:
//	  - label: Office A
//	    applicants: 50546
//	    rates: [57.2, 53.6, 71.7, 71.6, 49.0]
//
// Rates are percentages in stage order. Unit fields are kept as text and
// validated by the entry package, so a file and the interactive form report
// bad values the same way.
//
// # Environment Variables
//
//   - FUNNEL_TRIALS, FUNNEL_SEED: integers
//   - FUNNEL_THEME: default, orca or mono
//   - FUNNEL_FORMAT: auto, terminal, text or json
//   - FUNNEL_NO_COLOR (bool) or NO_COLOR (any value): disable colors
//   - FUNNEL_DEBUG: any non-empty value enables debug output
package config
