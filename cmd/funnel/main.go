// funnel simulates candidates moving through a five-stage recruiting funnel
// and shows the distribution of billed hires for each unit.
//
// Usage:
//
//	funnel                         # interactive form on a terminal
//	funnel --batch --trials 50000  # run the scenario and print results
//	funnel --config team.yaml --format json | jq .
//
// Output modes (auto-detected):
//
//	terminal  styled Unicode output (default when TTY)
//	text      plain text, one summary block per unit (default when piped)
//	json      structured JSON for automation
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/dkoosis/funnel/internal/config"
	"github.com/dkoosis/funnel/internal/version"
	"github.com/dkoosis/funnel/pkg/chart"
	"github.com/dkoosis/funnel/pkg/entry"
	"github.com/dkoosis/funnel/pkg/form"
	"github.com/dkoosis/funnel/pkg/funnel"
	"github.com/dkoosis/funnel/pkg/mapper"
	"github.com/dkoosis/funnel/pkg/pattern"
	"github.com/dkoosis/funnel/pkg/render"
	"github.com/dkoosis/funnel/pkg/stats"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("funnel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML scenario file (default .funnel.yaml, then ~/.config/funnel/funnel.yaml)")
	trials := fs.Int("trials", entry.DefaultTrials, "Number of simulated trials per unit")
	seed := fs.Uint64("seed", 0, "PRNG seed; 0 picks a random seed")
	bins := fs.Int("bins", stats.DefaultBins, "Histogram bins")
	formatFlag := fs.String("format", "", "Output format: auto, terminal, text, json")
	themeFlag := fs.String("theme", "", "Theme: default, orca, mono")
	noColor := fs.Bool("no-color", false, "Disable colors")
	chartDir := fs.String("chart-dir", "", "Write one PNG histogram per unit into this directory")
	batch := fs.Bool("batch", false, "Skip the interactive form even on a terminal")
	debug := fs.Bool("debug", false, "Print diagnostics to stderr")
	writeSample := fs.String("write-sample", "", "Write a sample scenario file to this path and exit")
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "funnel: unexpected arguments: %v\n", fs.Args())
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.String())
		return 0
	}
	if *writeSample != "" {
		if err := config.WriteSample(*writeSample); err != nil {
			fmt.Fprintf(stderr, "funnel: %v\n", err)
			return 1
		}
		fmt.Fprintf(stderr, "funnel: wrote sample scenario to %s\n", *writeSample)
		return 0
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(stderr, "funnel: warning: %v\n", err)
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	cfg, err := config.ResolveConfig(config.CliFlags{
		ConfigPath:  *configPath,
		Trials:      *trials,
		Seed:        *seed,
		Bins:        *bins,
		Format:      *formatFlag,
		ThemeName:   *themeFlag,
		NoColor:     *noColor,
		ChartDir:    *chartDir,
		Debug:       *debug,
		TrialsSet:   set["trials"],
		SeedSet:     set["seed"],
		BinsSet:     set["bins"],
		NoColorSet:  set["no-color"],
		ChartDirSet: set["chart-dir"],
		DebugSet:    set["debug"],
	})
	if err != nil {
		fmt.Fprintf(stderr, "funnel: %v\n", err)
		return 2
	}

	logf := debugLogger(stderr, cfg.Debug)
	source := cfg.ConfigPath
	if source == "" {
		source = "built-in defaults"
	}
	logf("scenario from %s; trials=%d (%s) seed=%d (%s) theme=%s (%s) format=%s (%s)",
		source, cfg.Trials, cfg.TrialsSource, cfg.Seed, cfg.SeedSource,
		cfg.Theme, cfg.ThemeSource, cfg.Format, cfg.FormatSource)

	if !*batch && isTTYReader(stdin) && isTTYWriter(stdout) {
		return runForm(cfg, stdin, stdout, stderr, logf)
	}
	return runBatch(cfg, stdout, stderr, logf)
}

// runBatch validates the resolved scenario, simulates it, and prints results.
func runBatch(cfg *config.ResolvedConfig, stdout, stderr io.Writer, logf logFunc) int {
	sc, err := cfg.Sheet().Scenario()
	if err != nil {
		reportInvalid(stderr, err)
		return 2
	}

	sim := funnel.NewSimulator(cfg.Seed)
	logf("seed %d", sim.Seed())
	results := sim.Evaluate(sc, cfg.Bins)
	for _, r := range results {
		logf("%s: %d trials in %s", r.Unit.Label, r.Summary.N, r.Elapsed)
	}

	patterns := mapper.FromResults(results)
	run := &render.RunInfo{Seed: sim.Seed(), Trials: sc.Trials, Bins: cfg.Bins, Units: len(sc.Units)}
	output := selectRenderer(resolveFormat(cfg.Format, stdout), themeFor(cfg), stdout, run).Render(patterns)
	fmt.Fprint(stdout, output)

	return writeCharts(cfg.ChartDir, patterns, stderr, logf)
}

// runForm runs the interactive form, then exports charts for the last run.
func runForm(cfg *config.ResolvedConfig, stdin io.Reader, stdout, stderr io.Writer, logf logFunc) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logf("starting interactive form")
	results, err := form.Run(ctx, form.Options{
		Sheet: cfg.Sheet(),
		Seed:  cfg.Seed,
		Bins:  cfg.Bins,
		Theme: themeFor(cfg),
	}, stdin, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "funnel: %v\n", err)
		return 1
	}
	if len(results) == 0 {
		return 0
	}
	return writeCharts(cfg.ChartDir, mapper.FromResults(results), stderr, logf)
}

func writeCharts(dir string, patterns []pattern.Pattern, stderr io.Writer, logf logFunc) int {
	if dir == "" {
		return 0
	}
	paths, err := chart.WriteDir(dir, patterns)
	for _, p := range paths {
		logf("wrote %s", p)
	}
	if err != nil {
		fmt.Fprintf(stderr, "funnel: writing charts: %v\n", err)
		return 1
	}
	return 0
}

// reportInvalid prints one line per rejected field.
func reportInvalid(stderr io.Writer, err error) {
	var verrs entry.ValidationErrors
	if !errors.As(err, &verrs) {
		fmt.Fprintf(stderr, "funnel: %v\n", err)
		return
	}
	fmt.Fprintf(stderr, "funnel: scenario rejected, %d invalid field(s):\n", len(verrs))
	for _, fe := range verrs {
		fmt.Fprintf(stderr, "  %v\n", fe)
	}
}

type logFunc func(format string, args ...any)

// debugLogger returns a logger that writes "funnel: debug: ..." lines when
// enabled and discards them otherwise.
func debugLogger(w io.Writer, enabled bool) logFunc {
	if !enabled {
		return func(string, ...any) {}
	}
	return func(format string, args ...any) {
		fmt.Fprintf(w, "funnel: debug: "+format+"\n", args...)
	}
}

func themeFor(cfg *config.ResolvedConfig) render.Theme {
	if cfg.NoColor {
		return render.MonoTheme()
	}
	return render.ThemeByName(cfg.Theme)
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func isTTYReader(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func selectRenderer(mode string, theme render.Theme, w io.Writer, run *render.RunInfo) render.Renderer {
	switch mode {
	case "json":
		return render.NewJSON(run)
	case "text":
		return render.NewText()
	default:
		width := 80
		if f, ok := w.(*os.File); ok {
			if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
				width = tw
			}
		}
		return render.NewTerminal(theme, width)
	}
}

func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	// Auto-detect: TTY = terminal, piped = text
	if isTTYWriter(w) {
		return "terminal"
	}
	return "text"
}
