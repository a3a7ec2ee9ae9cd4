package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"household-reshaper/internal/config"
	"household-reshaper/internal/exporter"
	"household-reshaper/internal/layout"
	"household-reshaper/internal/logger"
	"household-reshaper/internal/reader"
	"household-reshaper/internal/reshape"
	"household-reshaper/internal/server"
	"household-reshaper/internal/ui"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const (
	appName    = "Household Reshaper"
	appVersion = "1.0.0"
	appDesc    = "Expands wide household survey rows into one row per member and reports missing member data"
)

var (
	configPath  string
	inputPath   string
	outputDir   string
	formats     string
	serveAddr   string
	verbose     bool
	showVersion bool
	noWait      bool
)

func init() {
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	flag.StringVar(&inputPath, "input", "", "Override input spreadsheet (.xlsx or .csv)")
	flag.StringVar(&inputPath, "i", "", "Override input spreadsheet (shorthand)")
	flag.StringVar(&outputDir, "output", "", "Override output directory from config")
	flag.StringVar(&formats, "format", "", "Comma-separated output formats (excel,html,word,json)")
	flag.StringVar(&serveAddr, "serve", "", "Serve the HTTP API on this address instead of converting a file (e.g. :8080)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&noWait, "no-wait", false, "Exit without waiting for Enter")
}

func main() {
	exitCode := 0

	// "Press Enter to Exit" must run even on panic or error
	defer func() {
		if r := recover(); r != nil {
			fmt.Println()
			failf("PANIC: %v", r)
			exitCode = 1
		}
		if !noWait && !showVersion && serveAddr == "" && term.IsTerminal(int(os.Stdin.Fd())) {
			waitForEnter()
		}
		os.Exit(exitCode)
	}()

	exitCode = run()
}

func run() int {
	flag.Parse()

	if showVersion {
		fmt.Printf("%s v%s\n%s\n", appName, appVersion, appDesc)
		return 0
	}

	printBanner()

	logger.Info("Loading configuration...")
	cfg, err := config.Load(configPath)
	if err != nil {
		failf("Failed to load configuration: %v", err)
		return 1
	}

	if err := applyOverrides(cfg); err != nil {
		failf("%v", err)
		return 1
	}

	logPath := filepath.Join(cfg.Output.Dir, "household_reshaper.log")
	if err := logger.Init(os.Stdout, logPath, verbose); err != nil {
		failf("Failed to initialize logger: %v", err)
		return 1
	}
	defer logger.Close()

	if verbose {
		cfg.Print()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveAddr != "" {
		if err := server.New(cfg).ListenAndServe(ctx); err != nil {
			logger.Error("Server failed: %v", err)
			return 1
		}
		return 0
	}

	if err := runConversion(ctx, cfg); err != nil {
		logger.Error("Conversion failed: %v", err)
		return 1
	}

	logger.Info("✅ Conversion Complete. Check [%s] directory.", cfg.Output.Dir)
	return 0
}

// applyOverrides copies command-line flags over file values
func applyOverrides(cfg *config.Config) error {
	if inputPath != "" {
		abs, err := filepath.Abs(inputPath)
		if err != nil {
			return fmt.Errorf("invalid input path: %w", err)
		}
		cfg.Input.Path = abs
	}

	if outputDir != "" {
		abs, err := filepath.Abs(outputDir)
		if err != nil {
			return fmt.Errorf("invalid output directory: %w", err)
		}
		cfg.Output.Dir = abs
		if err := cfg.EnsureOutputDir(); err != nil {
			return err
		}
	}

	if formats != "" {
		cfg.Output.Formats = exporter.SplitFormats(formats)
	}

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	} else if cfg.Input.Path == "" {
		return fmt.Errorf("no input file: set input.path in the config or pass -input")
	}

	return nil
}

// waitForEnter keeps the console window open when the tool is double-clicked
func waitForEnter() {
	color.New(color.Faint).Print("\nDone. Press Enter to close this window...")
	bufio.NewReader(os.Stdin).ReadBytes('\n')
}

func runConversion(ctx context.Context, cfg *config.Config) error {
	pipeline := ui.NewPipeline([]ui.Phase{
		ui.PhaseReading,
		ui.PhaseReshaping,
		ui.PhaseGenerating,
	})
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		pipeline.Disable()
	}

	// --- Phase 1: Reading ---
	logger.Info("Phase 1: Reading %s...", filepath.Base(cfg.Input.Path))
	readBar := pipeline.NextPhase(1)
	readBar.Describe(filepath.Base(cfg.Input.Path))

	rows, err := reader.ReadFile(cfg.Input.Path, reader.Options{
		Sheet:     cfg.Input.Sheet,
		Encoding:  cfg.Input.Encoding,
		RawValues: cfg.Input.RawValues,
	})
	if err != nil {
		return err
	}
	readBar.Increment()
	readBar.Finish()

	logger.Info("Original Row Count: %d", len(rows))

	// --- Phase 2: Reshaping ---
	logger.Info("Phase 2: Reshaping households...")
	reshapeBar := pipeline.NextPhase(max(len(rows)-1, 0))

	result, err := reshape.NewPass(layout.New(cfg)).
		BlankRepeatedHousehold(cfg.Layout.BlankRepeatedHousehold).
		WithProgress(reshapeBar).
		Run(ctx, rows)
	if err != nil {
		return err
	}
	reshapeBar.Finish()

	result.Summary.Stamp(filepath.Base(cfg.Input.Path), time.Now())
	logger.Debug("Run %s", result.Summary.RunID)

	logger.Info("Generated %d new rows", len(result.Rows))
	if result.HasFindings() {
		logger.Info("Found %d members with missing data", len(result.Findings))
	} else {
		logger.Info("No missing data found")
	}
	if n := len(result.Warnings); n > 0 {
		logger.Warn("%d rows had an unreadable member count (details in %s)", n, logger.GetLogFilePath())
	}

	// --- Phase 3: Reporting ---
	logger.Info("Phase 3: Generating outputs...")
	exporters := exporter.GetExporters(cfg.Output.Formats)
	if len(exporters) == 0 {
		return fmt.Errorf("no supported output format in %v", cfg.Output.Formats)
	}

	genBar := pipeline.NextPhase(len(exporters))
	exportErr := exporter.ExportAll(ctx, exporters, result, cfg, func() { genBar.Increment() })
	genBar.Finish()

	pipeline.Finish()
	pipeline.PrintSummary(fmt.Sprintf("%d households → %d member rows, %d members missing data",
		result.Summary.Households, result.Summary.GeneratedRows, result.Summary.Findings))

	if exportErr != nil {
		return fmt.Errorf("export failed: %w", exportErr)
	}

	return nil
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                 HOUSEHOLD RESHAPER v1.0.0                 ║
║     One Row per Member | Missing Member Data Scanner      ║
╚═══════════════════════════════════════════════════════════╝
`
	color.New(color.FgCyan).Println(banner)
}

// failf prints a failure line before the logger is available
func failf(format string, args ...interface{}) {
	color.New(color.FgRed).Printf("❌ "+format+"\n", args...)
}
