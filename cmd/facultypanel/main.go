// Command facultypanel builds the faculty panel from yearly roster files.
//
// Usage:
//
//	facultypanel [flags]
//
// Settings come from facultypanel.yaml and FACULTY_* environment
// variables; flags override both.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"facultypanel/internal/config"
	"facultypanel/internal/infrastructure"
	"facultypanel/internal/operations"
	"facultypanel/internal/validation"
	"facultypanel/pkg/contracts"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options are the command line flags; empty values leave the config as is.
type options struct {
	configFile   string
	source       string
	persons      string
	institutions string
	target       string
	unmapped     string
	xlsx         string
	layout       string
	degrees      string
	workers      int
	dryRun       bool
	excelBOM     bool
	metrics      string
	trace        string
	logLevel     string
	version      bool
}

func parseFlags(args []string, stderr io.Writer) (*options, map[string]bool, error) {
	fs := flag.NewFlagSet("facultypanel", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.StringVar(&o.configFile, "config", "", "config file (defaults to facultypanel.yaml if present)")
	fs.StringVar(&o.source, "source", "", "directory of roster files")
	fs.StringVar(&o.persons, "persons", "", "person table csv")
	fs.StringVar(&o.institutions, "institutions", "", "institution map csv")
	fs.StringVar(&o.target, "out", "", "panel csv to write")
	fs.StringVar(&o.unmapped, "unmapped", "", "maintenance csv of unmatched faculty")
	fs.StringVar(&o.xlsx, "xlsx", "", "also write the panel as xlsx")
	fs.StringVar(&o.layout, "layout", "", "yearly | panel")
	fs.StringVar(&o.degrees, "degrees", "", "comma-separated degrees to keep")
	fs.IntVar(&o.workers, "workers", 0, "roster files parsed in parallel")
	fs.BoolVar(&o.dryRun, "dry-run", false, "run everything but write no files")
	fs.BoolVar(&o.excelBOM, "excel-bom", false, "start CSV outputs with a UTF-8 byte order mark")
	fs.StringVar(&o.metrics, "metrics", "", "prometheus textfile to write")
	fs.StringVar(&o.trace, "trace", "", "write trace spans to this file")
	fs.StringVar(&o.logLevel, "log-level", "", "debug | info | warn | error")
	fs.BoolVar(&o.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() > 0 {
		return nil, nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return &o, set, nil
}

// apply copies the flags that were given onto cfg.
func (o *options) apply(cfg *config.Config, set map[string]bool) {
	str := func(name string, dst *string, v string) {
		if set[name] {
			*dst = v
		}
	}
	str("source", &cfg.Paths.SourceDir, o.source)
	str("persons", &cfg.Paths.PersonsFile, o.persons)
	str("institutions", &cfg.Paths.InstitutionsFile, o.institutions)
	str("out", &cfg.Paths.TargetFile, o.target)
	str("unmapped", &cfg.Paths.UnmappedFile, o.unmapped)
	str("xlsx", &cfg.Paths.XLSXFile, o.xlsx)
	str("layout", &cfg.Processing.Layout, o.layout)
	str("metrics", &cfg.Telemetry.MetricsFile, o.metrics)
	str("log-level", &cfg.Logging.Level, o.logLevel)

	if set["degrees"] {
		cfg.Processing.Degrees = splitList(o.degrees)
	}
	if set["workers"] {
		cfg.Processing.Workers = o.workers
	}
	if set["dry-run"] {
		cfg.DryRun = o.dryRun
	}
	if set["excel-bom"] {
		cfg.ExcelBOM = o.excelBOM
	}
	if set["trace"] {
		cfg.Telemetry.TracingEnabled = o.trace != ""
		cfg.Telemetry.TraceFile = o.trace
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, set, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	}

	var cfg *config.Config
	if opts.configFile != "" {
		cfg, err = config.LoadFile(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	opts.apply(cfg, set)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if err := cfg.ResolvePaths(""); err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailed
	}

	logger, closeLog, err := newLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailed
	}
	defer closeLog()

	ctx = infrastructure.EnsureRunID(ctx)
	logger.InfoContext(ctx, "Starting panel build",
		slog.String("version", contracts.Version),
		slog.String("source_dir", cfg.Paths.SourceDir),
		slog.String("target_file", cfg.Paths.TargetFile),
		slog.String("layout", cfg.Processing.Layout),
		slog.Bool("dry_run", cfg.DryRun))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputs(validation.Inputs{
		SourceDir:        cfg.Paths.SourceDir,
		PersonsFile:      cfg.Paths.PersonsFile,
		InstitutionsFile: cfg.Paths.InstitutionsFile,
		Outputs:          cfg.OutputFiles(),
	}, cfg.DryRun); err != nil {
		logger.ErrorContext(ctx, "Input validation failed", slog.String("error", err.Error()))
		return exitFailed
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfig{
		ServiceVersion: contracts.Version,
		EnableTracing:  cfg.Telemetry.TracingEnabled,
		TraceFile:      cfg.Telemetry.TraceFile,
	}, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize telemetry", slog.String("error", err.Error()))
		return exitFailed
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	pcfg := operations.ConfigFromApp(cfg)
	pcfg.Report = stdout

	ctx, span := providers.StartSpan(ctx, "facultypanel.run",
		attribute.String("source_dir", cfg.Paths.SourceDir),
		attribute.String("layout", cfg.Processing.Layout),
		attribute.Bool("dry_run", cfg.DryRun))
	defer span.End()

	state, err := operations.Run(ctx, infrastructure.WithComponent(logger, "pipeline"), pcfg, providers)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Panel build failed",
			slog.Duration("duration", state.Duration()))
		fmt.Fprintln(stderr, err)
		return exitFailed
	}

	if cfg.Telemetry.MetricsFile != "" && !cfg.DryRun {
		if err := providers.WriteMetricsFile(cfg.Telemetry.MetricsFile); err != nil {
			logger.WarnContext(ctx, "Failed to write metrics file", slog.String("error", err.Error()))
		}
	}

	logger.InfoContext(ctx, "Panel build complete",
		slog.Int("panel_rows", state.Summary.MatchedPeople),
		slog.Int("unmatched", state.Summary.UnmatchedPeople),
		slog.Any("outputs", state.Outputs),
		slog.Duration("duration", state.Duration()))
	return exitOK
}

// newLogger writes console logs to stderr. File output goes through the
// global logger so the file is closed on exit.
func newLogger(cfg config.LoggingConfig, stderr io.Writer) (*slog.Logger, func(), error) {
	if strings.ToLower(cfg.Output) == "console" {
		return infrastructure.NewLogger(stderr, cfg), func() {}, nil
	}
	logger, err := infrastructure.InitializeLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, func() { infrastructure.CloseLogFile() }, nil
}
