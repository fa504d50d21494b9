package operations

import (
	"io"
	"os"

	"facultypanel/internal/config"
	"facultypanel/internal/dataprocessing"
	"facultypanel/pkg/contracts/domain"
)

// Config holds the settings of one pipeline run
type Config struct {
	SourceDir        string
	PersonsFile      string
	InstitutionsFile string
	TargetFile       string
	UnmappedFile     string
	// XLSXFile is written only when set.
	XLSXFile string

	Layout     domain.Layout
	Normalizer dataprocessing.NormalizerConfig
	// Workers bounds how many roster files are parsed at once.
	Workers       int
	UnmappedLimit int
	DryRun        bool
	ExcelBOM      bool

	// Report receives the console summary.
	Report io.Writer
}

// NewConfig returns the pipeline configuration for the application defaults
func NewConfig() *Config {
	return ConfigFromApp(config.Default())
}

// ConfigFromApp converts the loaded application configuration
func ConfigFromApp(cfg *config.Config) *Config {
	return &Config{
		SourceDir:        cfg.Paths.SourceDir,
		PersonsFile:      cfg.Paths.PersonsFile,
		InstitutionsFile: cfg.Paths.InstitutionsFile,
		TargetFile:       cfg.Paths.TargetFile,
		UnmappedFile:     cfg.Paths.UnmappedFile,
		XLSXFile:         cfg.Paths.XLSXFile,
		Layout:           cfg.Layout(),
		Normalizer:       cfg.NormalizerConfig(),
		Workers:          cfg.Processing.Workers,
		UnmappedLimit:    cfg.Processing.UnmappedLimit,
		DryRun:           cfg.DryRun,
		ExcelBOM:         cfg.ExcelBOM,
		Report:           os.Stdout,
	}
}

func (c *Config) workers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}
