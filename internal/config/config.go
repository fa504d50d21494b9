package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"facultypanel/internal/dataprocessing"
	"facultypanel/internal/errors"
	"facultypanel/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
	DryRun     bool             `yaml:"dry_run" envconfig:"DRY_RUN"`
	ExcelBOM   bool             `yaml:"excel_bom" envconfig:"EXCEL_BOM"` // UTF-8 BOM on CSV outputs
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains the input and output locations of a run
type PathsConfig struct {
	SourceDir        string `yaml:"source_dir" envconfig:"SOURCE_DIR" validate:"required"`
	PersonsFile      string `yaml:"persons_file" envconfig:"PERSONS_FILE" validate:"required"`
	InstitutionsFile string `yaml:"institutions_file" envconfig:"INSTITUTIONS_FILE" validate:"required"`
	TargetFile       string `yaml:"target_file" envconfig:"TARGET_FILE" validate:"required"`
	UnmappedFile     string `yaml:"unmapped_file" envconfig:"UNMAPPED_FILE" validate:"required"`
	// XLSXFile is an optional workbook copy of the panel.
	XLSXFile string `yaml:"xlsx_file" envconfig:"XLSX_FILE"`
}

// ProcessingConfig contains the row filters and pipeline settings
type ProcessingConfig struct {
	Layout         string   `yaml:"layout" envconfig:"LAYOUT" validate:"oneof=yearly panel"`
	Degrees        []string `yaml:"degrees" envconfig:"DEGREES" validate:"min=1,dive,required"`
	ExcludedRanks  []string `yaml:"excluded_ranks" envconfig:"EXCLUDED_RANKS" validate:"dive,required"`
	VisitingMarker string   `yaml:"visiting_marker" envconfig:"VISITING_MARKER"`
	Workers        int      `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=64"`
	UnmappedLimit  int      `yaml:"unmapped_limit" envconfig:"UNMAPPED_LIMIT" validate:"min=0"`
}

// TelemetryConfig contains tracing and metrics output settings
type TelemetryConfig struct {
	TracingEnabled bool   `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
	TraceFile      string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile    string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Default returns default configuration
func Default() *Config {
	normalizer := dataprocessing.DefaultNormalizerConfig()
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			SourceDir:        DefaultSourceDir,
			PersonsFile:      DefaultPersonsFile,
			InstitutionsFile: DefaultInstitutionsFile,
			TargetFile:       DefaultTargetFile,
			UnmappedFile:     DefaultUnmappedFile,
		},
		Processing: ProcessingConfig{
			Layout:         string(domain.LayoutYearly),
			Degrees:        normalizer.Degrees,
			ExcludedRanks:  normalizer.ExcludedRanks,
			VisitingMarker: normalizer.VisitingMarker,
			Workers:        DefaultWorkers,
			UnmappedLimit:  DefaultUnmappedLimit,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file and
// FACULTY_* environment variables, in that order of precedence.
func Load() (*Config, error) {
	return LoadFile(ConfigFilePath())
}

// LoadFile is Load with an explicit config file. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, errors.NewConfigError("failed to load config from file", err).WithContext("path", path)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New()

// Validate checks field constraints. Call it again after applying flag
// overrides.
func (c *Config) Validate() error {
	c.Processing.Layout = strings.ToLower(strings.TrimSpace(c.Processing.Layout))
	c.Logging.Level = strings.ToLower(c.Logging.Level)

	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewConfigError("config validation failed", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return errors.NewConfigError("config validation failed: "+strings.Join(msgs, "; "), err)
}

// Layout returns the aggregation layout.
func (c *Config) Layout() domain.Layout {
	return domain.Layout(c.Processing.Layout)
}

// NormalizerConfig returns the row filter settings.
func (c *Config) NormalizerConfig() dataprocessing.NormalizerConfig {
	return dataprocessing.NormalizerConfig{
		Degrees:        append([]string(nil), c.Processing.Degrees...),
		ExcludedRanks:  append([]string(nil), c.Processing.ExcludedRanks...),
		VisitingMarker: c.Processing.VisitingMarker,
	}
}
