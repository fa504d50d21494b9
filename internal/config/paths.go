package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFilePath returns the first config file found in the usual places,
// or "" when there is none. FACULTY_CONFIG takes precedence.
func ConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}
	locations := []string{
		ConfigFileName,
		filepath.Join("configs", ConfigFileName),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// ResolvePaths makes every configured path absolute relative to base.
// Empty optional paths stay empty.
func (c *Config) ResolvePaths(base string) error {
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	for _, p := range []*string{
		&c.Paths.SourceDir,
		&c.Paths.PersonsFile,
		&c.Paths.InstitutionsFile,
		&c.Paths.TargetFile,
		&c.Paths.UnmappedFile,
		&c.Paths.XLSXFile,
		&c.Logging.FilePath,
		&c.Telemetry.TraceFile,
		&c.Telemetry.MetricsFile,
	} {
		*p = resolve(base, *p)
	}
	return nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(base, path))
}

// OutputFiles lists the files a run writes, skipping unset optional outputs.
func (c *Config) OutputFiles() []string {
	out := []string{c.Paths.TargetFile, c.Paths.UnmappedFile}
	if c.Paths.XLSXFile != "" {
		out = append(out, c.Paths.XLSXFile)
	}
	if c.Telemetry.MetricsFile != "" {
		out = append(out, c.Telemetry.MetricsFile)
	}
	return out
}
