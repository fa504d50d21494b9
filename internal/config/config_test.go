package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facultypanel/internal/errors"
	"facultypanel/pkg/contracts/domain"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultSourceDir, cfg.Paths.SourceDir)
				assert.Equal(t, DefaultPersonsFile, cfg.Paths.PersonsFile)
				assert.Equal(t, DefaultInstitutionsFile, cfg.Paths.InstitutionsFile)
				assert.Equal(t, DefaultTargetFile, cfg.Paths.TargetFile)
				assert.Equal(t, DefaultUnmappedFile, cfg.Paths.UnmappedFile)
				assert.Empty(t, cfg.Paths.XLSXFile)
				assert.Equal(t, domain.LayoutYearly, cfg.Layout())
				assert.Equal(t, []string{"PHD"}, cfg.Processing.Degrees)
				assert.Equal(t, []string{"Retired", "Emeritus", "Deceased", "Visiting"}, cfg.Processing.ExcludedRanks)
				assert.Equal(t, "visiting from", cfg.Processing.VisitingMarker)
				assert.Equal(t, DefaultWorkers, cfg.Processing.Workers)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.False(t, cfg.DryRun)
			},
		},
		{
			name: "file overrides defaults",
			file: `
paths:
  source_dir: rosters
  target_file: out/panel.csv
processing:
  layout: panel
  degrees: [PHD, DBA]
  workers: 2
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "rosters", cfg.Paths.SourceDir)
				assert.Equal(t, "out/panel.csv", cfg.Paths.TargetFile)
				assert.Equal(t, DefaultPersonsFile, cfg.Paths.PersonsFile)
				assert.Equal(t, domain.LayoutPanel, cfg.Layout())
				assert.Equal(t, []string{"PHD", "DBA"}, cfg.Processing.Degrees)
				assert.Equal(t, 2, cfg.Processing.Workers)
			},
		},
		{
			name: "env overrides file",
			file: "processing:\n  layout: panel\n  workers: 2\n",
			env: map[string]string{
				"FACULTY_PROCESSING_LAYOUT":  "yearly",
				"FACULTY_PROCESSING_DEGREES": "PHD,EDD",
				"FACULTY_DRY_RUN":            "true",
				"FACULTY_EXCEL_BOM":          "true",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, domain.LayoutYearly, cfg.Layout())
				assert.Equal(t, 2, cfg.Processing.Workers)
				assert.Equal(t, []string{"PHD", "EDD"}, cfg.Processing.Degrees)
				assert.True(t, cfg.DryRun)
				assert.True(t, cfg.ExcelBOM)
			},
		},
		{
			name:    "invalid layout",
			env:     map[string]string{"FACULTY_PROCESSING_LAYOUT": "wide"},
			wantErr: true,
		},
		{
			name:    "zero workers",
			file:    "processing:\n  workers: 0\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "paths: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFile(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("layout is normalized", func(t *testing.T) {
		cfg := Default()
		cfg.Processing.Layout = " Panel "
		require.NoError(t, cfg.Validate())
		assert.Equal(t, domain.LayoutPanel, cfg.Layout())
	})

	t.Run("empty degree list", func(t *testing.T) {
		cfg := Default()
		cfg.Processing.Degrees = nil
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Degrees")
	})

	t.Run("missing persons file", func(t *testing.T) {
		cfg := Default()
		cfg.Paths.PersonsFile = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PersonsFile")
	})

	t.Run("file logging needs a path", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Output = "file"
		cfg.Logging.FilePath = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestNormalizerConfig(t *testing.T) {
	cfg := Default()
	cfg.Processing.Degrees = []string{"PHD", "DBA"}

	nc := cfg.NormalizerConfig()
	assert.Equal(t, []string{"PHD", "DBA"}, nc.Degrees)
	assert.Equal(t, "visiting from", nc.VisitingMarker)

	nc.Degrees[0] = "changed"
	assert.Equal(t, "PHD", cfg.Processing.Degrees[0])
}

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.TargetFile = filepath.Join(base, "abs.csv")

	require.NoError(t, cfg.ResolvePaths(base))

	assert.Equal(t, filepath.Join(base, "source_files"), cfg.Paths.SourceDir)
	assert.Equal(t, filepath.Join(base, "mapping_files", "persons.csv"), cfg.Paths.PersonsFile)
	assert.Equal(t, filepath.Join(base, "abs.csv"), cfg.Paths.TargetFile)
	assert.Empty(t, cfg.Paths.XLSXFile)
	assert.Empty(t, cfg.Telemetry.MetricsFile)
}

func TestOutputFiles(t *testing.T) {
	cfg := Default()
	assert.Equal(t, []string{DefaultTargetFile, DefaultUnmappedFile}, cfg.OutputFiles())

	cfg.Paths.XLSXFile = "panel.xlsx"
	cfg.Telemetry.MetricsFile = "run.prom"
	assert.Len(t, cfg.OutputFiles(), 4)
}

func TestConfigFilePath(t *testing.T) {
	path := writeConfigFile(t, "dry_run: true\n")
	t.Setenv("FACULTY_CONFIG", path)
	assert.Equal(t, path, ConfigFilePath())
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, "excel_bom: true\nprocessing:\n  workers: 2\n")
	t.Setenv("FACULTY_CONFIG", path)
	t.Setenv("FACULTY_PROCESSING_WORKERS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.ExcelBOM)
	assert.Equal(t, 3, cfg.Processing.Workers)
}

func TestExampleConfigMatchesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("..", "..", "configs", "facultypanel.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
