package exporter

import (
	"context"
	"log/slog"

	"facultypanel/internal/files"
	"facultypanel/pkg/contracts/domain"
)

// PanelExporter writes the panel and the maintenance file.
type PanelExporter struct {
	logger    *slog.Logger
	csvWriter *CSVWriter
	files     *files.Manager
	// BOMPrefix makes the CSV outputs open cleanly in Excel.
	BOMPrefix bool
}

// NewPanelExporter creates a panel exporter
func NewPanelExporter(logger *slog.Logger, manager *files.Manager) *PanelExporter {
	if logger == nil {
		logger = slog.Default()
	}
	if manager == nil {
		manager = files.NewManager(false)
	}
	return &PanelExporter{
		logger:    logger,
		csvWriter: NewCSVWriter(logger, manager),
		files:     manager,
	}
}

// WritePanel writes the wide panel keyed by scopus_id.
func (e *PanelExporter) WritePanel(ctx context.Context, path string, panel *domain.Panel) error {
	e.logger.InfoContext(ctx, "writing panel",
		slog.String("path", path),
		slog.Int("rows", len(panel.Rows)),
		slog.Int("columns", panel.Width()))

	return e.csvWriter.WriteCSV(path, WriteOptions{
		Headers:   panel.Header(),
		Records:   panel.Records(FormatID),
		BOMPrefix: e.BOMPrefix,
	})
}

// MaintenanceHeader is the header of the unmatched-faculty file.
var MaintenanceHeader = []string{domain.ColumnFaculty, domain.ColumnInstitution}

// WriteMaintenance writes the unmatched records, one per identity key.
func (e *PanelExporter) WriteMaintenance(ctx context.Context, path string, unmatched []domain.UnmatchedRecord) error {
	e.logger.InfoContext(ctx, "writing maintenance file",
		slog.String("path", path),
		slog.Int("rows", len(unmatched)))

	records := make([][]string, 0, len(unmatched))
	for _, u := range unmatched {
		records = append(records, []string{u.IdentityKey, u.Institution})
	}
	return e.csvWriter.WriteCSV(path, WriteOptions{
		Headers:   MaintenanceHeader,
		Records:   records,
		BOMPrefix: e.BOMPrefix,
	})
}
