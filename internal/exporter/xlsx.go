package exporter

import (
	"context"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"facultypanel/internal/errors"
	"facultypanel/pkg/contracts/domain"
)

// PanelSheet is the sheet name of the XLSX export.
const PanelSheet = "panel"

// WritePanelXLSX writes the panel as a single-sheet workbook. Identifiers
// are stored as integer cells.
func (e *PanelExporter) WritePanelXLSX(ctx context.Context, path string, panel *domain.Panel) error {
	e.logger.InfoContext(ctx, "writing panel workbook",
		slog.String("path", path),
		slog.Int("rows", len(panel.Rows)))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), PanelSheet); err != nil {
		return errors.NewStorageError("failed to name sheet", err)
	}
	sw, err := f.NewStreamWriter(PanelSheet)
	if err != nil {
		return errors.NewStorageError("failed to create sheet writer", err)
	}

	header := panel.Header()
	if err := sw.SetRow("A1", toRow(header)); err != nil {
		return errors.NewStorageError("failed to write header row", err)
	}

	records := panel.Records(FormatID)
	for i, row := range panel.Rows {
		cells := make([]interface{}, len(records[i]))
		cells[0] = row.ScopusID
		for j, v := range records[i][1:] {
			if v != "" {
				cells[j+1] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.NewStorageError("failed to address row", err)
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return errors.NewStorageError("failed to write row", err).WithContext("row", i)
		}
	}
	if err := sw.Flush(); err != nil {
		return errors.NewStorageError("failed to flush sheet", err)
	}

	out, err := e.files.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create workbook file", err).WithContext("path", path)
	}
	if err := f.Write(out); err != nil {
		out.Abort()
		return errors.NewStorageError("failed to write workbook", err).WithContext("path", path)
	}
	if err := out.Commit(); err != nil {
		return errors.NewStorageError("failed to commit workbook", err).WithContext("path", path)
	}
	return nil
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
