// Package exporter writes the panel, the maintenance file and the console
// summary.
//
// CSVWriter: core CSV writing with optional UTF-8 BOM, written through a
// temporary file that replaces the target only once complete.
//
// PanelExporter: renders a domain.Panel (identifier index as an unsigned
// integer, never a float) and the deduplicated unmatched records. An XLSX
// copy of the panel can be written alongside the CSV.
//
// Reporter: prints per-file drop counts, the run statistics and the
// frequency table of institution names missing from the map.
//
// Example usage:
//
//	panels := exporter.NewPanelExporter(logger, files.NewManager(false))
//	if err := panels.WritePanel(ctx, "hasselback.csv", panel); err != nil {
//	    return err
//	}
//	err := panels.WriteMaintenance(ctx, "mapping_files/unmapped.csv", unmatched)
package exporter
