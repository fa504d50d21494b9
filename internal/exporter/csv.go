package exporter

import (
	"encoding/csv"
	"log/slog"

	"facultypanel/internal/errors"
	"facultypanel/internal/files"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
	files  *files.Manager
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger, manager *files.Manager) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if manager == nil {
		manager = files.NewManager(false)
	}
	return &CSVWriter{logger: logger, files: manager}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options. The target is
// replaced only after every record was written.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) (err error) {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	file, err := w.files.Create(filePath)
	if err != nil {
		return errors.NewStorageError("failed to create output file", err).WithContext("path", filePath)
	}
	defer func() {
		if err != nil {
			file.Abort()
		}
	}()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return errors.NewStorageError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return errors.NewStorageError("failed to write headers", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return errors.NewStorageError("failed to write record", err).WithContext("record", i)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewStorageError("failed to flush CSV", err)
	}

	if err := file.Commit(); err != nil {
		return errors.NewStorageError("failed to commit output file", err).WithContext("path", filePath)
	}
	return nil
}

// WriteSimpleCSV writes a simple CSV file with headers and records
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers: headers,
		Records: records,
	})
}
