package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facultypanel/internal/config"
	"facultypanel/pkg/contracts/domain"
)

func TestOTelMetricsTextfile(t *testing.T) {
	providers, err := InitializeOTel(OTelConfig{}, nil)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Nil(t, providers.TracerProvider)
	require.NotNil(t, providers.Metrics)

	ctx := context.Background()
	RecordFileMetrics(ctx, providers.Metrics, domain.FileSummary{
		Tag:          domain.SourceTag{File: "2001.csv", Listing: "2001"},
		RowsRead:     10,
		Drops:        domain.DropCounts{Rank: 3},
		Identified:   4,
		Unidentified: 3,
	})
	RecordStageMetrics(ctx, providers.Metrics, "load", 250*time.Millisecond, true)
	RecordSummaryMetrics(ctx, providers.Metrics, domain.RunSummary{MatchedPeople: 4, PanelColumns: 7})

	path := filepath.Join(t.TempDir(), "metrics", "facultypanel.prom")
	require.NoError(t, providers.WriteMetricsFile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "facultypanel_rows_read")
	assert.Contains(t, text, `reason="rank"`)
	assert.Contains(t, text, "facultypanel_panel_rows")
	assert.Contains(t, text, "facultypanel_stage_duration")
	assert.Contains(t, text, `stage="load"`)
}

func TestOTelTracingToFile(t *testing.T) {
	traceFile := filepath.Join(t.TempDir(), "trace.json")
	providers, err := InitializeOTel(OTelConfig{EnableTracing: true, TraceFile: traceFile}, nil)
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)

	var buf bytes.Buffer
	logger := NewLogger(&buf, config.LoggingConfig{Level: "info"})

	ctx, span := providers.StartSpan(context.Background(), "stage.load")
	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)

	logger.InfoContext(ctx, "inside span")
	RecordError(ctx, assert.AnError)
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, traceID, entry["trace_id"])

	content, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "stage.load")
	assert.Contains(t, string(content), traceID)
}

func TestNilMetricsAreIgnored(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordFileMetrics(ctx, nil, domain.FileSummary{})
		RecordStageMetrics(ctx, nil, "load", time.Second, false)
		RecordSummaryMetrics(ctx, nil, domain.RunSummary{})
	})
	assert.Empty(t, TraceIDFromContext(ctx))
}
