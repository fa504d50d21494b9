package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"facultypanel/pkg/contracts/domain"
)

const (
	ServiceName = "facultypanel"
	MeterName   = "facultypanel"
)

// ServiceVersion is stamped at build time.
var ServiceVersion = "dev"

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	EnableTracing  bool
	// TraceFile receives the stdouttrace JSON; empty means stderr.
	TraceFile string
}

// OTelProviders holds the OpenTelemetry providers. Metrics are always
// collected into Registry; tracing is a no-op unless enabled.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *promclient.Registry
	Metrics        *RunMetrics
	Logger         *slog.Logger

	traceOut io.Closer
}

// InitializeOTel sets up tracing and the run metrics
func InitializeOTel(cfg OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = ServiceName
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = ServiceVersion
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	)

	providers := &OTelProviders{
		Logger: logger,
		Tracer: noop.NewTracerProvider().Tracer(MeterName),
	}

	if cfg.EnableTracing {
		if err := providers.initializeTracing(cfg, res); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}
	if err := providers.initializeMetrics(cfg, res); err != nil {
		providers.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.Debug("OpenTelemetry initialized",
		slog.Bool("tracing_enabled", cfg.EnableTracing),
		slog.String("trace_file", cfg.TraceFile))
	return providers, nil
}

func (p *OTelProviders) initializeTracing(cfg OTelConfig, res *resource.Resource) error {
	var out io.Writer = os.Stderr
	if cfg.TraceFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0755); err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		f, err := os.Create(cfg.TraceFile)
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}
		p.traceOut = f
		out = f
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	p.TracerProvider = tp
	p.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
	return nil
}

func (p *OTelProviders) initializeMetrics(cfg OTelConfig, res *resource.Resource) error {
	registry := promclient.NewRegistry()
	exporter, err := otelprom.New(
		otelprom.WithRegisterer(registry),
		otelprom.WithoutTargetInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	p.Registry = registry
	p.MeterProvider = mp
	p.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))

	p.Metrics, err = CreateRunMetrics(p.Meter)
	return err
}

// StartSpan starts a span on the run tracer.
func (p *OTelProviders) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// WriteMetricsFile writes the collected metrics in the Prometheus text
// format, for a node_exporter textfile collector.
func (p *OTelProviders) WriteMetricsFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := promclient.WriteToTextfile(path, p.Registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

// Shutdown flushes and stops the providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if p.traceOut != nil {
		if err := p.traceOut.Close(); err != nil {
			errs = append(errs, fmt.Errorf("trace file close: %w", err))
		}
		p.traceOut = nil
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}
	return nil
}

// RunMetrics holds the counters of one pipeline run
type RunMetrics struct {
	FilesProcessed   metric.Int64Counter
	RowsRead         metric.Int64Counter
	RowsDropped      metric.Int64Counter
	RowsIdentified   metric.Int64Counter
	RowsUnidentified metric.Int64Counter
	StageDuration    metric.Float64Histogram
	PanelRows        metric.Int64Gauge
	PanelColumns     metric.Int64Gauge
	UnmappedNames    metric.Int64Gauge
}

// CreateRunMetrics creates the run instruments on meter
func CreateRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	var (
		m   RunMetrics
		err error
	)

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.FilesProcessed, "facultypanel_files_processed", "Roster files processed"},
		{&m.RowsRead, "facultypanel_rows_read", "Roster rows read"},
		{&m.RowsDropped, "facultypanel_rows_dropped", "Roster rows dropped, by reason"},
		{&m.RowsIdentified, "facultypanel_rows_identified", "Rows matched to a canonical identifier"},
		{&m.RowsUnidentified, "facultypanel_rows_unidentified", "Rows without a canonical identifier"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, err
		}
	}

	gauges := []struct {
		dst  *metric.Int64Gauge
		name string
		desc string
	}{
		{&m.PanelRows, "facultypanel_panel_rows", "Rows of the written panel"},
		{&m.PanelColumns, "facultypanel_panel_columns", "Data columns of the written panel"},
		{&m.UnmappedNames, "facultypanel_unmapped_institutions", "Distinct institution names missing from the map"},
	}
	for _, g := range gauges {
		if *g.dst, err = meter.Int64Gauge(g.name, metric.WithDescription(g.desc)); err != nil {
			return nil, err
		}
	}

	m.StageDuration, err = meter.Float64Histogram(
		"facultypanel_stage_duration",
		metric.WithDescription("Pipeline stage duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordFileMetrics records the row counts of one roster file
func RecordFileMetrics(ctx context.Context, metrics *RunMetrics, f domain.FileSummary) {
	if metrics == nil {
		return
	}
	file := metric.WithAttributes(attribute.String("file", f.Tag.File))

	metrics.FilesProcessed.Add(ctx, 1)
	metrics.RowsRead.Add(ctx, int64(f.RowsRead), file)
	metrics.RowsIdentified.Add(ctx, int64(f.Identified), file)
	metrics.RowsUnidentified.Add(ctx, int64(f.Unidentified), file)

	for reason, n := range f.Drops.ByReason() {
		metrics.RowsDropped.Add(ctx, int64(n), metric.WithAttributes(
			attribute.String("file", f.Tag.File),
			attribute.String("reason", reason)))
	}
}

// RecordStageMetrics records the duration of a pipeline stage
func RecordStageMetrics(ctx context.Context, metrics *RunMetrics, stage string, duration time.Duration, success bool) {
	if metrics == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	metrics.StageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status)))
}

// RecordSummaryMetrics records the panel shape of a finished run
func RecordSummaryMetrics(ctx context.Context, metrics *RunMetrics, s domain.RunSummary) {
	if metrics == nil {
		return
	}
	metrics.PanelRows.Record(ctx, int64(s.MatchedPeople))
	metrics.PanelColumns.Record(ctx, int64(s.PanelColumns))
	metrics.UnmappedNames.Record(ctx, int64(len(s.UnmappedInstitutions)))
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TraceIDFromContext extracts trace ID from context for logging correlation
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}
