package operations

import (
	"context"
	"log/slog"

	"facultypanel/internal/infrastructure"
)

// NewPipeline creates a manager with every stage of a panel build registered.
// providers may be nil.
func NewPipeline(logger *slog.Logger, cfg *Config, providers *infrastructure.OTelProviders) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = NewConfig()
	}

	tracer := NewOperationTracer(providers)
	m := NewManager(logger, NewRegistry(), tracer)

	// IDs are constant and distinct, so registration cannot fail.
	for _, step := range []Step{
		NewReferenceStage(cfg, logger),
		NewLoadStage(cfg, logger),
		NewMatchStage(logger),
		NewAggregateStage(cfg, logger),
		NewExportStage(cfg, logger),
		NewReportStage(cfg, logger, tracer.Metrics()),
	} {
		_ = m.RegisterStage(step)
	}
	return m
}

// Run executes a full panel build and returns its final state.
func Run(ctx context.Context, logger *slog.Logger, cfg *Config, providers *infrastructure.OTelProviders) (*OperationState, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	state := NewOperationState(infrastructure.GetRunID(ctx))
	err := NewPipeline(logger, cfg, providers).Execute(ctx, state)
	return state, err
}
