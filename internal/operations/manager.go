package operations

import (
	"context"
	"log/slog"
	"time"

	"facultypanel/internal/infrastructure"
)

// Manager orchestrates operation execution
type Manager struct {
	registry *Registry
	logger   *slog.Logger
	tracer   *OperationTracer
}

// NewManager creates a new operation manager
func NewManager(logger *slog.Logger, registry *Registry, tracer *OperationTracer) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = NewRegistry()
	}
	if tracer == nil {
		tracer = NewOperationTracer(nil)
	}
	return &Manager{
		registry: registry,
		logger:   logger,
		tracer:   tracer,
	}
}

// RegisterStage registers a Step with the operation
func (m *Manager) RegisterStage(step Step) error {
	return m.registry.Register(step)
}

// GetRegistry returns the registry for accessing registered stages
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// Execute runs every registered Step in order. The first failure stops the
// run; later steps are marked skipped.
func (m *Manager) Execute(ctx context.Context, state *OperationState) error {
	ctx = infrastructure.WithRunID(ctx, state.ID)
	ctx, span := m.tracer.TraceOperation(ctx, state.ID)
	defer span.End()

	steps := m.registry.List()
	for _, step := range steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	state.Start()
	m.logger.InfoContext(ctx, "operation_start",
		slog.String("operation_id", state.ID),
		slog.Int("stage_count", len(steps)))

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			cerr := NewCancellationError(step.ID(), err)
			m.skipRemaining(state, steps[i:], "operation cancelled")
			state.Cancel(cerr)
			m.logger.WarnContext(ctx, "operation_cancelled",
				slog.String("operation_id", state.ID),
				slog.String("stage", step.ID()))
			return cerr
		}

		if err := m.executeStep(ctx, state, step, i+1, len(steps)); err != nil {
			m.skipRemaining(state, steps[i+1:], "previous stage failed")
			if IsCancellation(err) {
				state.Cancel(err)
			} else {
				state.Fail(err)
			}
			return err
		}
	}

	state.Complete()
	m.logger.InfoContext(ctx, "operation_complete",
		slog.String("operation_id", state.ID),
		slog.Duration("duration", state.Duration()))
	return nil
}

func (m *Manager) executeStep(ctx context.Context, state *OperationState, step Step, n, total int) error {
	stepState := state.GetStage(step.ID())
	stepState.Start()

	m.logger.InfoContext(ctx, "stage_start",
		slog.String("stage", step.ID()),
		slog.Int("stage_number", n),
		slog.Int("total_stages", total))

	stageCtx, span := m.tracer.TraceStage(ctx, step)
	start := time.Now()
	err := step.Execute(stageCtx, state)
	duration := time.Since(start)
	m.tracer.EndStage(stageCtx, span, step.ID(), duration, err)

	if err != nil {
		if ctx.Err() != nil {
			err = NewCancellationError(step.ID(), err)
		} else {
			err = NewExecutionError(step.ID(), err)
		}
		stepState.Fail(err)
		m.logger.ErrorContext(ctx, "stage_failed",
			slog.String("stage", step.ID()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return err
	}

	stepState.Complete()
	m.logger.InfoContext(ctx, "stage_complete",
		slog.String("stage", step.ID()),
		slog.Duration("duration", duration))
	return nil
}

func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, s := range steps {
		if st := state.GetStage(s.ID()); st != nil {
			st.Skip(reason)
		}
	}
}
