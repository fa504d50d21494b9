package operations

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"facultypanel/internal/dataprocessing"
	"facultypanel/internal/errors"
	"facultypanel/internal/exporter"
	"facultypanel/internal/files"
	"facultypanel/internal/infrastructure"
)

// Stage IDs in execution order
const (
	StageIDReference = "reference"
	StageIDLoad      = "load"
	StageIDMatch     = "match"
	StageIDAggregate = "aggregate"
	StageIDExport    = "export"
	StageIDReport    = "report"
)

// Stage names
const (
	StageNameReference = "Reference tables"
	StageNameLoad      = "Roster loading"
	StageNameMatch     = "Identity matching"
	StageNameAggregate = "Panel aggregation"
	StageNameExport    = "Output writing"
	StageNameReport    = "Summary report"
)

// ReferenceStage loads the institution map and the person table
type ReferenceStage struct {
	BaseStage
	config *Config
	logger *slog.Logger
}

// NewReferenceStage creates the reference loading stage
func NewReferenceStage(cfg *Config, logger *slog.Logger) *ReferenceStage {
	return &ReferenceStage{
		BaseStage: NewBaseStage(StageIDReference, StageNameReference),
		config:    cfg,
		logger:    logger.With(slog.String("stage", StageIDReference)),
	}
}

// Execute reads both reference tables concurrently
func (s *ReferenceStage) Execute(ctx context.Context, state *OperationState) error {
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		m, err := dataprocessing.LoadInstitutionMap(s.config.InstitutionsFile)
		if err != nil {
			return fmt.Errorf("institution map: %w", err)
		}
		state.Institutions = m
		return nil
	})
	g.Go(func() error {
		p, err := dataprocessing.LoadPersonTable(s.config.PersonsFile)
		if err != nil {
			return fmt.Errorf("person table: %w", err)
		}
		state.Persons = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "reference tables loaded",
		slog.Int("institutions", state.Institutions.Len()),
		slog.Int("persons", state.Persons.Len()),
		slog.Int("duplicate_keys", state.Persons.DuplicateKeys),
		slog.Int("invalid_ids", state.Persons.InvalidIDs))
	return nil
}

// LoadStage discovers roster files and normalizes them in parallel
type LoadStage struct {
	BaseStage
	config *Config
	logger *slog.Logger
}

// NewLoadStage creates the roster loading stage
func NewLoadStage(cfg *Config, logger *slog.Logger) *LoadStage {
	return &LoadStage{
		BaseStage: NewBaseStage(StageIDLoad, StageNameLoad),
		config:    cfg,
		logger:    logger.With(slog.String("stage", StageIDLoad)),
	}
}

// Execute reads and normalizes every roster. Results keep the file order
// regardless of which worker finishes first.
func (s *LoadStage) Execute(ctx context.Context, state *OperationState) error {
	if state.Institutions == nil {
		return NewInvalidStateError(s.ID(), "institution map not loaded")
	}

	rosters, err := files.NewDiscovery("").FindRosterFiles(s.config.SourceDir)
	if err != nil {
		return errors.NewStorageError("failed to list roster files", err)
	}
	if len(rosters) == 0 {
		return errors.NewNotFoundError("roster files in " + s.config.SourceDir)
	}
	state.RosterFiles = rosters

	normalizer := dataprocessing.NewNormalizer(s.logger, s.config.Normalizer, state.Institutions)
	results := make([]*dataprocessing.NormalizedFile, len(rosters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.workers())
	for i, f := range rosters {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			table, err := dataprocessing.ReadTable(f.Path)
			if err != nil {
				return err
			}
			nf, err := normalizer.Normalize(gctx, f.Tag, table)
			if err != nil {
				return fmt.Errorf("%s: %w", f.Name, err)
			}
			results[i] = nf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	state.Normalized = results

	s.logger.InfoContext(ctx, "rosters loaded",
		slog.Int("files", len(results)),
		slog.Int("workers", s.config.workers()))
	return nil
}

// MatchStage splits normalized rows by whether their identity key is known
type MatchStage struct {
	BaseStage
	logger *slog.Logger
}

// NewMatchStage creates the matching stage
func NewMatchStage(logger *slog.Logger) *MatchStage {
	return &MatchStage{
		BaseStage: NewBaseStage(StageIDMatch, StageNameMatch),
		logger:    logger.With(slog.String("stage", StageIDMatch)),
	}
}

// Execute matches every normalized file against the person table
func (s *MatchStage) Execute(ctx context.Context, state *OperationState) error {
	if state.Persons == nil {
		return NewInvalidStateError(s.ID(), "person table not loaded")
	}

	matcher := dataprocessing.NewMatcher(s.logger, state.Persons)
	state.Matched = make([]*dataprocessing.MatchResult, 0, len(state.Normalized))
	for _, nf := range state.Normalized {
		if err := ctx.Err(); err != nil {
			return err
		}
		state.Matched = append(state.Matched, matcher.Match(ctx, nf))
	}
	return nil
}

// AggregateStage folds the match results into the panel
type AggregateStage struct {
	BaseStage
	config *Config
	logger *slog.Logger
}

// NewAggregateStage creates the aggregation stage
func NewAggregateStage(cfg *Config, logger *slog.Logger) *AggregateStage {
	return &AggregateStage{
		BaseStage: NewBaseStage(StageIDAggregate, StageNameAggregate),
		config:    cfg,
		logger:    logger.With(slog.String("stage", StageIDAggregate)),
	}
}

// Execute builds the panel and the deduplicated unmatched list
func (s *AggregateStage) Execute(ctx context.Context, state *OperationState) error {
	agg := dataprocessing.NewAggregator(s.logger, s.config.Layout)
	for _, res := range state.Matched {
		agg.Add(res)
	}
	state.Panel, state.AggregateStats = agg.Build(ctx, state.Persons)
	state.Unmatched = agg.Unmatched()
	return nil
}

// ExportStage writes the panel, the maintenance file and the optional workbook
type ExportStage struct {
	BaseStage
	config *Config
	logger *slog.Logger
}

// NewExportStage creates the output stage
func NewExportStage(cfg *Config, logger *slog.Logger) *ExportStage {
	return &ExportStage{
		BaseStage: NewBaseStage(StageIDExport, StageNameExport),
		config:    cfg,
		logger:    logger.With(slog.String("stage", StageIDExport)),
	}
}

// Execute writes every output. In dry-run mode the files are produced and
// discarded.
func (s *ExportStage) Execute(ctx context.Context, state *OperationState) error {
	if state.Panel == nil {
		return NewInvalidStateError(s.ID(), "panel not built")
	}

	e := exporter.NewPanelExporter(s.logger, files.NewManager(s.config.DryRun))
	e.BOMPrefix = s.config.ExcelBOM

	if err := e.WritePanel(ctx, s.config.TargetFile, state.Panel); err != nil {
		return err
	}
	state.Outputs = append(state.Outputs, s.config.TargetFile)

	if err := e.WriteMaintenance(ctx, s.config.UnmappedFile, state.Unmatched); err != nil {
		return err
	}
	state.Outputs = append(state.Outputs, s.config.UnmappedFile)

	if s.config.XLSXFile != "" {
		if err := e.WritePanelXLSX(ctx, s.config.XLSXFile, state.Panel); err != nil {
			return err
		}
		state.Outputs = append(state.Outputs, s.config.XLSXFile)
	}

	s.logger.InfoContext(ctx, "outputs written",
		slog.Int("files", len(state.Outputs)),
		slog.Bool("dry_run", s.config.DryRun))
	return nil
}

// ReportStage prints the run summary and records the run metrics
type ReportStage struct {
	BaseStage
	config  *Config
	logger  *slog.Logger
	metrics *infrastructure.RunMetrics
}

// NewReportStage creates the report stage. metrics may be nil.
func NewReportStage(cfg *Config, logger *slog.Logger, metrics *infrastructure.RunMetrics) *ReportStage {
	return &ReportStage{
		BaseStage: NewBaseStage(StageIDReport, StageNameReport),
		config:    cfg,
		logger:    logger.With(slog.String("stage", StageIDReport)),
		metrics:   metrics,
	}
}

// Execute builds the summary, prints it and records it as metrics
func (s *ReportStage) Execute(ctx context.Context, state *OperationState) error {
	state.Summary = BuildSummary(state)

	out := s.config.Report
	if out == nil {
		out = os.Stdout
	}
	exporter.NewReporter(out, s.config.UnmappedLimit).Report(state.Summary)

	for _, f := range state.Summary.Files {
		infrastructure.RecordFileMetrics(ctx, s.metrics, f)
	}
	infrastructure.RecordSummaryMetrics(ctx, s.metrics, state.Summary)

	stats := state.Summary.Stats()
	s.logger.InfoContext(ctx, "run summary",
		slog.Int("N_of_Hasselback_fac_scopus", stats["N_of_Hasselback_fac_scopus"]),
		slog.Int("N_of_Hasselback_dep_scopus", stats["N_of_Hasselback_dep_scopus"]),
		slog.Int("N_of_Hasselback_fac", stats["N_of_Hasselback_fac"]),
		slog.Int("N_of_Hasselback_dep", stats["N_of_Hasselback_dep"]),
		slog.Int("unmapped_institutions", len(state.Summary.UnmappedInstitutions)))
	return nil
}
