package dataprocessing

import (
	"context"
	"log/slog"

	"facultypanel/pkg/contracts/domain"
)

// MatchResult splits a normalized file into rows with and without a
// canonical identifier.
type MatchResult struct {
	Tag          domain.SourceTag
	Columns      []string
	Identified   []domain.MatchedRow
	Unidentified []domain.UnmatchedRecord
	// NaNKeys counts unidentified rows with a "nan" key part.
	NaNKeys      int
}

// Matcher joins rows to the person table by identity key.
type Matcher struct {
	logger  *slog.Logger
	persons *PersonTable
}

// NewMatcher creates a matcher over persons.
func NewMatcher(logger *slog.Logger, persons *PersonTable) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{logger: logger, persons: persons}
}

// Match looks up every row of file. Each row matches at most one identifier.
func (m *Matcher) Match(ctx context.Context, file *NormalizedFile) *MatchResult {
	res := &MatchResult{Tag: file.Tag, Columns: file.Columns}
	var nanExample string
	for _, row := range file.Rows {
		if p, ok := m.persons.Match(row.IdentityKey); ok {
			res.Identified = append(res.Identified, domain.MatchedRow{ScopusID: p.ScopusID, Row: row})
			continue
		}
		res.Unidentified = append(res.Unidentified, domain.UnmatchedRecord{
			IdentityKey: row.IdentityKey,
			Institution: row.Institution(),
			Tag:         row.Tag,
		})
		if HasNaNPart(row.IdentityKey) {
			if res.NaNKeys == 0 {
				nanExample = row.IdentityKey
			}
			res.NaNKeys++
		}
	}

	if res.NaNKeys > 0 {
		m.logger.WarnContext(ctx, "unidentified keys contain nan",
			slog.String("file", file.Tag.File),
			slog.Int("count", res.NaNKeys),
			slog.String("example", nanExample))
	}

	m.logger.InfoContext(ctx, "roster matched",
		slog.String("file", file.Tag.File),
		slog.Int("identified", len(res.Identified)),
		slog.Int("unidentified", len(res.Unidentified)))
	return res
}
