package domain

// DropCounts tallies rows removed while normalizing one source file.
type DropCounts struct {
	MissingInstitution  int `json:"missing_institution"`
	Degree              int `json:"degree"`
	Rank                int `json:"rank"`
	Annotation          int `json:"annotation"`
	UnmappedInstitution int `json:"unmapped_institution"`
}

// Total returns the number of dropped rows.
func (d DropCounts) Total() int {
	return d.MissingInstitution + d.Degree + d.Rank + d.Annotation + d.UnmappedInstitution
}

// ByReason returns the counts keyed by drop reason.
func (d DropCounts) ByReason() map[string]int {
	return map[string]int{
		"missing_institution":  d.MissingInstitution,
		"degree":               d.Degree,
		"rank":                 d.Rank,
		"annotation":           d.Annotation,
		"unmapped_institution": d.UnmappedInstitution,
	}
}

// Add accumulates other into d.
func (d *DropCounts) Add(other DropCounts) {
	d.MissingInstitution += other.MissingInstitution
	d.Degree += other.Degree
	d.Rank += other.Rank
	d.Annotation += other.Annotation
	d.UnmappedInstitution += other.UnmappedInstitution
}

// FileSummary describes the outcome of processing one source file.
type FileSummary struct {
	Tag          SourceTag  `json:"tag"`
	RowsRead     int        `json:"rows_read"`
	Drops        DropCounts `json:"drops"`
	Identified   int        `json:"identified"`
	Unidentified int        `json:"unidentified"`
}

// InstitutionCount is a raw institution name and how often it appeared.
type InstitutionCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RunSummary holds the statistics printed at the end of a run.
type RunSummary struct {
	Files                    []FileSummary      `json:"files"`
	MatchedPeople            int                `json:"matched_people"`
	PanelColumns             int                `json:"panel_columns"`
	MatchedInstitutions      int                `json:"matched_institutions"`
	UnmatchedPeople          int                `json:"unmatched_people"`
	UnmatchedInstitutions    int                `json:"unmatched_institutions"`
	TotalPeople              int                `json:"total_people"`
	TotalInstitutions        int                `json:"total_institutions"`
	DuplicateRows            int                `json:"duplicate_rows"`
	SimultaneousAffiliations int                `json:"simultaneous_affiliations"`
	UnmappedInstitutions     []InstitutionCount `json:"unmapped_institutions"`
	// NaNKeys counts unidentified rows whose identity key has a literal "nan" part.
	NaNKeys                  int                `json:"nan_keys"`
}

// Stats returns the key/value block printed for the curation log.
func (s RunSummary) Stats() map[string]int {
	return map[string]int{
		"N_of_Hasselback_fac_scopus": s.MatchedPeople,
		"N_of_Hasselback_dep_scopus": s.MatchedInstitutions,
		"N_of_Hasselback_fac":        s.TotalPeople,
		"N_of_Hasselback_dep":        s.TotalInstitutions,
	}
}
