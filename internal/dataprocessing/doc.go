// Package dataprocessing turns yearly faculty rosters into rows keyed by a
// canonical researcher identifier.
//
// The stages are kept separate so each can be tested on its own:
//
//	ReadTable        CSV or XLSX file -> Table
//	Normalizer       Table -> filtered rows with identity keys and canonical institutions
//	Matcher          rows -> identified (scopus_id) and unidentified records
//	Aggregator       fold of all files into one wide Panel plus the maintenance list
//
// Reference data (InstitutionMap, PersonTable) is loaded once and never
// modified after construction, so a Normalizer can be shared by goroutines
// parsing different files.
package dataprocessing
