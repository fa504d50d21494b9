// Package files discovers roster files and writes output files.
//
// Discovery finds the .csv and .xlsx rosters in the source directory and
// derives each file's SourceTag from its name:
//
//	1998.csv               listing "1998"
//	1998-99.csv            listing "1998-99", year "1998"
//	2009-10_finance.xlsx   listing "2009-10", category "finance"
//
// Files are returned ordered by listing, then category, then name, which is
// the order the panel is folded in.
//
// Manager writes outputs through a temporary file that is renamed into
// place on Commit, so an aborted run never leaves a half-written panel.
package files
