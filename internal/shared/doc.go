// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides a capturing slog handler and fixture
// writers for roster, person and institution files.
package shared
