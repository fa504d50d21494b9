// Package operations runs the panel build as a fixed sequence of stages.
//
// A run loads the reference tables, normalizes every roster file in
// parallel, matches rows to canonical identifiers, folds them into the
// panel, writes the outputs and prints the summary. Stages exchange data
// through OperationState; the Manager runs them in registration order,
// wraps each in a trace span and records its duration.
package operations
