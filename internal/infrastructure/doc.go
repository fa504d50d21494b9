// Package infrastructure provides the logging, run identification,
// tracing and metrics plumbing shared by the facultypanel pipeline.
package infrastructure
