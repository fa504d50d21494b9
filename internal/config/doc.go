// Package config loads the run configuration of facultypanel.
//
// # Configuration Sources
//
// Values are applied in the following order, later sources winning:
//
//	1. Default values
//	2. facultypanel.yaml (working directory, configs/, or FACULTY_CONFIG)
//	3. Environment variables
//	4. Command line flags, applied by cmd/facultypanel
//
// # Environment Variables
//
// All environment variables follow the pattern FACULTY_<SECTION>_<FIELD>:
//
//	FACULTY_PATHS_SOURCE_DIR=./source_files/
//	FACULTY_PROCESSING_LAYOUT=panel
//	FACULTY_PROCESSING_DEGREES=PHD,DBA
//	FACULTY_LOGGING_LEVEL=debug
//
// # Validation
//
// Validate checks the struct tags with go-playground/validator: the layout
// is yearly or panel, all input and output paths are set, at least one
// degree is kept and the worker count is positive.
package config
