package generator

import "errors"

// --- Exported Error Variables ---
// These errors represent specific categories of issues that might be returned
// directly by Generate or recorded per file in Report.Failed. Library users
// can check against these using errors.Is.

var (
	// ErrConfigValidation indicates that the provided Options failed validation
	// checks performed at engine construction (nil dependencies, invalid modes,
	// bad match pattern). Always returned as a fatal error before any file is
	// processed.
	ErrConfigValidation = errors.New("invalid configuration options provided")

	// ErrMissingInputDir indicates the resolved input directory does not exist.
	// Fatal for the run: zero files processed, zero writes performed.
	ErrMissingInputDir = errors.New("input directory does not exist")

	// ErrConversionFailed indicates the external converter rejected one file.
	// Recovered per file; it is recorded in the report and never aborts the
	// walk unless OnErrorMode is "stop".
	ErrConversionFailed = errors.New("conversion failed")

	// ErrReadFailed indicates a failure to read an existing generated file
	// during the change check. The underlying I/O failure is propagated, never
	// silently treated as "changed" or "unchanged".
	ErrReadFailed = errors.New("failed to read file")

	// ErrMkdirFailed indicates a failure to create an output subdirectory.
	ErrMkdirFailed = errors.New("failed to create output directory")

	// ErrWriteFailed indicates a failure to write generated content to disk.
	ErrWriteFailed = errors.New("failed to write output file")

	// ErrConversionFailures is the run-level error returned by Run when one or
	// more files failed while the rest of the batch was still attempted.
	ErrConversionFailures = errors.New("run finished with conversion failures")
)
