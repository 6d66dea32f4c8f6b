package generator

// Status defines the possible processing states of a resource file during a run.
type Status string

// Constants representing the defined file processing statuses.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusConverted  Status = "converted"
	StatusUnchanged  Status = "unchanged"
	StatusFailed     Status = "failed"
	StatusSkipped    Status = "skipped"
)

// OnErrorMode defines the behavior when a single file fails conversion.
type OnErrorMode string

const (
	OnErrorContinue OnErrorMode = "continue"
	OnErrorStop     OnErrorMode = "stop"
)

// OutputFormat defines the format for the final summary report printed to standard output.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)
