package generator

import "time"

// Constants defining default values for configuration options. These are used
// when setting up Viper defaults in the CLI configuration loading process.
const (
	// DefaultMatchPattern selects the resource files converted during a run.
	// Matched against the file's base name only.
	DefaultMatchPattern = "*.resx"
	// DefaultOnErrorMode is the default behavior when one file fails conversion.
	DefaultOnErrorMode = OnErrorContinue
	// DefaultOutputFormat is the default format for the final summary report.
	DefaultOutputFormat = OutputFormatText
	// DefaultOutputEncoding is the text encoding used for generated files.
	DefaultOutputEncoding = "utf-8"
	// DefaultOutputBOM controls whether generated files start with a byte order mark.
	DefaultOutputBOM = false
	// DefaultTuiEnabled is the default state for the Terminal UI.
	DefaultTuiEnabled = true
	// DefaultVerbose is the default state for verbose logging.
	DefaultVerbose = false
	// DefaultDryRun is the default state for write suppression.
	DefaultDryRun = false
	// DefaultConverterTimeoutString is the per-file converter timeout as configured.
	DefaultConverterTimeoutString = "30s"
	// DefaultConverterTimeout is the parsed default per-file converter timeout.
	DefaultConverterTimeout = 30 * time.Second
)

// ConverterSchemaVersion indicates the version of the converter stdin/stdout
// JSON protocol. Converter implementations must echo it back in their output.
const ConverterSchemaVersion = "1.0"

// ReportSchemaVersion indicates the version of the JSON report structure.
const ReportSchemaVersion = "1.0"

// IgnoreFileName is the name of the optional ignore file discovered by walking
// up from the input directory, one pattern per line, gitignore style.
const IgnoreFileName = ".resxgenignore"
