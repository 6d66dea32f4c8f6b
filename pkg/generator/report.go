package generator

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Report summarizes the result of a single Generate run.
type Report struct {
	Summary   RunSummary  `json:"summary" yaml:"summary"`
	Converted []FileInfo  `json:"convertedFiles" yaml:"convertedFiles"`
	Unchanged []FileInfo  `json:"unchangedFiles" yaml:"unchangedFiles"`
	Failed    []ErrorInfo `json:"failedFiles" yaml:"failedFiles"`
}

// RunSummary contains aggregated statistics for a Generate run. Counters are
// reset at the start of each run; no state persists across runs apart from the
// generated files themselves.
type RunSummary struct {
	InputDir           string    `json:"inputDir" yaml:"inputDir"`
	Namespace          string    `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	MatchPattern       string    `json:"matchPattern" yaml:"matchPattern"`
	ProfileUsed        string    `json:"profileUsed,omitempty" yaml:"profileUsed,omitempty"`
	ConfigFilePath     string    `json:"configFilePath,omitempty" yaml:"configFilePath,omitempty"`
	ProcessedCount     int       `json:"processedCount" yaml:"processedCount"`
	ConvertedCount     int       `json:"convertedCount" yaml:"convertedCount"`
	UnchangedCount     int       `json:"unchangedCount" yaml:"unchangedCount"`
	FailedCount        int       `json:"failedCount" yaml:"failedCount"`
	FatalErrorOccurred bool      `json:"fatalError" yaml:"fatalError"`
	DryRun             bool      `json:"dryRun" yaml:"dryRun"`
	DurationSeconds    float64   `json:"durationSeconds" yaml:"durationSeconds"`
	Timestamp          time.Time `json:"timestamp" yaml:"timestamp"`
	SchemaVersion      string    `json:"schemaVersion,omitempty" yaml:"schemaVersion,omitempty"`
}

// Succeeded reports the run's overall result: success means either zero
// matching files were found or every matched file converted or was unchanged.
func (s RunSummary) Succeeded() bool {
	return s.FailedCount == 0 && !s.FatalErrorOccurred
}

// FileInfo details a single file that was converted or found unchanged.
type FileInfo struct {
	Path       string `json:"path" yaml:"path"`
	OutputPath string `json:"outputPath" yaml:"outputPath"`
	SizeBytes  int64  `json:"sizeBytes" yaml:"sizeBytes"`
	DurationMs int64  `json:"durationMs" yaml:"durationMs"`
}

// ErrorInfo details a per-file conversion failure.
type ErrorInfo struct {
	Path    string `json:"path" yaml:"path"`
	Error   string `json:"error" yaml:"error"`
	IsFatal bool   `json:"isFatal" yaml:"isFatal"`
}

// Render writes the report to w in the requested format.
func (r Report) Render(w io.Writer, format OutputFormat) error {
	switch format {
	case OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode JSON report: %w", err)
		}
		return nil
	case OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode YAML report: %w", err)
		}
		return nil
	default:
		return r.renderText(w)
	}
}

// renderText produces the human-readable summary, including the failure detail
// lines and the closing success or failure banner.
func (r Report) renderText(w io.Writer) error {
	s := r.Summary
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if s.ProcessedCount == 0 {
		fmt.Fprintf(w, "No files matching %q found under %s\n", s.MatchPattern, s.InputDir)
	} else {
		fmt.Fprintf(w, "Processed %d file(s): %d converted, %d unchanged, %d failed (%.2fs)\n",
			s.ProcessedCount, s.ConvertedCount, s.UnchangedCount, s.FailedCount, s.DurationSeconds)
		for _, f := range r.Failed {
			fmt.Fprintf(w, "  FAILED %s: %s\n", f.Path, f.Error)
		}
	}
	if s.DryRun {
		fmt.Fprintln(w, "Dry run: no files were written.")
	}
	if s.Succeeded() {
		fmt.Fprintln(w, "Resource generation succeeded.")
	} else {
		fmt.Fprintln(w, "Resource generation FAILED.")
	}
	_, err := fmt.Fprintln(w)
	return err
}
