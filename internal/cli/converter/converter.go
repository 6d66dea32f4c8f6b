// Package converter provides the out-of-process implementation of
// generator.Converter. The actual resx parsing and source emission live in an
// external converter executable; this package owns the JSON protocol spoken
// with it over stdin/stdout and validates what comes back.
package converter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/samialtum/resxgen/pkg/generator"
)

const (
	// maxLogOutputBytes limits the size of stdout captured in logs on JSON errors.
	maxLogOutputBytes = 1024
	// maxConverterOutputBytes caps stdout/stderr capture so a rogue converter
	// cannot exhaust memory.
	maxConverterOutputBytes = 64 * 1024 * 1024
)

// outputSchema is the JSON Schema every converter response must satisfy
// before it is unmarshalled. Keep in sync with converterOutput.
const outputSchema = `{
  "type": "object",
  "required": ["$schemaVersion", "outputPath", "content"],
  "properties": {
    "$schemaVersion": {"type": "string"},
    "outputPath": {"type": "string"},
    "content": {"type": "string"},
    "error": {"type": "string"}
  }
}`

// converterInput is the structure sent TO the converter via JSON stdin.
type converterInput struct {
	SchemaVersion          string `json:"$schemaVersion"`
	SourcePath             string `json:"sourcePath"`
	Namespace              string `json:"namespace,omitempty"`
	InternalAccessModifier bool   `json:"internalAccessModifier"`
}

// converterOutput is the structure expected FROM the converter via JSON stdout.
type converterOutput struct {
	SchemaVersion string `json:"$schemaVersion"`
	OutputPath    string `json:"outputPath"`
	Content       string `json:"content"`
	Error         string `json:"error,omitempty"`
}

// execConverter implements generator.Converter by running an external command
// once per file.
type execConverter struct {
	logger  *slog.Logger
	command []string
	schema  *gojsonschema.Schema
}

// NewExecConverter creates a converter that executes the given command per
// file. The command receives a JSON document on stdin and must print a JSON
// document to stdout; it must not write any files itself.
func NewExecConverter(loggerHandler slog.Handler, command []string) (generator.Converter, error) {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	if len(command) == 0 {
		return nil, fmt.Errorf("%w: converter command cannot be empty", generator.ErrConfigValidation)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(outputSchema))
	if err != nil {
		return nil, fmt.Errorf("internal error: compiling converter output schema: %w", err)
	}
	logger := slog.New(loggerHandler).With(slog.String("component", "converter"))
	return &execConverter{logger: logger, command: command, schema: schema}, nil
}

// ConvertFile implements the generator.Converter interface.
func (c *execConverter) ConvertFile(ctx context.Context, sourcePath, namespace string, internalAccessModifier bool) (generator.ConversionResult, error) {
	logArgs := []any{
		slog.String("path", sourcePath),
		slog.String("command", c.command[0]),
	}

	input := converterInput{
		SchemaVersion:          generator.ConverterSchemaVersion,
		SourcePath:             sourcePath,
		Namespace:              namespace,
		InternalAccessModifier: internalAccessModifier,
	}
	inputJSON, marshalErr := json.Marshal(input)
	if marshalErr != nil {
		c.logger.Error("Failed to marshal converter input", append(logArgs, slog.Any("error", marshalErr))...)
		return generator.ConversionResult{}, fmt.Errorf("failed to marshal converter input for %q: %w", sourcePath, marshalErr)
	}

	cmd := exec.CommandContext(ctx, c.command[0], c.command[1:]...)
	// Without a wait delay, Run blocks until every descendant holding the
	// stdout/stderr pipes exits, even after the direct child is killed on
	// context cancellation.
	cmd.WaitDelay = time.Second
	cmd.Stdin = bytes.NewReader(inputJSON)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitedWriter{w: &stdout, limit: maxConverterOutputBytes}
	cmd.Stderr = &limitedWriter{w: &stderr, limit: maxConverterOutputBytes}

	start := time.Now()
	runErr := cmd.Run()
	stderrString := strings.TrimSpace(stderr.String())
	if stderrString != "" {
		logArgs = append(logArgs, slog.String("converter_stderr", stderrString))
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		c.logger.Error("Converter execution cancelled or timed out", append(logArgs, slog.Any("error", ctxErr))...)
		return generator.ConversionResult{}, fmt.Errorf("converter cancelled or timed out for %q: %w", sourcePath, ctxErr)
	}
	if runErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		c.logger.Error("Converter execution failed",
			append(logArgs, slog.Int("exitCode", exitCode), slog.Any("error", runErr))...)
		detail := stderrString
		if detail == "" {
			detail = runErr.Error()
		}
		return generator.ConversionResult{}, fmt.Errorf("converter exited with code %d for %q: %s", exitCode, sourcePath, detail)
	}

	stdoutData := stdout.Bytes()
	if len(stdoutData) == 0 {
		c.logger.Error("Converter returned empty output", logArgs...)
		return generator.ConversionResult{}, fmt.Errorf("converter returned empty stdout for %q", sourcePath)
	}

	if result, schemaErr := c.schema.Validate(gojsonschema.NewBytesLoader(stdoutData)); schemaErr != nil || !result.Valid() {
		detail := "invalid JSON document"
		if schemaErr == nil {
			problems := make([]string, 0, len(result.Errors()))
			for _, e := range result.Errors() {
				problems = append(problems, e.String())
			}
			detail = strings.Join(problems, "; ")
		}
		logStdout := string(stdoutData)
		if len(logStdout) > maxLogOutputBytes {
			logStdout = logStdout[:maxLogOutputBytes] + "... (truncated)"
		}
		c.logger.Error("Converter output failed schema validation",
			append(logArgs, slog.String("detail", detail), slog.String("stdout_prefix", logStdout))...)
		return generator.ConversionResult{}, fmt.Errorf("converter output for %q failed schema validation: %s", sourcePath, detail)
	}

	var output converterOutput
	if unmarshalErr := json.Unmarshal(stdoutData, &output); unmarshalErr != nil {
		c.logger.Error("Failed to unmarshal converter output", append(logArgs, slog.Any("error", unmarshalErr))...)
		return generator.ConversionResult{}, fmt.Errorf("failed to unmarshal converter output for %q: %w", sourcePath, unmarshalErr)
	}
	if output.SchemaVersion != generator.ConverterSchemaVersion {
		c.logger.Error("Converter schema version mismatch",
			append(logArgs, slog.String("got", output.SchemaVersion), slog.String("want", generator.ConverterSchemaVersion))...)
		return generator.ConversionResult{}, fmt.Errorf("converter uses incompatible schema version %q, expected %q",
			output.SchemaVersion, generator.ConverterSchemaVersion)
	}
	if output.Error != "" {
		c.logger.Error("Converter reported conversion error", append(logArgs, slog.String("converter_error", output.Error))...)
		return generator.ConversionResult{}, errors.New(output.Error)
	}

	c.logger.Debug("Converter finished", append(logArgs, slog.Duration("duration", time.Since(start)))...)
	return generator.ConversionResult{OutputPath: output.OutputPath, Content: output.Content}, nil
}

// limitedWriter discards bytes beyond limit while still accepting writes, so
// the converter process never blocks on a full pipe.
type limitedWriter struct {
	w     io.Writer
	n     int64
	limit int64
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	total := len(p)
	if lw.n >= lw.limit {
		return total, nil
	}
	if lw.n+int64(len(p)) > lw.limit {
		p = p[:lw.limit-lw.n]
	}
	written, err := lw.w.Write(p)
	lw.n += int64(written)
	if err != nil {
		return written, err
	}
	return total, nil
}
