package generator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// FileResult is the typed outcome of one per-file step. The engine switches
// over Status instead of catching and continuing past errors, which keeps the
// partial-failure policy visible in the type.
type FileResult struct {
	Path       string // relative to the input directory, slash separators
	OutputPath string
	Status     Status
	Detail     string // error detail for failed files, empty otherwise
	SizeBytes  int64
	Duration   time.Duration
}

// processFile runs the full pipeline for one resource file: convert, encode,
// change-check, and write. Every error is folded into a failed FileResult so
// one bad file never stops the batch; the engine decides whether to keep
// going based on OnErrorMode.
func (e *Engine) processFile(ctx context.Context, absPath string) FileResult {
	start := time.Now()
	relPath, err := filepath.Rel(e.opts.InputDir, absPath)
	if err != nil || relPath == "." {
		relPath = filepath.Base(absPath)
	}
	relPath = filepath.ToSlash(relPath)
	res := FileResult{Path: relPath, Status: StatusProcessing}
	logArgs := []any{slog.String("path", relPath)}

	fail := func(err error) FileResult {
		res.Status = StatusFailed
		res.Detail = err.Error()
		res.Duration = time.Since(start)
		e.logger.Error("File processing failed", append(logArgs, slog.String("error", res.Detail))...)
		return res
	}

	if hookErr := e.hooks.OnFileDiscovered(relPath); hookErr != nil {
		e.logger.Warn("Event hook OnFileDiscovered failed", append(logArgs, slog.String("error", hookErr.Error()))...)
	}

	convCtx := ctx
	if e.opts.ConverterTimeout > 0 {
		var cancel context.CancelFunc
		convCtx, cancel = context.WithTimeout(ctx, e.opts.ConverterTimeout)
		defer cancel()
	}
	result, convErr := e.converter.ConvertFile(convCtx, absPath, e.opts.Namespace, e.opts.InternalAccessModifier)
	if convErr != nil {
		return fail(fmt.Errorf("%w: %w", ErrConversionFailed, convErr))
	}
	if result.OutputPath == "" {
		return fail(fmt.Errorf("%w: converter returned an empty output path", ErrConversionFailed))
	}

	outputPath := result.OutputPath
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(e.opts.InputDir, outputPath)
	}
	res.OutputPath = outputPath
	logArgs = append(logArgs, slog.String("output", outputPath))

	encoded, encErr := e.encoder.Encode(result.Content)
	if encErr != nil {
		return fail(encErr)
	}
	res.SizeBytes = int64(len(encoded))

	changed, diffErr := e.differ.HasChanged(outputPath, encoded)
	if diffErr != nil {
		// Unclassified I/O failure on the change check counts against this
		// file only; the rest of the batch is still attempted.
		return fail(diffErr)
	}

	if !changed {
		res.Status = StatusUnchanged
		res.Duration = time.Since(start)
		e.logger.Info("Unchanged", logArgs...)
		return res
	}

	if e.opts.Verbose {
		if old, readErr := os.ReadFile(outputPath); readErr == nil {
			e.logger.Debug("Content change preview",
				append(logArgs, slog.String("diff", e.differ.Preview(string(old), result.Content)))...)
		}
	}

	if !e.opts.DryRun {
		if mkErr := os.MkdirAll(filepath.Dir(outputPath), 0755); mkErr != nil {
			return fail(fmt.Errorf("%w: %s: %w", ErrMkdirFailed, filepath.Dir(outputPath), mkErr))
		}
		if writeErr := os.WriteFile(outputPath, encoded, 0644); writeErr != nil {
			return fail(fmt.Errorf("%w: %s: %w", ErrWriteFailed, outputPath, writeErr))
		}
	}

	res.Status = StatusConverted
	res.Duration = time.Since(start)
	e.logger.Info("Converted", append(logArgs, slog.Bool("dryRun", e.opts.DryRun))...)
	return res
}
