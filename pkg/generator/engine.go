package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samialtum/resxgen/pkg/generator/encoding"
)

// Engine orchestrates a single end-to-end run over a directory tree:
// enumerate matched resource files, convert each through the injected
// Converter, write outputs that actually changed, and aggregate a Report.
// A run is sequential and processes files in lexicographic path order.
type Engine struct {
	opts      *Options
	logger    *slog.Logger
	hooks     Hooks
	converter Converter
	encoder   encoding.Encoder
	differ    *DiffChecker
	walker    *Walker
}

// NewEngine validates options, resolves the input directory, and wires
// default dependencies. A missing input directory is a terminal failure here:
// the run performs zero work.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("%w: Logger implementation (slog.Handler) cannot be nil", ErrConfigValidation)
	}
	logger := slog.New(opts.Logger).With(slog.String("component", "engine"))

	if opts.Converter == nil {
		return nil, fmt.Errorf("%w: Converter implementation cannot be nil", ErrConfigValidation)
	}
	if opts.EventHooks == nil {
		opts.EventHooks = &NoOpHooks{}
	}
	if opts.MatchPattern == "" {
		opts.MatchPattern = DefaultMatchPattern
	}
	if opts.OnErrorMode == "" {
		opts.OnErrorMode = DefaultOnErrorMode
	}
	if opts.OnErrorMode != OnErrorContinue && opts.OnErrorMode != OnErrorStop {
		return nil, fmt.Errorf("%w: invalid onError mode %q", ErrConfigValidation, opts.OnErrorMode)
	}

	inputDir, err := ResolveInputDir(opts.InputDir)
	if err != nil {
		return nil, err
	}
	info, statErr := os.Stat(inputDir)
	if statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			logger.Error("Input directory does not exist", slog.String("path", inputDir))
			return nil, fmt.Errorf("%w: %s", ErrMissingInputDir, inputDir)
		}
		return nil, fmt.Errorf("%w: cannot access input directory %q: %w", ErrConfigValidation, inputDir, statErr)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: input path %q is not a directory", ErrConfigValidation, inputDir)
	}
	opts.InputDir = inputDir

	encoder := opts.Encoder
	if encoder == nil {
		encoder, err = encoding.NewCharsetEncoder(opts.OutputEncoding, opts.OutputBOM)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
		}
		logger.Debug("Encoder not provided, using charset encoder", slog.String("encoding", encoder.Name()))
	}

	walker, err := NewWalker(&opts, opts.Logger)
	if err != nil {
		return nil, err
	}

	return &Engine{
		opts:      &opts,
		logger:    logger,
		hooks:     opts.EventHooks,
		converter: opts.Converter,
		encoder:   encoder,
		differ:    NewDiffChecker(opts.Logger),
		walker:    walker,
	}, nil
}

// ResolveInputDir canonicalizes a configured input directory: whitespace is
// trimmed, an empty value means the current working directory, and relative
// paths are resolved against it. An already-absolute path is used as-is.
func ResolveInputDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("%w: cannot determine working directory: %w", ErrConfigValidation, err)
		}
		return cwd, nil
	}
	dir = filepath.FromSlash(dir)
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve input directory %q: %w", ErrConfigValidation, dir, err)
	}
	return abs, nil
}

// Run drives a single run to completion. The returned error is non-nil iff
// the run failed overall: a cancelled walk, or one or more per-file failures.
// Zero matched files is a warning, not a failure.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	e.logger.Info("Starting resource generation run",
		slog.String("inputDir", e.opts.InputDir),
		slog.String("match", e.opts.MatchPattern),
		slog.Bool("dryRun", e.opts.DryRun))

	acc := newRunAccumulator()

	files, walkErr := e.walker.CollectFiles(ctx)
	if walkErr != nil {
		report := acc.report(e.opts, start, true)
		e.completeRun(report)
		return report, walkErr
	}

	var fatal bool
	var fatalErr error
loop:
	for _, absPath := range files {
		select {
		case <-ctx.Done():
			e.logger.Info("Run cancelled", slog.String("reason", ctx.Err().Error()))
			fatal = true
			fatalErr = ctx.Err()
			break loop
		default:
		}

		res := e.processFile(ctx, absPath)
		acc.add(res)
		if hookErr := e.hooks.OnFileStatusUpdate(res.Path, res.Status, res.Detail, res.Duration); hookErr != nil {
			e.logger.Warn("Event hook OnFileStatusUpdate failed",
				slog.String("path", res.Path), slog.String("error", hookErr.Error()))
		}
		if res.Status == StatusFailed && e.opts.OnErrorMode == OnErrorStop {
			e.logger.Error("Stopping run after failure (onError=stop)", slog.String("path", res.Path))
			fatal = true
			fatalErr = fmt.Errorf("%w: %s: %s", ErrConversionFailed, res.Path, res.Detail)
			break loop
		}
	}

	report := acc.report(e.opts, start, fatal)
	summary := report.Summary

	if summary.ProcessedCount == 0 && !fatal {
		e.logger.Warn("No matching files found",
			slog.String("inputDir", e.opts.InputDir),
			slog.String("match", e.opts.MatchPattern))
	} else {
		e.logger.Info("Resource generation run finished",
			slog.Int("processed", summary.ProcessedCount),
			slog.Int("converted", summary.ConvertedCount),
			slog.Int("unchanged", summary.UnchangedCount),
			slog.Int("failed", summary.FailedCount),
			slog.Duration("duration", time.Since(start)))
	}

	e.completeRun(report)

	if fatalErr != nil {
		return report, fatalErr
	}
	if summary.FailedCount > 0 {
		return report, fmt.Errorf("%w: %d of %d file(s) failed",
			ErrConversionFailures, summary.FailedCount, summary.ProcessedCount)
	}
	return report, nil
}

func (e *Engine) completeRun(report Report) {
	if hookErr := e.hooks.OnRunComplete(report); hookErr != nil {
		e.logger.Warn("OnRunComplete hook returned an error", slog.String("error", hookErr.Error()))
	}
}

// --- runAccumulator ---

// runAccumulator collects per-file results for a single run. It is the
// run-scoped replacement for loose counters: the engine threads it through
// the loop explicitly, so no hidden shared state survives the run.
type runAccumulator struct {
	converted []FileInfo
	unchanged []FileInfo
	failed    []ErrorInfo
	processed int
}

func newRunAccumulator() *runAccumulator {
	return &runAccumulator{
		converted: make([]FileInfo, 0, 32),
		unchanged: make([]FileInfo, 0, 32),
		failed:    make([]ErrorInfo, 0, 4),
	}
}

// add records one file outcome. Every outcome increments processed.
func (a *runAccumulator) add(res FileResult) {
	a.processed++
	info := FileInfo{
		Path:       res.Path,
		OutputPath: res.OutputPath,
		SizeBytes:  res.SizeBytes,
		DurationMs: res.Duration.Milliseconds(),
	}
	switch res.Status {
	case StatusConverted:
		a.converted = append(a.converted, info)
	case StatusUnchanged:
		a.unchanged = append(a.unchanged, info)
	case StatusFailed:
		a.failed = append(a.failed, ErrorInfo{Path: res.Path, Error: res.Detail})
	}
}

// report compiles the final Report struct.
func (a *runAccumulator) report(opts *Options, start time.Time, fatal bool) Report {
	failed := make([]ErrorInfo, len(a.failed))
	copy(failed, a.failed)
	if fatal {
		for i := range failed {
			failed[i].IsFatal = true
		}
	}
	converted := make([]FileInfo, len(a.converted))
	copy(converted, a.converted)
	unchanged := make([]FileInfo, len(a.unchanged))
	copy(unchanged, a.unchanged)

	return Report{
		Summary: RunSummary{
			InputDir:           opts.InputDir,
			Namespace:          opts.Namespace,
			MatchPattern:       opts.MatchPattern,
			ProfileUsed:        opts.ProfileName,
			ConfigFilePath:     opts.ConfigFilePath,
			ProcessedCount:     a.processed,
			ConvertedCount:     len(a.converted),
			UnchangedCount:     len(a.unchanged),
			FailedCount:        len(a.failed),
			FatalErrorOccurred: fatal,
			DryRun:             opts.DryRun,
			DurationSeconds:    time.Since(start).Seconds(),
			Timestamp:          time.Now().UTC(),
			SchemaVersion:      ReportSchemaVersion,
		},
		Converted: converted,
		Unchanged: unchanged,
		Failed:    failed,
	}
}
