// Package cli wires the validated configuration to the generator library and
// the chosen user interface (TUI, progress bar or plain logs).
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	cliconverter "github.com/samialtum/resxgen/internal/cli/converter"
	"github.com/samialtum/resxgen/internal/cli/hooks"
	"github.com/samialtum/resxgen/internal/cli/ui"
	"github.com/samialtum/resxgen/pkg/generator"
)

// Run orchestrates the main application logic after configuration loading.
// It receives the application context, validated options, and the logger.
func Run(ctx context.Context, opts generator.Options, logger *slog.Logger) error {
	if opts.Converter == nil {
		if len(opts.ConverterCommand) == 0 {
			err := fmt.Errorf("%w: a converter command is required (--converter-cmd or converterCommand config key)", generator.ErrConfigValidation)
			logger.Error(err.Error())
			return err
		}
		conv, err := cliconverter.NewExecConverter(opts.Logger, opts.ConverterCommand)
		if err != nil {
			logger.Error("Failed to create converter", slog.Any("error", err))
			return err
		}
		opts.Converter = conv
	}

	isTTY := term.IsTerminal(int(os.Stderr.Fd()))
	tuiActive := opts.TuiEnabled && !opts.Verbose && isTTY

	var report generator.Report
	var runErr error

	switch {
	case tuiActive:
		report, runErr = runWithTUI(ctx, opts, logger)
	case isTTY && !opts.Verbose:
		report, runErr = runWithProgressBar(ctx, opts, logger)
	default:
		opts.EventHooks = hooks.NewCLIHooks(logger, false, opts.Verbose, nil, nil)
		report, runErr = generator.Generate(ctx, opts)
	}

	// A failure before the run started (config validation, missing input
	// directory) never produced a report; rendering the zero value would
	// print a success banner next to a non-zero exit. A run that did start
	// always stamps the report schema version.
	if runErr == nil || report.Summary.SchemaVersion != "" {
		if renderErr := report.Render(os.Stdout, opts.OutputFormat); renderErr != nil {
			logger.Error("Failed to render report", slog.Any("error", renderErr))
			if runErr == nil {
				runErr = renderErr
			}
		}
	}

	if runErr != nil {
		if errors.Is(runErr, generator.ErrConversionFailures) {
			logger.Error("Generation completed with failures",
				slog.Int("failed", report.Summary.FailedCount),
				slog.Int("processed", report.Summary.ProcessedCount))
		} else {
			logger.Error("Generation failed", slog.Any("error", runErr))
		}
		return runErr
	}

	logger.Info("Generation finished",
		slog.Int("processed", report.Summary.ProcessedCount),
		slog.Int("converted", report.Summary.ConvertedCount),
		slog.Int("unchanged", report.Summary.UnchangedCount),
	)
	return nil
}

// runWithTUI drives the generation run behind a Bubble Tea program. The
// library run happens in a goroutine; hook events stream into the TUI, which
// quits itself when the run completes.
func runWithTUI(ctx context.Context, opts generator.Options, logger *slog.Logger) (generator.Report, error) {
	model := ui.NewModel(opts.AppVersion)
	program := tea.NewProgram(&model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	opts.EventHooks = hooks.NewCLIHooks(logger, true, opts.Verbose, program, nil)

	type runResult struct {
		report generator.Report
		err    error
	}
	done := make(chan runResult, 1)
	go func() {
		report, err := generator.Generate(ctx, opts)
		done <- runResult{report: report, err: err}
	}()

	if _, teaErr := program.Run(); teaErr != nil {
		logger.Warn("TUI terminated unexpectedly", slog.Any("error", teaErr))
	}
	// The TUI may exit before the run completes (user pressed q). Cancelled
	// context unwinds the generator; wait for its final result either way.
	result := <-done
	return result.report, result.err
}

// runWithProgressBar drives the generation run with a simple progress bar on
// stderr for non-verbose TTY sessions where the TUI is disabled.
func runWithProgressBar(ctx context.Context, opts generator.Options, logger *slog.Logger) (generator.Report, error) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Converting resources..."),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
	)
	opts.EventHooks = hooks.NewCLIHooks(logger, false, opts.Verbose, nil, bar)
	return generator.Generate(ctx, opts)
}
