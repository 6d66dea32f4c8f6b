package generator

import (
	"context"
	"fmt"
	"log/slog"
)

// Generate is the main entry point for the core generation library. It
// validates the options, builds an Engine, and runs it to completion. The
// returned Report is always meaningful; the error is non-nil iff the run
// failed overall (missing input directory, cancelled walk, or per-file
// conversion failures).
func Generate(ctx context.Context, opts Options) (Report, error) {
	if opts.Logger == nil {
		return Report{}, fmt.Errorf("%w: Logger implementation cannot be nil", ErrConfigValidation)
	}
	logger := slog.New(opts.Logger)

	engine, err := NewEngine(opts)
	if err != nil {
		logger.Error("Engine initialization failed", slog.String("error", err.Error()))
		return Report{}, err
	}
	return engine.Run(ctx)
}
