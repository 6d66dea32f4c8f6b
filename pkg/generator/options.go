package generator

import (
	"context"
	"log/slog"
	"time"

	"github.com/samialtum/resxgen/pkg/generator/encoding"
)

// ConversionResult is the pair produced by a converter for one source file:
// where the generated source belongs and what it contains. The converter must
// not touch the filesystem; the engine owns all writes.
type ConversionResult struct {
	// OutputPath is the absolute or input-relative path of the generated file.
	OutputPath string
	// Content is the full generated source text, UTF-8.
	Content string
}

// Converter performs the actual transformation from a resource file to
// generated source text. Implementations live outside this package; the CLI
// ships an out-of-process implementation speaking a JSON protocol.
type Converter interface {
	// ConvertFile converts a single resource file. A failure must carry a
	// human-readable message and wrap ErrConversionFailed so the engine can
	// classify it as a per-file error.
	ConvertFile(ctx context.Context, sourcePath, namespace string, internalAccessModifier bool) (ConversionResult, error)
}

// ConverterFunc adapts a plain function to the Converter interface.
type ConverterFunc func(ctx context.Context, sourcePath, namespace string, internalAccessModifier bool) (ConversionResult, error)

// ConvertFile implements the Converter interface.
func (f ConverterFunc) ConvertFile(ctx context.Context, sourcePath, namespace string, internalAccessModifier bool) (ConversionResult, error) {
	return f(ctx, sourcePath, namespace, internalAccessModifier)
}

// Hooks defines callbacks for status updates during a run.
// Implementations must tolerate being called from the engine goroutine only;
// the run itself is sequential.
type Hooks interface {
	OnFileDiscovered(path string) error
	OnFileStatusUpdate(path string, status Status, message string, duration time.Duration) error
	OnRunComplete(report Report) error
}

// NoOpHooks provides a default, do-nothing implementation of the Hooks interface.
type NoOpHooks struct{}

// OnFileDiscovered implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnFileDiscovered(path string) error { return nil }

// OnFileStatusUpdate implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnFileStatusUpdate(path string, status Status, message string, duration time.Duration) error {
	return nil
}

// OnRunComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnRunComplete(report Report) error { return nil }

// Options holds all configuration for a Generate run.
type Options struct {
	// --- Core Inputs ---
	InputDir               string `mapstructure:"inputDir"`               // Root directory to scan; empty or whitespace means the current working directory
	Namespace              string `mapstructure:"namespace"`              // Passed through verbatim to the converter, not validated here
	InternalAccessModifier bool   `mapstructure:"internalAccessModifier"` // Passed through verbatim to the converter

	// --- File Selection ---
	MatchPattern   string   `mapstructure:"match"`  // Glob matched against base names (e.g. "*.resx", "Resources.resx")
	IgnorePatterns []string `mapstructure:"ignore"` // Gitignore-style patterns from config/flags, merged with the ignore file

	// --- Behavior & Control ---
	OnErrorMode OnErrorMode `mapstructure:"onError"` // Behavior on per-file conversion error ("continue", "stop")
	DryRun      bool        `mapstructure:"dryRun"`  // Report what would change without writing
	Verbose     bool        `mapstructure:"verbose"` // Enable debug logging (and change previews)
	TuiEnabled  bool        `mapstructure:"tuiEnabled"`

	// --- Output & Formatting ---
	OutputFormat   OutputFormat `mapstructure:"outputFormat"`   // ("text", "json", "yaml") for the final report
	OutputEncoding string       `mapstructure:"outputEncoding"` // Encoding for generated files ("utf-8", "utf-16le", ...)
	OutputBOM      bool         `mapstructure:"outputBOM"`      // Prepend a byte order mark to generated files

	// --- Converter Process ---
	ConverterCommand []string      `mapstructure:"converterCommand"` // Command + args for the out-of-process converter
	ConverterTimeout time.Duration `mapstructure:"-"`                // Per-file deadline, derived from converterTimeout string

	// --- Application Info (for reporting) ---
	AppVersion     string `mapstructure:"-"`
	ConfigFilePath string `mapstructure:"-"`
	ProfileName    string `mapstructure:"-"`

	// --- Injected Dependencies ---
	EventHooks Hooks            `mapstructure:"-"` // Optional: defaults to NoOpHooks
	Logger     slog.Handler     `mapstructure:"-"` // Required: logging backend
	Converter  Converter        `mapstructure:"-"` // Required: conversion implementation
	Encoder    encoding.Encoder `mapstructure:"-"` // Optional: defaults to a charset encoder for OutputEncoding
}
