package hooks

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/samialtum/resxgen/pkg/generator"
)

// --- TUI Message Structs ---

// FileDiscoveredMsg signals that a matching file was found by the walker.
type FileDiscoveredMsg struct{ Path string }

// FileStatusUpdateMsg signals a change in a file's processing status.
type FileStatusUpdateMsg struct {
	Path     string
	Status   generator.Status
	Message  string
	Duration time.Duration
}

// RunCompleteMsg signals the completion of the entire generation run.
type RunCompleteMsg struct{ Report generator.Report }

// CLIHooks implements the generator.Hooks interface, bridging library events
// to the CLI's UI layer (TUI, Logger, Progress Bar).
type CLIHooks struct {
	logger         *slog.Logger
	tuiEnabled     bool
	verboseEnabled bool
	tuiProgram     TUIProgram
	progressBar    ProgressBar
	mu             sync.Mutex // Protects concurrent access to progressBar
}

// TUIProgram defines the interface needed to interact with the Bubble Tea
// program. Satisfied by *tea.Program.
type TUIProgram interface {
	Send(msg tea.Msg)
}

// ProgressBar defines the interface needed to interact with the progress bar.
// Satisfied by *progressbar.ProgressBar.
type ProgressBar interface {
	Add(num int) error
	Describe(description string)
	Close() error
}

// NoOpTUIProgram provides a default null implementation.
type NoOpTUIProgram struct{}

// Send implements TUIProgram.
func (n *NoOpTUIProgram) Send(msg tea.Msg) {}

// NewCLIHooks creates a new CLIHooks instance.
// Pass nil for tuiProg or progBar when not applicable.
func NewCLIHooks(logger *slog.Logger, tuiEnabled, verboseEnabled bool, tuiProg TUIProgram, progBar ProgressBar) generator.Hooks {
	if tuiProg == nil {
		tuiProg = &NoOpTUIProgram{}
	}
	return &CLIHooks{
		logger:         logger,
		tuiEnabled:     tuiEnabled,
		verboseEnabled: verboseEnabled,
		tuiProgram:     tuiProg,
		progressBar:    progBar,
	}
}

// OnFileDiscovered handles the event when a matching file is found by the walker.
func (h *CLIHooks) OnFileDiscovered(path string) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(FileDiscoveredMsg{Path: path})
	} else if h.verboseEnabled {
		h.logger.Debug("File discovered", "path", path)
	}
	return nil // Library ignores hook errors
}

// OnFileStatusUpdate handles events when a file's processing status changes.
// This method MUST be thread-safe.
func (h *CLIHooks) OnFileStatusUpdate(path string, status generator.Status, message string, duration time.Duration) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(FileStatusUpdateMsg{
			Path:     path,
			Status:   status,
			Message:  message,
			Duration: duration,
		})
		return nil
	}

	if h.verboseEnabled {
		logLevel := slog.LevelDebug
		logMsg := "File status updated"
		attrs := []any{
			slog.String("path", path),
			slog.String("status", string(status)),
		}
		if duration > 0 {
			attrs = append(attrs, slog.Duration("duration", duration))
		}
		if message != "" {
			logKey := "message"
			if status == generator.StatusFailed {
				logKey = "error"
			}
			attrs = append(attrs, slog.String(logKey, message))
		}

		switch status {
		case generator.StatusConverted, generator.StatusUnchanged, generator.StatusSkipped:
			logLevel = slog.LevelInfo
		case generator.StatusFailed:
			logLevel = slog.LevelError
			logMsg = "File processing failed"
		}
		h.logger.Log(nil, logLevel, logMsg, attrs...)
		return nil
	}

	// Progress Bar Mode (Non-Verbose, TTY)
	if h.progressBar != nil {
		h.mu.Lock()
		defer h.mu.Unlock()

		// Only increment progress bar on final states
		isFinalState := status == generator.StatusConverted ||
			status == generator.StatusUnchanged ||
			status == generator.StatusFailed ||
			status == generator.StatusSkipped

		if isFinalState {
			_ = h.progressBar.Add(1)
		}

		if status == generator.StatusFailed {
			h.logger.Error("File processing failed", "path", path, "error", message)
		}
		return nil
	}

	// Standard Log Mode (Non-Verbose, Non-TTY): only log errors.
	if status == generator.StatusFailed {
		h.logger.Error("File processing failed", "path", path, "error", message)
	}
	return nil
}

// OnRunComplete handles the event when the entire generation run finishes.
// Sends the final report to the TUI or finalizes the progress bar.
func (h *CLIHooks) OnRunComplete(report generator.Report) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(RunCompleteMsg{Report: report})
	} else if h.progressBar != nil {
		h.mu.Lock()
		_ = h.progressBar.Close()
		h.mu.Unlock()
		// Add a newline after the progress bar finishes to prevent prompt overlap.
		_, _ = fmt.Fprintf(os.Stderr, "\n")
	}
	return nil // Library ignores hook errors
}
