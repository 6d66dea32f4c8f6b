package hooks_test

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samialtum/resxgen/internal/cli/hooks"
	"github.com/samialtum/resxgen/pkg/generator"
)

// A live Bubble Tea program must be usable as the TUI sink directly.
var _ hooks.TUIProgram = (*tea.Program)(nil)

// recordingProgram captures messages sent to the TUI.
type recordingProgram struct {
	msgs []tea.Msg
}

func (r *recordingProgram) Send(msg tea.Msg) { r.msgs = append(r.msgs, msg) }

// recordingBar captures progress bar interactions.
type recordingBar struct {
	added  int
	closed bool
}

func (r *recordingBar) Add(num int) error           { r.added += num; return nil }
func (r *recordingBar) Describe(description string) {}
func (r *recordingBar) Close() error                { r.closed = true; return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCLIHooksTUIModeForwardsMessages(t *testing.T) {
	prog := &recordingProgram{}
	h := hooks.NewCLIHooks(discardLogger(), true, false, prog, nil)

	require.NoError(t, h.OnFileDiscovered("a/b.resx"))
	require.NoError(t, h.OnFileStatusUpdate("a/b.resx", generator.StatusConverted, "", 5*time.Millisecond))
	require.NoError(t, h.OnRunComplete(generator.Report{}))

	require.Len(t, prog.msgs, 3)
	discovered, ok := prog.msgs[0].(hooks.FileDiscoveredMsg)
	require.True(t, ok)
	assert.Equal(t, "a/b.resx", discovered.Path)

	update, ok := prog.msgs[1].(hooks.FileStatusUpdateMsg)
	require.True(t, ok)
	assert.Equal(t, generator.StatusConverted, update.Status)
	assert.Equal(t, 5*time.Millisecond, update.Duration)

	_, ok = prog.msgs[2].(hooks.RunCompleteMsg)
	assert.True(t, ok)
}

func TestCLIHooksProgressBarCountsFinalStates(t *testing.T) {
	bar := &recordingBar{}
	h := hooks.NewCLIHooks(discardLogger(), false, false, nil, bar)

	require.NoError(t, h.OnFileStatusUpdate("a.resx", generator.StatusProcessing, "", 0))
	assert.Equal(t, 0, bar.added, "non-final states must not advance the bar")

	require.NoError(t, h.OnFileStatusUpdate("a.resx", generator.StatusConverted, "", 0))
	require.NoError(t, h.OnFileStatusUpdate("b.resx", generator.StatusUnchanged, "", 0))
	require.NoError(t, h.OnFileStatusUpdate("c.resx", generator.StatusFailed, "boom", 0))
	assert.Equal(t, 3, bar.added)

	require.NoError(t, h.OnRunComplete(generator.Report{}))
	assert.True(t, bar.closed)
}

func TestCLIHooksVerboseModeLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := hooks.NewCLIHooks(logger, false, true, nil, nil)

	require.NoError(t, h.OnFileDiscovered("x.resx"))
	require.NoError(t, h.OnFileStatusUpdate("x.resx", generator.StatusFailed, "bad xml", time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "File discovered")
	assert.Contains(t, out, "File processing failed")
	assert.Contains(t, out, "bad xml")
}

func TestCLIHooksPlainModeLogsOnlyFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := hooks.NewCLIHooks(logger, false, false, nil, nil)

	require.NoError(t, h.OnFileDiscovered("x.resx"))
	require.NoError(t, h.OnFileStatusUpdate("x.resx", generator.StatusConverted, "", 0))
	assert.Empty(t, buf.String())

	require.NoError(t, h.OnFileStatusUpdate("y.resx", generator.StatusFailed, "oops", 0))
	assert.Contains(t, buf.String(), "oops")
}
