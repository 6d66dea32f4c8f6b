package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// maxPreviewRunes caps the size of the change preview logged at debug level.
const maxPreviewRunes = 2048

// DiffChecker decides whether writing new content to a target path is
// necessary. It is read-only: it never creates, deletes, or modifies files.
type DiffChecker struct {
	logger *slog.Logger
}

// NewDiffChecker creates a DiffChecker logging through the given handler.
func NewDiffChecker(loggerHandler slog.Handler) *DiffChecker {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	return &DiffChecker{
		logger: slog.New(loggerHandler).With(slog.String("component", "diff")),
	}
}

// HasChanged reports whether newContent differs from the file at path.
// A missing file counts as changed: the caller should write. The comparison is
// byte-for-byte with no normalization of line endings or encoding. A file that
// exists but cannot be read surfaces the underlying I/O failure to the caller
// rather than being treated as either outcome.
func (d *DiffChecker) HasChanged(path string, newContent []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			d.logger.Debug("Target does not exist, write required", slog.String("path", path))
			return true, nil
		}
		return false, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}
	changed := !bytes.Equal(existing, newContent)
	d.logger.Debug("Compared target content", slog.String("path", path), slog.Bool("changed", changed))
	return changed, nil
}

// Preview renders a compact line-level diff between old and new content for
// debug logging. Output is truncated; it is a human aid, not a patch.
func (d *DiffChecker) Preview(oldContent, newContent string) string {
	dmp := diffmatchpatch.New()
	chars1, chars2, lines := dmp.DiffLinesToChars(oldContent, newContent)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lines)

	var b strings.Builder
	for _, diff := range diffs {
		var prefix string
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(diff.Text, "\n"), "\n") {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteByte('\n')
			if b.Len() > maxPreviewRunes {
				b.WriteString("... (truncated)\n")
				return b.String()
			}
		}
	}
	return b.String()
}
