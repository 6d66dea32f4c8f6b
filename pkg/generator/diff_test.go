package generator_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samialtum/resxgen/pkg/generator"
)

func TestDiffCheckerHasChangedMissingFile(t *testing.T) {
	d := generator.NewDiffChecker(nil)
	target := filepath.Join(t.TempDir(), "Resources.Designer.cs")

	changed, err := d.HasChanged(target, []byte("new content"))
	require.NoError(t, err)
	assert.True(t, changed, "a missing target must require a write")
}

func TestDiffCheckerHasChangedIdenticalContent(t *testing.T) {
	d := generator.NewDiffChecker(nil)
	target := filepath.Join(t.TempDir(), "Resources.Designer.cs")
	content := []byte("namespace App {}\n")
	require.NoError(t, os.WriteFile(target, content, 0644))

	changed, err := d.HasChanged(target, content)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestDiffCheckerHasChangedDifferentContent(t *testing.T) {
	d := generator.NewDiffChecker(nil)
	target := filepath.Join(t.TempDir(), "Resources.Designer.cs")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0644))

	changed, err := d.HasChanged(target, []byte("new"))
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestDiffCheckerHasChangedByteForByte(t *testing.T) {
	// Line endings are significant: CRLF vs LF content must count as changed.
	d := generator.NewDiffChecker(nil)
	target := filepath.Join(t.TempDir(), "Resources.Designer.cs")
	require.NoError(t, os.WriteFile(target, []byte("line1\r\nline2\r\n"), 0644))

	changed, err := d.HasChanged(target, []byte("line1\nline2\n"))
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestDiffCheckerHasChangedReadError(t *testing.T) {
	// Reading a directory fails with something other than ErrNotExist; the
	// failure must surface instead of being classified as changed/unchanged.
	d := generator.NewDiffChecker(nil)
	dir := t.TempDir()

	_, err := d.HasChanged(dir, []byte("content"))
	require.Error(t, err)
	assert.ErrorIs(t, err, generator.ErrReadFailed)
}

func TestDiffCheckerPreview(t *testing.T) {
	d := generator.NewDiffChecker(nil)
	preview := d.Preview("unchanged\nremoved line\n", "unchanged\nadded line\n")

	assert.Contains(t, preview, "-removed line")
	assert.Contains(t, preview, "+added line")
	assert.NotContains(t, preview, "unchanged\n+")
}

func TestDiffCheckerPreviewTruncated(t *testing.T) {
	d := generator.NewDiffChecker(nil)
	var sb strings.Builder
	for i := 0; i < 500; i++ {
		sb.WriteString("added line with some padding to grow the preview\n")
	}
	preview := d.Preview("", sb.String())

	assert.Contains(t, preview, "... (truncated)")
	assert.Less(t, len(preview), 4096)
}
