package generator_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samialtum/resxgen/internal/testutil"
	"github.com/samialtum/resxgen/pkg/generator"
)

func discardHandler() slog.Handler {
	return slog.NewTextHandler(io.Discard, nil)
}

// runWalker builds a walker for dir and returns matched paths relative to dir.
func runWalker(t *testing.T, dir string, opts generator.Options) []string {
	t.Helper()
	absDir, err := filepath.Abs(dir)
	require.NoError(t, err)
	opts.InputDir = absDir
	if opts.MatchPattern == "" {
		opts.MatchPattern = generator.DefaultMatchPattern
	}
	walker, err := generator.NewWalker(&opts, discardHandler())
	require.NoError(t, err)

	files, err := walker.CollectFiles(context.Background())
	require.NoError(t, err)

	rel := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(absDir, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	return rel
}

func TestWalkerCollectsMatchingFilesSorted(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"zeta/Strings.resx":       "<root/>",
		"alpha/Resources.resx":    "<root/>",
		"Resources.resx":          "<root/>",
		"alpha/Resources.cs":      "// not a resource",
		"alpha/notes.txt":         "text",
		"beta/nested/Other.resx":  "<root/>",
		"beta/nested/Other.resx2": "<root/>",
	})

	got := runWalker(t, dir, generator.Options{})

	assert.Equal(t, []string{
		"Resources.resx",
		"alpha/Resources.resx",
		"beta/nested/Other.resx",
		"zeta/Strings.resx",
	}, got)
}

func TestWalkerCustomMatchPattern(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"Resources.resx":    "<root/>",
		"Resources.de.resx": "<root/>",
		"Other.resx":        "<root/>",
	})

	got := runWalker(t, dir, generator.Options{MatchPattern: "Resources*.resx"})

	assert.Equal(t, []string{"Resources.de.resx", "Resources.resx"}, got)
}

func TestWalkerIgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"src/Resources.resx":          "<root/>",
		"obj/Debug/Generated.resx":    "<root/>",
		"bin/Release/Generated.resx":  "<root/>",
		"src/legacy/Deprecated.resx":  "<root/>",
		"src/nested/obj/Cached.resx":  "<root/>",
		"src/nested/Resources2.resx":  "<root/>",
		"vendor/pkg/Third.resx":       "<root/>",
		"vendor/keep/Important.resx":  "<root/>",
		"toplevel-but-not-really.txt": "text",
	})

	opts := generator.Options{
		IgnorePatterns: []string{
			"obj/",
			"bin/",
			"/vendor/pkg/",
			"src/legacy/*.resx",
		},
	}
	got := runWalker(t, dir, opts)

	assert.Equal(t, []string{
		"src/Resources.resx",
		"src/nested/Resources2.resx",
		"vendor/keep/Important.resx",
	}, got)
}

func TestWalkerIgnoreNegation(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"gen/Skipped.resx": "<root/>",
		"gen/Kept.resx":    "<root/>",
		"Root.resx":        "<root/>",
	})

	opts := generator.Options{
		IgnorePatterns: []string{"gen/*.resx", "!gen/Kept.resx"},
	}
	got := runWalker(t, dir, opts)

	assert.Equal(t, []string{"Root.resx", "gen/Kept.resx"}, got)
}

func TestWalkerIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		generator.IgnoreFileName: "# generated output trees\nobj/\ntmp*.resx\n",
		"Keep.resx":              "<root/>",
		"tmpScratch.resx":        "<root/>",
		"obj/Build.resx":         "<root/>",
	})

	got := runWalker(t, dir, generator.Options{})

	assert.Equal(t, []string{"Keep.resx"}, got)
}

func TestWalkerIgnoreFileInAncestorDirAnchorsPatterns(t *testing.T) {
	// The ignore file lives above the input directory; its patterns are
	// anchored at the ignore file's directory, not the input directory.
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		generator.IgnoreFileName: "/app/legacy/\nscratch/\n",
		"app/Main.resx":          "<root/>",
		"app/legacy/Old.resx":    "<root/>",
		"app/scratch/Tmp.resx":   "<root/>",
		"legacy/Unrelated.resx":  "<root/>", // outside the input dir entirely
	})

	got := runWalker(t, filepath.Join(root, "app"), generator.Options{})

	assert.Equal(t, []string{"Main.resx"}, got)
}

func TestWalkerSkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevation on windows")
	}
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"Real.resx": "<root/>",
	})
	require.NoError(t, os.Symlink(
		filepath.Join(dir, "Real.resx"),
		filepath.Join(dir, "Link.resx")))

	got := runWalker(t, dir, generator.Options{})

	assert.Equal(t, []string{"Real.resx"}, got)
}

func TestWalkerInvalidMatchPattern(t *testing.T) {
	opts := generator.Options{InputDir: t.TempDir(), MatchPattern: "[unclosed"}
	_, err := generator.NewWalker(&opts, discardHandler())
	require.Error(t, err)
	assert.ErrorIs(t, err, generator.ErrConfigValidation)
}

func TestWalkerCancelledContext(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{"A.resx": "<root/>"})

	opts := generator.Options{InputDir: dir, MatchPattern: generator.DefaultMatchPattern}
	walker, err := generator.NewWalker(&opts, discardHandler())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = walker.CollectFiles(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
