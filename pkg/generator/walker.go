package generator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samialtum/resxgen/pkg/util"
)

// Walker is responsible for traversing the input directory, applying the match
// pattern and ignore rules, and returning the eligible resource file paths.
type Walker struct {
	opts          *Options
	hooks         Hooks
	logger        *slog.Logger
	ignoreMatcher *ignoreMatcher
}

// NewWalker creates a new Walker instance. The match pattern is validated here
// so a malformed glob fails the run before any file is touched.
func NewWalker(opts *Options, loggerHandler slog.Handler) (*Walker, error) {
	logger := slog.New(loggerHandler).With(slog.String("component", "walker"))
	if _, err := filepath.Match(opts.MatchPattern, "probe"); err != nil {
		return nil, fmt.Errorf("%w: invalid match pattern %q: %w", ErrConfigValidation, opts.MatchPattern, err)
	}
	matcher, err := newIgnoreMatcher(opts.InputDir, opts.IgnorePatterns, logger)
	if err != nil {
		logger.Error("Failed to initialize ignore pattern matcher", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to initialize ignore patterns: %w", err)
	}
	logger.Debug("Ignore patterns loaded", slog.Int("count", matcher.patternCount()))
	hooks := opts.EventHooks
	if hooks == nil {
		hooks = &NoOpHooks{}
	}
	return &Walker{
		opts:          opts,
		hooks:         hooks,
		logger:        logger,
		ignoreMatcher: matcher,
	}, nil
}

// CollectFiles walks the input tree and returns the absolute paths of every
// matched resource file, sorted lexicographically. The underlying filesystem
// enumeration order is unspecified, so the sort keeps logs and reports
// reproducible across platforms.
func (w *Walker) CollectFiles(ctx context.Context) ([]string, error) {
	w.logger.Debug("Starting directory walk",
		slog.String("path", w.opts.InputDir),
		slog.String("match", w.opts.MatchPattern))

	var matched []string
	walkErr := filepath.WalkDir(w.opts.InputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("Error accessing path during walk", slog.String("path", path), slog.String("error", err.Error()))
			if path == w.opts.InputDir && os.IsPermission(err) {
				return fmt.Errorf("permission denied reading input directory %q: %w", path, err)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d.Type()&fs.ModeSymlink != 0 {
			w.logger.Debug("Skipping symbolic link", slog.String("path", path))
			return nil
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			w.logger.Warn("Could not get absolute path", slog.String("path", path), slog.String("error", err.Error()))
			return nil
		}
		relPath, err := filepath.Rel(w.opts.InputDir, absPath)
		if err != nil {
			w.logger.Warn("Could not calculate relative path", slog.String("path", absPath), slog.String("error", err.Error()))
			return nil
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == "." {
			return nil
		}
		isDir := d.IsDir()
		if w.ignoreMatcher.Match(relPath, isDir) {
			pattern := w.ignoreMatcher.LastMatchPattern(relPath, isDir)
			w.logger.Debug("Path ignored", slog.String("path", relPath), slog.String("pattern", pattern))
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}
		if isDir {
			return nil
		}
		ok, err := filepath.Match(w.opts.MatchPattern, d.Name())
		if err != nil {
			// Pattern was validated in NewWalker, so this is unreachable in practice.
			return fmt.Errorf("match pattern %q failed: %w", w.opts.MatchPattern, err)
		}
		if !ok {
			return nil
		}
		matched = append(matched, absPath)
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			w.logger.Info("Directory walk cancelled", slog.String("reason", walkErr.Error()))
			return nil, walkErr
		}
		w.logger.Error("Directory walk failed", slog.String("error", walkErr.Error()))
		return nil, fmt.Errorf("directory walk failed: %w", walkErr)
	}

	sort.Strings(matched)
	w.logger.Debug("Directory walk completed", slog.Int("matched", len(matched)))
	return matched, nil
}

// --- ignoreMatcher ---

type ignoreMatcher struct {
	patterns []ignorePattern
	logger   *slog.Logger
}

type ignorePattern struct {
	pattern     string // Cleaned pattern for matching, '/' separators
	origPattern string // Original pattern string for reporting
	basePrefix  string // Input dir relative to the pattern's source dir, '/' separators
	negated     bool
	isDirOnly   bool
	isRooted    bool // Pattern started with '/'
}

// matchPath is the path a pattern is tested against. Patterns from an ignore
// file in an ancestor directory are anchored at that directory, so the walked
// path is rebased onto it before matching.
func (p ignorePattern) matchPath(relPath string) string {
	if p.basePrefix == "" {
		return relPath
	}
	return path.Join(p.basePrefix, relPath)
}

// newIgnoreMatcher builds the matcher from config patterns plus the optional
// ignore file found walking up from the input directory.
func newIgnoreMatcher(inputDir string, configPatterns []string, logger *slog.Logger) (*ignoreMatcher, error) {
	m := &ignoreMatcher{
		patterns: make([]ignorePattern, 0, len(configPatterns)),
		logger:   logger.With(slog.String("component", "ignoreMatcher")),
	}
	ignoreFilePath, err := findIgnoreFile(inputDir)
	if err != nil {
		m.logger.Warn("Error searching for ignore file", slog.String("error", err.Error()))
	}
	if ignoreFilePath != "" {
		filePatterns, err := loadPatternsFromFile(ignoreFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load ignore file %s: %w", ignoreFilePath, err)
		}
		prefix := ""
		if rel, relErr := filepath.Rel(filepath.Dir(ignoreFilePath), inputDir); relErr == nil && rel != "." {
			prefix = filepath.ToSlash(rel)
		}
		m.addPatterns(filePatterns, prefix)
		m.logger.Debug("Loaded patterns from ignore file",
			slog.String("path", ignoreFilePath), slog.Int("count", len(filePatterns)))
	}
	m.addPatterns(configPatterns, "")
	return m, nil
}

// findIgnoreFile walks up from startPath looking for the ignore file.
func findIgnoreFile(startPath string) (string, error) {
	current := startPath
	for {
		candidate := filepath.Join(current, IgnoreFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("error checking for ignore file at %s: %w", candidate, err)
		}
		parent := filepath.Dir(current)
		if parent == current || parent == "" {
			break
		}
		current = parent
	}
	return "", nil
}

// loadPatternsFromFile reads an ignore file and returns its non-comment lines.
func loadPatternsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ignore file %s: %w", path, err)
	}
	defer file.Close()
	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ignore file %s: %w", path, err)
	}
	return patterns, nil
}

// addPatterns processes raw string patterns into ignorePattern structs.
// basePrefix anchors the patterns at their source directory; config patterns
// are always anchored at the input dir and pass "".
func (m *ignoreMatcher) addPatterns(rawPatterns []string, basePrefix string) {
	for _, raw := range rawPatterns {
		p := ignorePattern{origPattern: raw, basePrefix: basePrefix}
		trimmed := raw
		if strings.HasPrefix(trimmed, "!") {
			p.negated = true
			trimmed = trimmed[1:]
		}
		trimmed = strings.TrimSpace(trimmed)
		if strings.HasPrefix(trimmed, "/") {
			p.isRooted = true
			trimmed = strings.TrimPrefix(trimmed, "/")
		}
		if strings.HasSuffix(trimmed, "/") {
			p.isDirOnly = true
			trimmed = strings.TrimSuffix(trimmed, "/")
		}
		p.pattern = filepath.ToSlash(trimmed)
		if p.pattern == "" {
			continue
		}
		m.patterns = append(m.patterns, p)
	}
}

// Match checks whether a path relative to the input directory is ignored.
// Later patterns win, so negations can re-include earlier matches.
func (m *ignoreMatcher) Match(relPath string, isDir bool) bool {
	result := false
	for _, p := range m.patterns {
		if util.MatchesIgnorePattern(p.pattern, p.matchPath(relPath), p.isRooted) {
			if p.isDirOnly && !isDir {
				continue
			}
			result = !p.negated
		}
	}
	return result
}

// LastMatchPattern returns the original pattern that determined the final
// match decision, or "" if the path is not ignored.
func (m *ignoreMatcher) LastMatchPattern(relPath string, isDir bool) string {
	last := ""
	result := false
	for _, p := range m.patterns {
		if util.MatchesIgnorePattern(p.pattern, p.matchPath(relPath), p.isRooted) {
			if p.isDirOnly && !isDir {
				continue
			}
			last = p.origPattern
			result = !p.negated
		}
	}
	if result {
		return last
	}
	return ""
}

// patternCount returns the number of processed patterns.
func (m *ignoreMatcher) patternCount() int {
	return len(m.patterns)
}
