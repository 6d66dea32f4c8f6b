package util

import (
	"path/filepath"
	"strings"
)

// MatchesIgnorePattern checks if a slash-separated relative path matches a
// gitignore-style glob pattern.
// Note: this is a simplified matcher built on filepath.Match and does not
// cover every .gitignore edge case (complex ** interactions differ from
// standard gitignore).
func MatchesIgnorePattern(pattern, relPath string, isRooted bool) bool {
	pattern = filepath.ToSlash(pattern)
	relPath = filepath.ToSlash(relPath)
	if pattern == "" || relPath == "" || relPath == "." {
		return false
	}
	// Rooted patterns match only from the scan root.
	if match, _ := filepath.Match(pattern, relPath); match {
		return true
	}
	if isRooted {
		return false
	}
	// Unrooted patterns may match any trailing segment sequence, so "obj" or
	// "*.Designer.cs" applies at any depth.
	parts := strings.Split(relPath, "/")
	for i := 1; i < len(parts); i++ {
		subPath := strings.Join(parts[i:], "/")
		if match, _ := filepath.Match(pattern, subPath); match {
			return true
		}
	}
	return false
}
