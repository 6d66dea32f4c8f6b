package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samialtum/resxgen/pkg/util"
)

func TestMatchesIgnorePattern(t *testing.T) {
	testCases := []struct {
		name     string
		pattern  string
		relPath  string
		isRooted bool
		want     bool
	}{
		{"exact file at root", "Resources.resx", "Resources.resx", false, true},
		{"glob at root", "*.resx", "Resources.resx", false, true},
		{"unrooted glob applies at any depth", "*.resx", "sub/Resources.resx", false, true},
		{"basename match at depth", "obj", "src/nested/obj", false, true},
		{"trailing segments", "obj/file.resx", "a/b/obj/file.resx", false, true},
		{"rooted matches only at root", "obj", "src/obj", true, false},
		{"rooted matches root itself", "obj", "obj", true, true},
		{"rooted glob", "gen/*.resx", "gen/one.resx", true, true},
		{"rooted glob rejects deeper", "gen/*.resx", "x/gen/one.resx", true, false},
		{"no match", "*.txt", "Resources.resx", false, false},
		{"empty pattern", "", "file.resx", false, false},
		{"empty path", "*.resx", "", false, false},
		{"dot path", "*", ".", false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := util.MatchesIgnorePattern(tc.pattern, tc.relPath, tc.isRooted)
			assert.Equal(t, tc.want, got)
		})
	}
}
