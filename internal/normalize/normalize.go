// Package normalize provides text normalization for search matching.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

// folder performs Unicode case folding, which handles cases simple
// lowercasing misses (e.g. ß vs ss, dotless i).
//
//nolint:gochecknoglobals // Stateless caser shared by all lookups
var folder = cases.Fold()

// Fold returns s case-folded and whitespace-trimmed for comparison.
func Fold(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// ContainsFold reports whether needle occurs within haystack under
// Unicode case folding. An empty needle matches everything.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(folder.String(haystack), Fold(needle))
}
