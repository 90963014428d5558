package domain

import (
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

const diffContext = 3

// UnifiedDiff renders a unified patch between the original and rewritten text
// of one file. It returns an empty string when both are equal.
func UnifiedDiff(path string, original, rewritten []byte) string {
	if string(original) == string(rewritten) {
		return ""
	}

	patch, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLinesKeepNL(string(original)),
		B:        splitLinesKeepNL(string(rewritten)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  diffContext,
	})
	if err != nil {
		return ""
	}

	return patch
}

// splitLinesKeepNL splits s into lines keeping the trailing newline so
// difflib reproduces the exact content.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return nil
	}

	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	} else {
		lines[len(lines)-1] += "\n"
	}

	return lines
}
