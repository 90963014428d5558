package model

// FileChange is the outcome of running the rule set over one file.
type FileChange struct {
	File         File
	Original     []byte
	Rewritten    []byte
	Replacements int
	// Rules maps rule labels to the number of replacements they made.
	Rules map[string]int
	// Cached is set when the file was skipped because its fingerprint
	// matched the previous run's output.
	Cached bool
	Err    error
}

// Changed reports whether the rewritten text differs from the original.
func (c FileChange) Changed() bool {
	return c.Err == nil && !c.Cached && c.Replacements > 0
}

// Overlap is a token that two or more rules rewrite in the same file.
type Overlap struct {
	Path  Path
	Token string
	Rules []string
}

// RuleSummary describes one catalog rule for display.
type RuleSummary struct {
	Index   int
	Name    string
	Tokens  int
	Include []string
	Exclude []string
}
