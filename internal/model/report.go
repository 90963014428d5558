package model

import "time"

// FileReport is the persisted result for one file of a rewrite run.
type FileReport struct {
	Path         Path           `yaml:"path"`
	Replacements int            `yaml:"replacements"`
	Rules        map[string]int `yaml:"rules,omitempty"`
	Cached       bool           `yaml:"cached,omitempty"`
	Error        string         `yaml:"error,omitempty"`
}

// Totals aggregates a rewrite run.
type Totals struct {
	Files        int `yaml:"files"`
	Changed      int `yaml:"changed"`
	Cached       int `yaml:"cached"`
	Failed       int `yaml:"failed"`
	Replacements int `yaml:"replacements"`
}

// RunReport is the persisted summary of one rewrite run.
type RunReport struct {
	ID        string        `yaml:"id"`
	StartedAt time.Time     `yaml:"started_at"`
	Duration  time.Duration `yaml:"duration"`
	Catalog   Path          `yaml:"catalog"`
	DryRun    bool          `yaml:"dry_run"`
	Files     []FileReport  `yaml:"files"`
	Totals    Totals        `yaml:"totals"`
}

// Fingerprints maps a file path to the fingerprint of the content the last
// run left in it.
type Fingerprints map[Path]string

// NewFileReport converts a FileChange into its persisted form.
func NewFileReport(change FileChange) FileReport {
	report := FileReport{
		Path:         change.File.ShortPath,
		Replacements: change.Replacements,
		Rules:        change.Rules,
		Cached:       change.Cached,
	}

	if report.Path == "" {
		report.Path = change.File.FullPath
	}

	if change.Err != nil {
		report.Error = change.Err.Error()
	}

	return report
}

// Add folds one file result into the totals.
func (t *Totals) Add(change FileChange) {
	t.Files++

	switch {
	case change.Err != nil:
		t.Failed++
	case change.Cached:
		t.Cached++
	case change.Replacements > 0:
		t.Changed++
		t.Replacements += change.Replacements
	}
}
