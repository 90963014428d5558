package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

const (
	cachedLabel = "cached"
	errorLabel  = "error"
	noneLabel   = "-"
	shortIDLen  = 8
)

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayEstimation prints the per-file replacement counts or error.
func (s *SimpleUI) DisplayEstimation(ctx context.Context, changes []m.FileChange, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		s.printf("estimation error: %v\n", err)
		return err
	}

	s.printf("\n%s", renderEstimationTable(changes))

	return nil
}

func renderEstimationTable(changes []m.FileChange) string {
	sorted := make([]m.FileChange, len(changes))
	copy(sorted, changes)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].File.ShortPath < sorted[j].File.ShortPath
	})

	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Path", "Replacements", "Rules"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	total := 0

	for _, change := range sorted {
		count := fmt.Sprintf("%d", change.Replacements)

		switch {
		case change.Err != nil:
			count = errorLabel
		case change.Cached:
			count = cachedLabel
		}

		table.Append([]string{string(change.File.ShortPath), count, formatRuleCounts(change.Rules)})

		total += change.Replacements
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(sorted)),
		fmt.Sprintf("%d", total),
		"",
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayRunInfo shows what a rewrite run is about to do.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, pending, cached, threads int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Rewriting %d file(s) with %d worker(s), %d cached\n", pending, threads, cached)
}

// DisplayFileChange prints one processed file, with its diff in dry runs.
func (s *SimpleUI) DisplayFileChange(ctx context.Context, change m.FileChange, diff string) {
	if err := ctx.Err(); err != nil {
		return
	}

	switch {
	case change.Err != nil:
		s.printf("Failed %s: %v\n", change.File.ShortPath, change.Err)
	case diff != "":
		s.printf("%s", diff)
	case change.Changed():
		s.printf("Rewrote %s (%d replacement(s))\n", change.File.ShortPath, change.Replacements)
	}
}

// DisplayRunSummary prints the totals of a run.
func (s *SimpleUI) DisplayRunSummary(ctx context.Context, report m.RunReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", formatRunSummary(report))
}

func formatRunSummary(report m.RunReport) string {
	t := report.Totals

	summary := fmt.Sprintf("Run %s: %d file(s), %d changed, %d cached, %d failed, %d replacement(s)",
		shortID(report.ID), t.Files, t.Changed, t.Cached, t.Failed, t.Replacements)
	if report.DryRun {
		summary += " (dry run)"
	}

	return summary
}

// DisplayRules prints the catalog rules in evaluation order.
func (s *SimpleUI) DisplayRules(ctx context.Context, rules []m.RuleSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"#", "Name", "Tokens", "Include", "Exclude"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	tokens := 0

	for _, rule := range rules {
		table.Append([]string{
			fmt.Sprintf("%d", rule.Index+1),
			rule.Name,
			fmt.Sprintf("%d", rule.Tokens),
			joinOrNone(rule.Include),
			joinOrNone(rule.Exclude),
		})

		tokens += rule.Tokens
	}

	table.SetFooter([]string{"", fmt.Sprintf("Total Rules %d", len(rules)), fmt.Sprintf("%d", tokens), "", ""})
	table.Render()

	s.printf("\n%s", tableBuffer.String())

	return nil
}

// DisplayOverlaps prints tokens claimed by more than one rule.
func (s *SimpleUI) DisplayOverlaps(ctx context.Context, overlaps []m.Overlap) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(overlaps) == 0 {
		s.printf("No overlapping rules found\n")
		return nil
	}

	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Path", "Token", "Rules"})

	for _, overlap := range overlaps {
		table.Append([]string{string(overlap.Path), overlap.Token, strings.Join(overlap.Rules, ", ")})
	}

	table.Render()

	s.printf("\n%s", tableBuffer.String())

	return nil
}

// DisplayScopedNames prints generated class names.
func (s *SimpleUI) DisplayScopedNames(ctx context.Context, names []m.ScopedName) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(names) == 0 {
		s.printf("No class names to scope\n")
		return nil
	}

	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Module", "Class", "Scoped Name"})

	for _, name := range names {
		table.Append([]string{string(name.Module), name.Local, name.Name})
	}

	table.Render()

	s.printf("\n%s", tableBuffer.String())

	return nil
}

// DisplayReports prints stored run reports.
func (s *SimpleUI) DisplayReports(ctx context.Context, reports []m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderReportsTable(reports))

	return nil
}

func renderReportsTable(reports []m.RunReport) string {
	if len(reports) == 0 {
		return "No reports found\n"
	}

	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Run", "Started", "Files", "Changed", "Replacements", "Dry Run"})

	for _, report := range reports {
		dryRun := ""
		if report.DryRun {
			dryRun = "yes"
		}

		table.Append([]string{
			shortID(report.ID),
			report.StartedAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", report.Totals.Files),
			fmt.Sprintf("%d", report.Totals.Changed),
			fmt.Sprintf("%d", report.Totals.Replacements),
			dryRun,
		})
	}

	table.Render()

	return "\n" + tableBuffer.String()
}

func newTable(buffer *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buffer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	return table
}

func formatRuleCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return noneLabel
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}

	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s:%d", name, counts[name]))
	}

	return strings.Join(parts, ", ")
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return noneLabel
	}

	return strings.Join(values, ", ")
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}

	return id
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
