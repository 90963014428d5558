package controller

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	return cmd, &out
}

func TestSimpleUI_DisplayEstimation(t *testing.T) {
	cmd, out := newTestCmd()
	ui := NewSimpleUI(cmd)

	changes := []m.FileChange{
		{File: m.File{ShortPath: "src/pages/b.vue"}, Replacements: 3, Rules: map[string]int{"icons": 2, "warning": 1}},
		{File: m.File{ShortPath: "src/a.ts"}, Cached: true},
		{File: m.File{ShortPath: "src/c.ts"}, Err: errors.New("boom")},
	}

	require.NoError(t, ui.DisplayEstimation(context.Background(), changes, nil))

	text := out.String()
	assert.Contains(t, text, "icons:2, warning:1")
	assert.Contains(t, text, cachedLabel)
	assert.Contains(t, text, errorLabel)
	assert.Contains(t, text, "TOTAL FILES 3")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("src/a.ts")), bytes.Index(out.Bytes(), []byte("src/pages/b.vue")))
}

func TestSimpleUI_DisplayEstimationError(t *testing.T) {
	cmd, out := newTestCmd()
	estimateErr := errors.New("no catalog")

	err := NewSimpleUI(cmd).DisplayEstimation(context.Background(), nil, estimateErr)
	require.ErrorIs(t, err, estimateErr)
	assert.Contains(t, out.String(), "estimation error: no catalog")
}

func TestSimpleUI_DisplayFileChange(t *testing.T) {
	tests := []struct {
		name   string
		change m.FileChange
		diff   string
		want   string
	}{
		{"failed", m.FileChange{File: m.File{ShortPath: "a.vue"}, Err: errors.New("denied")}, "", "Failed a.vue: denied\n"},
		{"diff", m.FileChange{File: m.File{ShortPath: "a.vue"}, Replacements: 1}, "--- a/a.vue\n", "--- a/a.vue\n"},
		{"rewritten", m.FileChange{File: m.File{ShortPath: "a.vue"}, Replacements: 2}, "", "Rewrote a.vue (2 replacement(s))\n"},
		{"unchanged", m.FileChange{File: m.File{ShortPath: "a.vue"}}, "", ""},
		{"cached", m.FileChange{File: m.File{ShortPath: "a.vue"}, Cached: true}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, out := newTestCmd()
			NewSimpleUI(cmd).DisplayFileChange(context.Background(), tt.change, tt.diff)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestSimpleUI_DisplayRunSummary(t *testing.T) {
	cmd, out := newTestCmd()

	NewSimpleUI(cmd).DisplayRunSummary(context.Background(), m.RunReport{
		ID:     "0f8fad5b-d9cb-469f-a165-70867728950e",
		DryRun: true,
		Totals: m.Totals{Files: 4, Changed: 2, Cached: 1, Failed: 1, Replacements: 7},
	})

	assert.Equal(t, "Run 0f8fad5b: 4 file(s), 2 changed, 1 cached, 1 failed, 7 replacement(s) (dry run)\n", out.String())
}

func TestSimpleUI_DisplayRules(t *testing.T) {
	cmd, out := newTestCmd()

	err := NewSimpleUI(cmd).DisplayRules(context.Background(), []m.RuleSummary{
		{Index: 0, Name: "warning", Tokens: 1, Exclude: []string{"**/MkAnnouncementDialog.*"}},
		{Index: 1, Name: "icons", Tokens: 120},
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "warning")
	assert.Contains(t, text, "**/MkAnnouncementDialog.*")
	assert.Contains(t, text, "TOTAL RULES 2")
	assert.Contains(t, text, "121")
}

func TestSimpleUI_DisplayOverlaps(t *testing.T) {
	cmd, out := newTestCmd()
	ui := NewSimpleUI(cmd)

	require.NoError(t, ui.DisplayOverlaps(context.Background(), nil))
	assert.Equal(t, "No overlapping rules found\n", out.String())

	out.Reset()
	require.NoError(t, ui.DisplayOverlaps(context.Background(), []m.Overlap{
		{Path: "src/pages/ui/a.vue", Token: "ti ti-x", Rules: []string{"pages", "ui"}},
	}))
	assert.Contains(t, out.String(), "pages, ui")
}

func TestSimpleUI_DisplayScopedNames(t *testing.T) {
	cmd, out := newTestCmd()

	require.NoError(t, NewSimpleUI(cmd).DisplayScopedNames(context.Background(), []m.ScopedName{
		{Module: "src/components/MkButton.vue", Local: "root", Name: "MkButton-root-baFh"},
	}))

	assert.Contains(t, out.String(), "MkButton-root-baFh")
}

func TestSimpleUI_DisplayReports(t *testing.T) {
	cmd, out := newTestCmd()
	ui := NewSimpleUI(cmd)

	require.NoError(t, ui.DisplayReports(context.Background(), nil))
	assert.Equal(t, "No reports found\n", out.String())

	out.Reset()
	require.NoError(t, ui.DisplayReports(context.Background(), []m.RunReport{{
		ID:        "abcdef0123456789",
		StartedAt: time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
		Totals:    m.Totals{Files: 2, Changed: 1, Replacements: 3},
	}}))

	assert.Contains(t, out.String(), "abcdef01")
	assert.Contains(t, out.String(), "2026-03-01 12:30:00")
}

func TestSimpleUI_CancelledContext(t *testing.T) {
	cmd, out := newTestCmd()
	ui := NewSimpleUI(cmd)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, ui.Start(ctx), context.Canceled)
	require.ErrorIs(t, ui.DisplayRules(ctx, nil), context.Canceled)
	ui.DisplayRunInfo(ctx, 1, 0, 1)
	assert.Empty(t, out.String())
}

func TestNewUI(t *testing.T) {
	cmd, _ := newTestCmd()

	assert.IsType(t, &SimpleUI{}, NewUI(cmd, false))
	assert.IsType(t, &TUI{}, NewUI(cmd, true))
	assert.False(t, IsTTY(nil))
}
