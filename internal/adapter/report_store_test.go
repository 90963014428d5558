package adapter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

func TestYAMLReportStore_Reports(t *testing.T) {
	dir := m.Path(filepath.Join(t.TempDir(), "reports"))
	store := NewReportStore()
	ctx := context.Background()

	older := m.RunReport{
		ID:        "b-older",
		StartedAt: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		Files:     []m.FileReport{{Path: "src/a.vue", Replacements: 2, Rules: map[string]int{"icons": 2}}},
		Totals:    m.Totals{Files: 1, Changed: 1, Replacements: 2},
	}
	newer := m.RunReport{
		ID:        "a-newer",
		StartedAt: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
		DryRun:    true,
	}

	for _, report := range []m.RunReport{newer, older} {
		path, err := store.SaveReport(ctx, dir, report)
		require.NoError(t, err)
		assert.FileExists(t, string(path))
	}

	reports, err := store.LoadReports(ctx, dir)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "b-older", reports[0].ID)
	assert.Equal(t, older.Files, reports[0].Files)
	assert.Equal(t, "a-newer", reports[1].ID)
	assert.True(t, reports[1].DryRun)

	_, err = store.SaveReport(ctx, dir, m.RunReport{})
	require.Error(t, err)
}

func TestYAMLReportStore_LoadReportsMissingDir(t *testing.T) {
	reports, err := NewReportStore().LoadReports(context.Background(), m.Path(filepath.Join(t.TempDir(), "none")))
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestYAMLReportStore_Fingerprints(t *testing.T) {
	dir := m.Path(t.TempDir())
	store := NewReportStore()
	ctx := context.Background()

	empty, err := store.LoadFingerprints(ctx, dir)
	require.NoError(t, err)
	assert.Empty(t, empty)

	want := m.Fingerprints{"/app/src/a.vue": "00000000000000ff"}
	require.NoError(t, store.SaveFingerprints(ctx, dir, want))

	got, err := store.LoadFingerprints(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
