package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundlekit.dev/pkg/bundlekit/internal/domain/rewrite"
	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

const testCatalog = `version: 1
rules:
  - name: warning
    values:
      "ti ti-alert-triangle": "ph-warning ph-bold ph-lg"
    exclude:
      - "**/components/MkAnnouncementDialog.*"
  - name: warning-circle
    values:
      "ti ti-alert-triangle": "ph-warning-circle ph-bold ph-lg"
    include:
      - "**/components/MkAnnouncementDialog.*"
  - values:
      "ti ti-x": "ph-x ph-bold ph-lg"
      "ti ti-heart": "ph-heart ph-bold ph-lg"
      "ti ti-check": "ph-check ph-bold ph-lg"
`

func TestYAMLCatalogAdapter_Parse(t *testing.T) {
	rules, err := NewYAMLCatalogAdapter().Parse([]byte(testCatalog), "")
	require.NoError(t, err)
	require.Len(t, rules, 3)

	assert.Equal(t, "warning", rules[0].Name())
	assert.Equal(t, "warning-circle", rules[1].Name())
	assert.Equal(t, "rule-3", rules[2].Name())

	assert.Equal(t, []rewrite.Replacement{
		{Token: "ti ti-x", Value: "ph-x ph-bold ph-lg"},
		{Token: "ti ti-heart", Value: "ph-heart ph-bold ph-lg"},
		{Token: "ti ti-check", Value: "ph-check ph-bold ph-lg"},
	}, rules[2].Mapping())

	dialog, err := rewrite.Apply("/app/src/components/MkAnnouncementDialog.vue", `"ti ti-alert-triangle"`, rules)
	require.NoError(t, err)
	assert.Equal(t, `"ph-warning-circle ph-bold ph-lg"`, dialog)
}

func TestYAMLCatalogAdapter_ParseRelativePatterns(t *testing.T) {
	catalog := `rules:
  - values: {"ti ti-x": "ph-x"}
    include: ["src/pages/*.vue"]
`
	rules, err := NewYAMLCatalogAdapter().Parse([]byte(catalog), "/app")
	require.NoError(t, err)

	assert.True(t, rules[0].Matches("/app/src/pages/a.vue"))
	assert.False(t, rules[0].Matches("/elsewhere/src/pages/a.vue"))
}

func TestYAMLCatalogAdapter_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		catalog string
		wantErr error
	}{
		{"not yaml", "rules: [", ErrInvalidCatalog},
		{"no rules", "version: 1\n", ErrInvalidCatalog},
		{"unknown version", "version: 2\nrules:\n  - values: {a: b}\n", ErrInvalidCatalog},
		{"values list", "rules:\n  - values: [a, b]\n", ErrInvalidCatalog},
		{"nested value", "rules:\n  - values:\n      a: {b: c}\n", ErrInvalidCatalog},
		{"empty include entry", "rules:\n  - values: {a: b}\n    include: ['']\n", ErrInvalidCatalog},
		{"bad glob", "rules:\n  - values: {a: b}\n    include: ['**/[x']\n", rewrite.ErrInvalidPattern},
		{"duplicate token", "rules:\n  - values:\n      a: b\n      a: c\n", rewrite.ErrDuplicateToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYAMLCatalogAdapter().Parse([]byte(tt.catalog), "")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestYAMLCatalogAdapter_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	rules, err := NewYAMLCatalogAdapter().Load(context.Background(), m.Path(path), m.Path(dir))
	require.NoError(t, err)
	assert.Len(t, rules, 3)

	_, err = NewYAMLCatalogAdapter().Load(context.Background(), m.Path(filepath.Join(dir, "missing.yaml")), "")
	require.ErrorIs(t, err, os.ErrNotExist)
}
