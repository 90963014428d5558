package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnifiedDiff(t *testing.T) {
	original := []byte("a\n\"ti ti-x\"\nb\n")
	rewritten := []byte("a\n\"ph-x\"\nb\n")

	diff := UnifiedDiff("src/a.vue", original, rewritten)

	assert.Contains(t, diff, "--- a/src/a.vue")
	assert.Contains(t, diff, "+++ b/src/a.vue")
	assert.Contains(t, diff, "-\"ti ti-x\"\n")
	assert.Contains(t, diff, "+\"ph-x\"\n")
	assert.Empty(t, UnifiedDiff("src/a.vue", original, original))
}

func TestUnifiedDiff_NoTrailingNewline(t *testing.T) {
	diff := UnifiedDiff("a.ts", []byte(`"ti ti-x"`), []byte(`"ph-x"`))

	assert.Contains(t, diff, "-\"ti ti-x\"\n")
	assert.Contains(t, diff, "+\"ph-x\"\n")
}

func TestDiscoverClasses(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		want    []string
	}{
		{
			name:    "css module",
			path:    "a.module.css",
			content: ".root { margin: .5em 1.5em; }\n.root > .item:hover, .item-active {}",
			want:    []string{"root", "item", "item-active"},
		},
		{
			name:    "vue style blocks only",
			path:    "MkButton.vue",
			content: "<script>const a = foo.bar;</script>\n<style module lang=\"scss\">\n.root { &.primary {} }\n</style>",
			want:    []string{"root", "primary"},
		},
		{
			name:    "comments urls and strings",
			path:    "a.css",
			content: "/* .hidden */ .icon { background: url(./img.png); content: \".quoted\"; }",
			want:    []string{"icon"},
		},
		{
			name:    "vue without style",
			path:    "Empty.vue",
			content: "<template><div class=\"x\"></div></template>",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscoverClasses(tt.path, tt.content))
		})
	}
}
