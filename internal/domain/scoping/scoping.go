// Package scoping derives globally unique CSS class names for classes
// declared in path-scoped style modules.
package scoping

import (
	"path/filepath"
	"strings"

	"bundlekit.dev/pkg/bundlekit/pkg/shortid"
)

// SuffixLength is the number of base62 hash characters appended to a name.
const SuffixLength = 4

var (
	separatorReplacer = strings.NewReplacer(
		"\\", "-",
		"/", "-",
		".", "-",
		"?", "-",
		"&", "-",
		"=", "-",
	)

	segmentRemover = strings.NewReplacer("src-", "", "vue-", "")

	// Longer prefixes come first so components-global- wins over components-.
	scopePrefixes = []string{
		"components-global-",
		"components-",
		"widgets-",
		"ui-_common_-",
		"ui-",
	}
)

// Generator maps (module path, local class name) pairs to scoped names.
// It holds no mutable state and is safe for concurrent use.
type Generator struct {
	root string
}

// NewGenerator returns a Generator that computes module paths relative to root.
func NewGenerator(root string) *Generator {
	return &Generator{root: absPath(root)}
}

// Root returns the project root used for relative module paths.
func (g *Generator) Root() string {
	return g.root
}

// Generate returns the scoped class name for localName declared in modulePath.
func (g *Generator) Generate(modulePath, localName string) string {
	id := g.ScopeID(modulePath, localName)

	return ShortID(id) + "-" + shortid.Suffix(id, SuffixLength)
}

// ScopeID returns the normalized key that Generate hashes.
func (g *Generator) ScopeID(modulePath, localName string) string {
	id := separatorReplacer.Replace(g.relativePath(modulePath) + "-" + localName)

	return segmentRemover.Replace(id)
}

// ShortID strips one well-known directory prefix from the start of id.
func ShortID(id string) string {
	for _, prefix := range scopePrefixes {
		if strings.HasPrefix(id, prefix) {
			return id[len(prefix):]
		}
	}

	return id
}

func (g *Generator) relativePath(modulePath string) string {
	file, _, _ := strings.Cut(modulePath, "?")

	rel, err := filepath.Rel(g.root, absPath(file))
	if err != nil {
		return filepath.Clean(file)
	}

	return rel
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	return abs
}
