package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"bundlekit.dev/pkg/bundlekit/internal/domain/rewrite"
	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

// CatalogVersion is the rule catalog format understood by this build.
const CatalogVersion = 1

// ErrInvalidCatalog is returned for catalogs that do not describe a rule set.
var ErrInvalidCatalog = errors.New("invalid rule catalog")

// CatalogAdapter loads the ordered rewrite rule catalog.
type CatalogAdapter interface {
	// Load reads the catalog at path. Relative include/exclude patterns that
	// do not start with "**" resolve against base.
	Load(ctx context.Context, path m.Path, base m.Path) (rewrite.RuleSet, error)
}

type catalogFile struct {
	Version int           `yaml:"version" validate:"omitempty,eq=1"`
	Rules   []catalogRule `yaml:"rules" validate:"required,min=1,dive"`
}

type catalogRule struct {
	Name    string    `yaml:"name" validate:"omitempty,max=128"`
	Values  yaml.Node `yaml:"values" validate:"-"`
	Include []string  `yaml:"include" validate:"omitempty,dive,required"`
	Exclude []string  `yaml:"exclude" validate:"omitempty,dive,required"`
}

// YAMLCatalogAdapter reads catalogs written in YAML. Mapping order inside
// each rule's values is preserved.
type YAMLCatalogAdapter struct {
	validate *validator.Validate
}

// NewYAMLCatalogAdapter constructs a YAMLCatalogAdapter.
func NewYAMLCatalogAdapter() *YAMLCatalogAdapter {
	return &YAMLCatalogAdapter{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Load implements CatalogAdapter.
func (a *YAMLCatalogAdapter) Load(ctx context.Context, path m.Path, base m.Path) (rewrite.RuleSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	rules, err := a.Parse(data, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return rules, nil
}

// Parse builds a RuleSet from catalog YAML.
func (a *YAMLCatalogAdapter) Parse(data []byte, base m.Path) (rewrite.RuleSet, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	if err := a.validate.Struct(file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	rules := make(rewrite.RuleSet, 0, len(file.Rules))

	for i, entry := range file.Rules {
		name := entry.Name
		if name == "" {
			name = fmt.Sprintf("rule-%d", i+1)
		}

		mapping, err := orderedValues(&entry.Values)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q: %w", ErrInvalidCatalog, name, err)
		}

		rule, err := rewrite.NewRule(mapping,
			rewrite.WithName(name),
			rewrite.WithBase(string(base)),
			rewrite.WithInclude(entry.Include...),
			rewrite.WithExclude(entry.Exclude...),
		)
		if err != nil {
			return nil, err
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

func orderedValues(node *yaml.Node) ([]rewrite.Replacement, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("values must be a mapping (line %d)", node.Line)
	}

	mapping := make([]rewrite.Replacement, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("values entry at line %d must map a string to a string", key.Line)
		}

		mapping = append(mapping, rewrite.Replacement{Token: key.Value, Value: value.Value})
	}

	return mapping, nil
}
