package rewrite

import (
	"slices"

	"github.com/dboslee/lru"
)

// DefaultCacheSize bounds the number of file paths whose rule applicability
// an Engine remembers.
const DefaultCacheSize = 4096

// RuleSet is an ordered list of rules. Every matching rule applies, in
// order, to the output of the previous one.
type RuleSet []*Rule

// Apply evaluates rules against source for filePath and returns the
// rewritten text.
func Apply(filePath, source string, rules RuleSet) (string, error) {
	result, err := applyRules(source, rules, applicableRules(rules, filePath))
	if err != nil {
		return source, err
	}

	return result.Text, nil
}

// Result describes one Engine.Apply call.
type Result struct {
	Text         string
	Replacements int
	// Rules holds the indexes of the rules that matched the path.
	Rules []int
	// PerRule counts replacements by rule index.
	PerRule map[int]int
}

// Changed reports whether any replacement happened.
func (r Result) Changed() bool {
	return r.Replacements > 0
}

// Engine applies a fixed RuleSet and remembers which rules match a path.
// It is safe for concurrent use.
type Engine struct {
	rules RuleSet
	cache *lru.SyncCache[string, []int]
}

// EngineOption configures NewEngine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	cacheSize int
}

// WithCacheSize sets the applicability cache capacity. Zero disables it.
func WithCacheSize(size int) EngineOption {
	return func(c *engineConfig) {
		c.cacheSize = size
	}
}

// NewEngine returns an Engine for rules. The slice is not copied and must
// not be modified afterwards.
func NewEngine(rules RuleSet, opts ...EngineOption) *Engine {
	cfg := engineConfig{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{rules: rules}
	if cfg.cacheSize > 0 {
		e.cache = lru.NewSync[string, []int](lru.WithCapacity(cfg.cacheSize))
	}

	return e
}

// Rules returns the engine's rule set.
func (e *Engine) Rules() RuleSet {
	return e.rules
}

// Applicable returns the indexes of the rules matching filePath, in order.
// The returned slice belongs to the caller.
func (e *Engine) Applicable(filePath string) []int {
	if e.cache == nil {
		return applicableRules(e.rules, filePath)
	}

	if cached, ok := e.cache.Get(filePath); ok {
		return slices.Clone(cached)
	}

	indexes := applicableRules(e.rules, filePath)
	e.cache.Set(filePath, slices.Clone(indexes))

	return indexes
}

// Apply rewrites source for filePath.
func (e *Engine) Apply(filePath, source string) (Result, error) {
	return applyRules(source, e.rules, e.Applicable(filePath))
}

func applicableRules(rules RuleSet, filePath string) []int {
	indexes := make([]int, 0, len(rules))

	for i, rule := range rules {
		if rule.Matches(filePath) {
			indexes = append(indexes, i)
		}
	}

	return indexes
}

func applyRules(source string, rules RuleSet, indexes []int) (Result, error) {
	result := Result{
		Text:    source,
		Rules:   indexes,
		PerRule: make(map[int]int, len(indexes)),
	}

	for _, i := range indexes {
		text, count, err := rules[i].Replace(result.Text)
		if err != nil {
			return Result{Text: source}, err
		}

		result.Text = text
		result.Replacements += count

		if count > 0 {
			result.PerRule[i] = count
		}
	}

	return result, nil
}
