// Package rewrite substitutes icon-class tokens in source text using an
// ordered list of path-predicated rules.
package rewrite

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dlclark/regexp2"
)

// Token delimiters: a token must open a quoted string, may carry the
// fixed-width modifier (which is dropped), and must not continue as a
// longer hyphenated identifier. Word boundaries are ASCII only, so a
// non-ASCII letter right after a token ends it.
const (
	asciiWord     = `[A-Za-z0-9_]`
	asciiBoundary = `(?:(?<=` + asciiWord + `)(?!` + asciiWord + `)|(?<!` + asciiWord + `)(?=` + asciiWord + `))`
	tokenLeading  = "(?<=[\"'`])"
	tokenTrailing = `(?: ti-fw)?` + asciiBoundary + `(?!-)`
)

var (
	// ErrInvalidPattern is returned for include/exclude globs that cannot be compiled.
	ErrInvalidPattern = errors.New("invalid path pattern")
	// ErrEmptyMapping is returned when a rule has nothing to replace.
	ErrEmptyMapping = errors.New("rule has no replacements")
	// ErrEmptyToken is returned for a replacement with an empty token.
	ErrEmptyToken = errors.New("empty token")
	// ErrDuplicateToken is returned when a token appears twice in one rule.
	ErrDuplicateToken = errors.New("duplicate token")
)

// Replacement is a single token and the text that replaces it.
type Replacement struct {
	Token string
	Value string
}

// Rule is an immutable token mapping guarded by include/exclude path globs.
type Rule struct {
	name    string
	mapping []Replacement
	values  map[string]string
	include []string
	exclude []string
	pattern *regexp2.Regexp
}

type ruleConfig struct {
	name    string
	base    string
	include []string
	exclude []string
}

// RuleOption configures NewRule.
type RuleOption func(*ruleConfig)

// WithName labels the rule in reports and errors.
func WithName(name string) RuleOption {
	return func(c *ruleConfig) {
		c.name = name
	}
}

// WithInclude limits the rule to paths matching at least one pattern.
func WithInclude(patterns ...string) RuleOption {
	return func(c *ruleConfig) {
		c.include = append(c.include, patterns...)
	}
}

// WithExclude skips paths matching any pattern.
func WithExclude(patterns ...string) RuleOption {
	return func(c *ruleConfig) {
		c.exclude = append(c.exclude, patterns...)
	}
}

// WithBase resolves relative patterns that do not start with "**" against dir.
func WithBase(dir string) RuleOption {
	return func(c *ruleConfig) {
		c.base = dir
	}
}

// NewRule compiles mapping and the path predicates. Invalid globs, empty
// tokens and duplicate tokens are reported here, never while rewriting.
func NewRule(mapping []Replacement, opts ...RuleOption) (*Rule, error) {
	cfg := ruleConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(mapping) == 0 {
		return nil, fmt.Errorf("rule %q: %w", cfg.name, ErrEmptyMapping)
	}

	values := make(map[string]string, len(mapping))
	for _, r := range mapping {
		if r.Token == "" {
			return nil, fmt.Errorf("rule %q: %w", cfg.name, ErrEmptyToken)
		}

		if _, ok := values[r.Token]; ok {
			return nil, fmt.Errorf("rule %q: %w: %q", cfg.name, ErrDuplicateToken, r.Token)
		}

		values[r.Token] = r.Value
	}

	include, err := compilePatterns(cfg.base, cfg.include)
	if err != nil {
		return nil, fmt.Errorf("rule %q include: %w", cfg.name, err)
	}

	exclude, err := compilePatterns(cfg.base, cfg.exclude)
	if err != nil {
		return nil, fmt.Errorf("rule %q exclude: %w", cfg.name, err)
	}

	pattern, err := compileTokens(mapping)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", cfg.name, err)
	}

	return &Rule{
		name:    cfg.name,
		mapping: append([]Replacement(nil), mapping...),
		values:  values,
		include: include,
		exclude: exclude,
		pattern: pattern,
	}, nil
}

// Name returns the rule label, possibly empty.
func (r *Rule) Name() string {
	return r.name
}

// Mapping returns a copy of the rule's replacements in declaration order.
func (r *Rule) Mapping() []Replacement {
	return append([]Replacement(nil), r.mapping...)
}

// Include returns the normalized include patterns.
func (r *Rule) Include() []string {
	return append([]string(nil), r.include...)
}

// Exclude returns the normalized exclude patterns.
func (r *Rule) Exclude() []string {
	return append([]string(nil), r.exclude...)
}

// Has reports whether token is one of the rule's keys.
func (r *Rule) Has(token string) bool {
	_, ok := r.values[token]
	return ok
}

// Matches reports whether the rule applies to filePath: no exclude pattern
// matches and, when include patterns exist, at least one of them does.
func (r *Rule) Matches(filePath string) bool {
	if strings.ContainsRune(filePath, 0) {
		return false
	}

	p := normalizePath(filePath)

	for _, pattern := range r.exclude {
		if doublestar.MatchUnvalidated(pattern, p) {
			return false
		}
	}

	if len(r.include) == 0 {
		return true
	}

	for _, pattern := range r.include {
		if doublestar.MatchUnvalidated(pattern, p) {
			return true
		}
	}

	return false
}

// Replace rewrites every delimited token occurrence in text in one left to
// right pass and returns the new text with the number of replacements.
// Replacement output is not rescanned by the same rule.
func (r *Rule) Replace(text string) (string, int, error) {
	count := 0

	out, err := r.pattern.ReplaceFunc(text, func(match regexp2.Match) string {
		count++
		return r.values[match.GroupByNumber(1).String()]
	}, -1, -1)
	if err != nil {
		return text, 0, fmt.Errorf("rule %q: %w", r.name, err)
	}

	return out, count, nil
}

func compileTokens(mapping []Replacement) (*regexp2.Regexp, error) {
	tokens := make([]string, 0, len(mapping))
	for _, r := range mapping {
		tokens = append(tokens, r.Token)
	}

	// Longest first, so "ti ti-heart-off" is tried before "ti ti-heart".
	sort.SliceStable(tokens, func(i, j int) bool {
		return len(tokens[i]) > len(tokens[j])
	})

	for i, token := range tokens {
		tokens[i] = regexp2.Escape(token)
	}

	expr := tokenLeading + "(" + strings.Join(tokens, "|") + ")" + tokenTrailing

	return regexp2.Compile(expr, regexp2.ECMAScript)
}

func compilePatterns(base string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	compiled := make([]string, 0, len(patterns))

	for _, raw := range patterns {
		pattern := resolvePattern(base, raw)
		if raw == "" || !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, raw)
		}

		compiled = append(compiled, pattern)
	}

	return compiled, nil
}

func resolvePattern(base, pattern string) string {
	pattern = filepath.ToSlash(pattern)

	if base != "" && !strings.HasPrefix(pattern, "**") && !path.IsAbs(pattern) {
		pattern = path.Join(filepath.ToSlash(base), pattern)
	}

	return strings.TrimPrefix(pattern, "/")
}

func normalizePath(filePath string) string {
	return strings.TrimPrefix(strings.ReplaceAll(filePath, "\\", "/"), "/")
}
