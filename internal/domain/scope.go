package domain

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"bundlekit.dev/pkg/bundlekit/internal/controller"
	"bundlekit.dev/pkg/bundlekit/internal/domain/scoping"
	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

var (
	styleBlockPattern    = regexp.MustCompile(`(?is)<style\b[^>]*>(.*?)</style>`)
	cssCommentPattern    = regexp.MustCompile(`(?s)/\*.*?\*/`)
	cssNoisePattern      = regexp.MustCompile(`(?s)url\([^)]*\)|"[^"\n]*"|'[^'\n]*'`)
	classSelectorPattern = regexp.MustCompile(`\.(-?[_a-zA-Z][_a-zA-Z0-9-]*)`)
)

// Scope generates scoped class names for a style module.
func (w *workflow) Scope(ctx context.Context, args ScopeArgs) error {
	names, err := w.scopedNames(ctx, args)
	if err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithEstimateMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	if err := w.DisplayScopedNames(ctx, names); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

func (w *workflow) scopedNames(ctx context.Context, args ScopeArgs) ([]m.ScopedName, error) {
	normalized, err := normalizeArgs(EstimateArgs{Root: args.Root})
	if err != nil {
		return nil, err
	}

	module := args.Module
	if !filepath.IsAbs(string(module)) {
		module = w.JoinPath(string(normalized.Root), string(module))
	}

	locals := args.Names
	if args.Discover {
		content, err := w.ReadFile(ctx, module)
		if err != nil {
			return nil, fmt.Errorf("read module: %w", err)
		}

		locals = appendUnique(locals, DiscoverClasses(string(module), string(content))...)
	}

	shown := module
	if rel, err := w.RelPath(normalized.Root, module); err == nil {
		shown = m.Path(filepath.ToSlash(string(rel)))
	}

	generator := scoping.NewGenerator(string(normalized.Root))
	names := make([]m.ScopedName, 0, len(locals))

	for _, local := range locals {
		names = append(names, m.ScopedName{
			Module:  shown,
			Local:   local,
			ScopeID: generator.ScopeID(string(module), local),
			Name:    generator.Generate(string(module), local),
		})
	}

	return names, nil
}

// DiscoverClasses returns the class selectors declared in a style module in
// first-seen order. For .vue files only <style> blocks are scanned.
func DiscoverClasses(path, content string) []string {
	if strings.EqualFold(filepath.Ext(path), ".vue") {
		var styles strings.Builder
		for _, match := range styleBlockPattern.FindAllStringSubmatch(content, -1) {
			styles.WriteString(match[1])
			styles.WriteByte('\n')
		}

		content = styles.String()
	}

	content = cssCommentPattern.ReplaceAllString(content, "")
	content = cssNoisePattern.ReplaceAllString(content, "")

	var classes []string
	for _, match := range classSelectorPattern.FindAllStringSubmatch(content, -1) {
		classes = appendUnique(classes, match[1])
	}

	return classes
}

func appendUnique(list []string, values ...string) []string {
	for _, value := range values {
		found := false

		for _, existing := range list {
			if existing == value {
				found = true
				break
			}
		}

		if !found {
			list = append(list, value)
		}
	}

	return list
}
