package domain

import (
	"context"
	"fmt"
	"log/slog"

	"bundlekit.dev/pkg/bundlekit/internal/controller"
	"bundlekit.dev/pkg/bundlekit/internal/domain/rewrite"
	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

// Rules lists the catalog rules in evaluation order.
func (w *workflow) Rules(ctx context.Context, args RulesArgs) error {
	normalized, err := normalizeArgs(EstimateArgs{Root: args.Root, Catalog: args.Catalog})
	if err != nil {
		return err
	}

	engine, err := w.loadEngine(ctx, normalized.Root, normalized.Catalog)
	if err != nil {
		return err
	}

	rules := engine.Rules()
	summaries := make([]m.RuleSummary, 0, len(rules))

	for i, rule := range rules {
		summaries = append(summaries, m.RuleSummary{
			Index:   i,
			Name:    ruleLabel(rules, i),
			Tokens:  len(rule.Mapping()),
			Include: rule.Include(),
			Exclude: rule.Exclude(),
		})
	}

	if err := w.Start(ctx, controller.WithEstimateMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	if err := w.DisplayRules(ctx, summaries); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

// Check reports files in which two matching rules claim the same token.
func (w *workflow) Check(ctx context.Context, args CheckArgs) error {
	estimateArgs, err := normalizeArgs(args.EstimateArgs)
	if err != nil {
		return err
	}

	engine, err := w.loadEngine(ctx, estimateArgs.Root, estimateArgs.Catalog)
	if err != nil {
		return err
	}

	files, err := w.discover(ctx, estimateArgs)
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(files))
	byPath := make(map[string]m.File, len(files))

	for _, file := range files {
		paths = append(paths, string(file.FullPath))
		byPath[string(file.FullPath)] = file
	}

	rules := engine.Rules()
	found := rewrite.FindOverlaps(rules, paths)
	overlaps := make([]m.Overlap, 0, len(found))

	for _, overlap := range found {
		labels := make([]string, 0, len(overlap.Rules))
		for _, i := range overlap.Rules {
			labels = append(labels, ruleLabel(rules, i))
		}

		overlaps = append(overlaps, m.Overlap{
			Path:  byPath[overlap.Path].ShortPath,
			Token: overlap.Token,
			Rules: labels,
		})
	}

	if err := w.Start(ctx, controller.WithEstimateMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	if err := w.DisplayOverlaps(ctx, overlaps); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	if len(overlaps) > 0 {
		slog.Warn("Found overlapping rules", "count", len(overlaps))

		if args.Strict {
			return fmt.Errorf("%w: %d token(s)", ErrOverlapsFound, len(overlaps))
		}
	}

	return nil
}
