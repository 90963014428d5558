package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"bundlekit.dev/pkg/bundlekit/internal/adapter"
	"bundlekit.dev/pkg/bundlekit/internal/controller"
	"bundlekit.dev/pkg/bundlekit/internal/domain/rewrite"
	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

// Rewrite applies the rule catalog to the selected files. In dry-run mode
// diffs are shown and nothing is written. With Watch set it keeps
// re-running for changed files until ctx is cancelled.
func (w *workflow) Rewrite(ctx context.Context, args RewriteArgs) error {
	estimateArgs, err := normalizeArgs(args.EstimateArgs)
	if err != nil {
		return err
	}

	args.EstimateArgs = estimateArgs
	if args.OutputDir != "" && !filepath.IsAbs(string(args.OutputDir)) {
		args.OutputDir = w.JoinPath(string(args.Root), string(args.OutputDir))
	}

	if args.OutputDir != "" {
		args.Exclude = excludeOutput(args.Root, args.OutputDir, args.Exclude)
	}

	if err := w.Start(ctx, controller.WithRewriteMode(), controller.WithWatch(args.Watch)); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	engine, err := w.loadEngine(ctx, args.Root, args.Catalog)
	if err != nil {
		slog.Error("Failed to load rules", "error", err)
		return err
	}

	files, err := w.discover(ctx, args.EstimateArgs)
	if err != nil {
		return err
	}

	if err := w.run(ctx, engine, args, files); err != nil {
		if !args.Watch || !errors.Is(err, ErrRewriteFailed) {
			return err
		}
	}

	if args.Watch {
		return w.watch(ctx, engine, args)
	}

	w.Wait(ctx)

	return nil
}

// run processes one batch of files and stores its report.
func (w *workflow) run(ctx context.Context, engine *loadedCatalog, args RewriteArgs, files []m.File) error {
	startedAt := time.Now()

	scope := engine.cacheScope(args.OutputDir)

	pending, cached, err := w.filterCached(ctx, args.EstimateArgs, scope, args.OutputDir, files)
	if err != nil {
		return err
	}

	threads := args.Threads
	if threads <= 0 {
		threads = 1
	}

	w.DisplayRunInfo(ctx, len(pending), len(cached), threads)

	changes, err := w.processFiles(ctx, engine.Engine, args, pending, threads)
	if err != nil {
		return err
	}

	changes = append(changes, cached...)

	report := m.RunReport{
		ID:        uuid.NewString(),
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Catalog:   args.Catalog,
		DryRun:    args.DryRun,
		Files:     make([]m.FileReport, 0, len(changes)),
	}

	for _, change := range changes {
		report.Files = append(report.Files, m.NewFileReport(change))
		report.Totals.Add(change)
	}

	if err := w.persist(ctx, args, scope, changes, report); err != nil {
		return err
	}

	w.DisplayRunSummary(ctx, report)

	if report.Totals.Failed > 0 {
		return fmt.Errorf("%w: %d file(s)", ErrRewriteFailed, report.Totals.Failed)
	}

	return nil
}

func (w *workflow) processFiles(ctx context.Context, engine *rewrite.Engine, args RewriteArgs, files []m.File, threads int) ([]m.FileChange, error) {
	changes := make([]m.FileChange, len(files))

	var displayMutex sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, file := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			change := w.applyFile(groupCtx, engine, file)
			if change.Err == nil && !args.DryRun {
				change.Err = w.writeChange(groupCtx, args, change)
			}

			if change.Err != nil {
				slog.Warn("Failed to rewrite file", "path", file.FullPath, "error", change.Err)
			}

			diff := ""
			if args.DryRun {
				diff = UnifiedDiff(string(file.ShortPath), change.Original, change.Rewritten)
			}

			changes[i] = change

			displayMutex.Lock()
			w.DisplayFileChange(groupCtx, change, diff)
			displayMutex.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return changes, nil
}

// writeChange writes changed files in place. With an output directory every
// processed file is mirrored there so the tree is complete.
func (w *workflow) writeChange(ctx context.Context, args RewriteArgs, change m.FileChange) error {
	if args.OutputDir == "" {
		if !change.Changed() {
			return nil
		}

		return w.WriteFile(ctx, change.File.FullPath, change.Rewritten)
	}

	target := w.JoinPath(string(args.OutputDir), string(change.File.ShortPath))

	return w.WriteFile(ctx, target, change.Rewritten)
}

// persist saves the run report and, for real runs, the fingerprints of the
// content each file was left with.
func (w *workflow) persist(ctx context.Context, args RewriteArgs, scope string, changes []m.FileChange, report m.RunReport) error {
	if args.Reports == "" {
		return nil
	}

	dir := w.reportsDir(args.EstimateArgs)

	if !args.DryRun {
		fingerprints, err := w.LoadFingerprints(ctx, dir)
		if err != nil {
			return fmt.Errorf("load fingerprints: %w", err)
		}

		for _, change := range changes {
			switch {
			case change.Err != nil:
				delete(fingerprints, change.File.FullPath)
			case change.Cached:
			case change.Changed() && args.OutputDir == "":
				fingerprints[change.File.FullPath] = cacheEntry(scope, adapter.Fingerprint(change.Rewritten))
			default:
				fingerprints[change.File.FullPath] = cacheEntry(scope, adapter.Fingerprint(change.Original))
			}
		}

		if err := w.SaveFingerprints(ctx, dir, fingerprints); err != nil {
			return fmt.Errorf("save fingerprints: %w", err)
		}
	}

	path, err := w.SaveReport(ctx, dir, report)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	slog.Info("Saved run report", "path", path, "files", report.Totals.Files)

	return nil
}

func (w *workflow) watch(ctx context.Context, engine *loadedCatalog, args RewriteArgs) error {
	events, err := w.Watcher.Watch(ctx, []m.Path{args.Root})
	if err != nil {
		return fmt.Errorf("watch %s: %w", args.Root, err)
	}

	debounce := args.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ignored := w.ignoredPrefixes(args)
	pending := make(map[m.Path]bool)

	var timer <-chan time.Time

	slog.Info("Watching for changes", "root", args.Root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-events:
			if !ok {
				return nil
			}

			if isIgnored(path, ignored) {
				continue
			}

			pending[path] = true
			timer = time.After(debounce)
		case <-timer:
			timer = nil

			batch := pending
			pending = make(map[m.Path]bool)

			if err := w.rerun(ctx, engine, args, batch); err != nil && !errors.Is(err, ErrRewriteFailed) {
				return err
			}
		}
	}
}

// rerun repeats discovery so the usual filters apply, then keeps only the
// files reported by the watcher.
func (w *workflow) rerun(ctx context.Context, engine *loadedCatalog, args RewriteArgs, batch map[m.Path]bool) error {
	files, err := w.discover(ctx, args.EstimateArgs)
	if err != nil {
		return err
	}

	selected := make([]m.File, 0, len(batch))
	for _, file := range files {
		if batch[file.FullPath] {
			selected = append(selected, file)
		}
	}

	if len(selected) == 0 {
		return nil
	}

	slog.Debug("Re-running for changed files", "count", len(selected))

	return w.run(ctx, engine, args, selected)
}

func (w *workflow) ignoredPrefixes(args RewriteArgs) []string {
	var prefixes []string

	if args.Reports != "" {
		prefixes = append(prefixes, string(w.reportsDir(args.EstimateArgs)))
	}

	if args.OutputDir != "" {
		prefixes = append(prefixes, string(args.OutputDir))
	}

	return prefixes
}

func isIgnored(path m.Path, prefixes []string) bool {
	for _, prefix := range prefixes {
		p := string(path)
		if p == prefix || strings.HasPrefix(p, prefix+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

// excludeOutput keeps an output directory below root out of discovery.
func excludeOutput(root, out m.Path, exclude []string) []string {
	rel, err := filepath.Rel(string(root), string(out))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return exclude
	}

	return append(slices.Clone(exclude), "^"+regexp.QuoteMeta(filepath.ToSlash(rel))+"/")
}
