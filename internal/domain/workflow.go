// Package domain wires the rewrite engine and the scoped name generator to
// the filesystem, the rule catalog and the UI.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"bundlekit.dev/pkg/bundlekit/internal/adapter"
	"bundlekit.dev/pkg/bundlekit/internal/controller"
	"bundlekit.dev/pkg/bundlekit/internal/domain/rewrite"
	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

// DefaultExtensions are the source files rewritten when no extension filter
// is configured.
var DefaultExtensions = []string{".vue", ".ts", ".tsx", ".js", ".jsx", ".mjs", ".html"}

// DefaultDebounce is the quiet period watch mode waits for before re-running.
const DefaultDebounce = 200 * time.Millisecond

var (
	// ErrRewriteFailed is returned when at least one file could not be
	// processed. The run report still lists every file.
	ErrRewriteFailed = errors.New("rewrite failed")
	// ErrOverlapsFound is returned by a strict check that found overlaps.
	ErrOverlapsFound = errors.New("overlapping rules")
	// ErrNoCatalog is returned when a command needs rules but none is set.
	ErrNoCatalog = errors.New("no rule catalog configured")
)

// EstimateArgs selects the files and rules of a run.
type EstimateArgs struct {
	Root       m.Path
	Paths      []m.Path
	Exclude    []string
	Extensions []string
	Catalog    m.Path
	UseCache   bool
	Reports    m.Path
}

// RewriteArgs contains the arguments for rewriting source files.
type RewriteArgs struct {
	EstimateArgs
	Threads   int
	DryRun    bool
	OutputDir m.Path
	Watch     bool
	Debounce  time.Duration
}

// RulesArgs contains the arguments for listing catalog rules.
type RulesArgs struct {
	Root    m.Path
	Catalog m.Path
}

// CheckArgs contains the arguments for the overlap check.
type CheckArgs struct {
	EstimateArgs
	Strict bool
}

// ScopeArgs contains the arguments for scoped name generation.
type ScopeArgs struct {
	Root     m.Path
	Module   m.Path
	Names    []string
	Discover bool
}

// ViewArgs contains the arguments for viewing stored run reports.
type ViewArgs struct {
	Root    m.Path
	Reports m.Path
}

// Workflow is the set of operations exposed to the CLI.
type Workflow interface {
	Estimate(ctx context.Context, args EstimateArgs) error
	Rewrite(ctx context.Context, args RewriteArgs) error
	Rules(ctx context.Context, args RulesArgs) error
	Check(ctx context.Context, args CheckArgs) error
	Scope(ctx context.Context, args ScopeArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.CatalogAdapter
	adapter.ReportStore
	adapter.Watcher
	controller.UI
}

// NewWorkflow creates a Workflow with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	catalogAdapter adapter.CatalogAdapter,
	reportStore adapter.ReportStore,
	watcher adapter.Watcher,
	ui controller.UI,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		CatalogAdapter:  catalogAdapter,
		ReportStore:     reportStore,
		Watcher:         watcher,
		UI:              ui,
	}
}

// Estimate reports how many replacements a rewrite would make per file.
func (w *workflow) Estimate(ctx context.Context, args EstimateArgs) error {
	if err := w.Start(ctx, controller.WithEstimateMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	changes, err := w.estimate(ctx, args)
	if displayErr := w.DisplayEstimation(ctx, changes, err); displayErr != nil && err == nil {
		err = fmt.Errorf("display: %w", displayErr)
	}

	if err != nil {
		slog.Error("Estimation failed", "error", err)
		return err
	}

	w.Wait(ctx)

	return nil
}

func (w *workflow) estimate(ctx context.Context, args EstimateArgs) ([]m.FileChange, error) {
	args, err := normalizeArgs(args)
	if err != nil {
		return nil, err
	}

	engine, err := w.loadEngine(ctx, args.Root, args.Catalog)
	if err != nil {
		return nil, err
	}

	files, err := w.discover(ctx, args)
	if err != nil {
		return nil, err
	}

	files, cached, err := w.filterCached(ctx, args, engine.cacheScope(""), "", files)
	if err != nil {
		return nil, err
	}

	changes := make([]m.FileChange, 0, len(files)+len(cached))
	for _, file := range files {
		changes = append(changes, w.applyFile(ctx, engine.Engine, file))
	}

	return append(changes, cached...), nil
}

// normalizeArgs makes the root absolute so relative catalog patterns and
// file paths agree.
func normalizeArgs(args EstimateArgs) (EstimateArgs, error) {
	root := string(args.Root)
	if root == "" {
		root = "."
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return args, fmt.Errorf("resolve root %s: %w", root, err)
	}

	args.Root = m.Path(abs)

	if len(args.Extensions) == 0 {
		args.Extensions = DefaultExtensions
	}

	return args, nil
}

// loadedCatalog is a compiled rule set together with the digest of the
// catalog file it came from.
type loadedCatalog struct {
	*rewrite.Engine
	digest string
}

// cacheScope identifies the catalog and output target a cached result was
// produced with. Changing either invalidates every cached file.
func (c *loadedCatalog) cacheScope(outputDir m.Path) string {
	return adapter.Fingerprint([]byte(c.digest + "\x00" + string(outputDir)))
}

func (w *workflow) loadEngine(ctx context.Context, root, catalog m.Path) (*loadedCatalog, error) {
	if catalog == "" {
		return nil, ErrNoCatalog
	}

	if !filepath.IsAbs(string(catalog)) {
		catalog = w.JoinPath(string(root), string(catalog))
	}

	rules, err := w.Load(ctx, catalog, root)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	content, err := w.ReadFile(ctx, catalog)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	slog.Debug("Loaded rule catalog", "path", catalog, "rules", len(rules))

	return &loadedCatalog{
		Engine: rewrite.NewEngine(rules),
		digest: adapter.Fingerprint(content),
	}, nil
}

func (w *workflow) discover(ctx context.Context, args EstimateArgs) ([]m.File, error) {
	files, err := w.Get(ctx, args.Root, args.Paths, adapter.DiscoverOptions{
		Extensions: args.Extensions,
		Exclude:    args.Exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("get sources: %w", err)
	}

	slog.Debug("Discovered source files", "count", len(files))

	return files, nil
}

// filterCached splits files into those that need processing and cached
// results for files whose content is what a previous run with the same
// scope left. With an output directory the mirrored file must still exist.
func (w *workflow) filterCached(ctx context.Context, args EstimateArgs, scope string, outputDir m.Path, files []m.File) ([]m.File, []m.FileChange, error) {
	if !args.UseCache || args.Reports == "" {
		return files, nil, nil
	}

	fingerprints, err := w.LoadFingerprints(ctx, w.reportsDir(args))
	if err != nil {
		return nil, nil, fmt.Errorf("load fingerprints: %w", err)
	}

	changed := make([]m.File, 0, len(files))

	var cached []m.FileChange

	for _, file := range files {
		if fingerprints[file.FullPath] == cacheEntry(scope, file.Hash) && w.mirrored(ctx, outputDir, file) {
			cached = append(cached, m.FileChange{File: file, Cached: true})
			continue
		}

		changed = append(changed, file)
	}

	slog.Debug("Applied incremental cache", "changed", len(changed), "cached", len(cached))

	return changed, cached, nil
}

// cacheEntry is the stored fingerprint of content produced under scope.
func cacheEntry(scope, fingerprint string) string {
	return scope + ":" + fingerprint
}

func (w *workflow) mirrored(ctx context.Context, outputDir m.Path, file m.File) bool {
	if outputDir == "" {
		return true
	}

	return w.Exists(ctx, w.JoinPath(string(outputDir), string(file.ShortPath)))
}

func (w *workflow) reportsDir(args EstimateArgs) m.Path {
	if args.Reports == "" || filepath.IsAbs(string(args.Reports)) {
		return args.Reports
	}

	return w.JoinPath(string(args.Root), string(args.Reports))
}

func (w *workflow) applyFile(ctx context.Context, engine *rewrite.Engine, file m.File) m.FileChange {
	change := m.FileChange{File: file}

	content, err := w.ReadFile(ctx, file.FullPath)
	if err != nil {
		change.Err = err
		return change
	}

	result, err := engine.Apply(string(file.FullPath), string(content))
	if err != nil {
		change.Err = fmt.Errorf("apply rules to %s: %w", file.ShortPath, err)
		return change
	}

	change.Original = content
	change.Rewritten = []byte(result.Text)
	change.Replacements = result.Replacements
	change.Rules = ruleCounts(engine.Rules(), result.PerRule)

	return change
}

func ruleCounts(rules rewrite.RuleSet, perRule map[int]int) map[string]int {
	if len(perRule) == 0 {
		return nil
	}

	counts := make(map[string]int, len(perRule))
	for i, count := range perRule {
		counts[ruleLabel(rules, i)] = count
	}

	return counts
}

func ruleLabel(rules rewrite.RuleSet, index int) string {
	if name := rules[index].Name(); name != "" {
		return name
	}

	return fmt.Sprintf("rule-%d", index+1)
}
