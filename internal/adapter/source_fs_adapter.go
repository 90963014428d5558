// Package adapter contains filesystem and persistence adapters for bundlekit.
package adapter

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

const recursiveSuffix = "/..."

// skippedDirs are never descended into during discovery.
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// DiscoverOptions filters the files returned by SourceFSAdapter.Get.
type DiscoverOptions struct {
	// Extensions keeps only files with one of these extensions (".vue").
	// Empty keeps every file.
	Extensions []string
	// Exclude drops files whose root-relative slash path matches any regex.
	Exclude []string
}

// SourceFSAdapter hides direct os access from the domain layer so the
// workflows can be tested against temporary trees.
type SourceFSAdapter interface {
	// Get resolves Go-style path patterns (./..., ./src/..., a directory or
	// a single file) below root into a sorted, de-duplicated file list.
	Get(ctx context.Context, root m.Path, paths []m.Path, opts DiscoverOptions) ([]m.File, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// WriteFile replaces a file's contents, creating parent directories and
	// keeping the existing mode when the file exists.
	WriteFile(ctx context.Context, path m.Path, content []byte) error

	// Exists reports whether path names an existing file or directory.
	Exists(ctx context.Context, path m.Path) bool

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalSourceFSAdapter implements SourceFSAdapter on the local disk.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Fingerprint returns the content fingerprint used by discovery and the
// incremental cache.
func Fingerprint(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}

// Get implements SourceFSAdapter.
func (a *LocalSourceFSAdapter) Get(ctx context.Context, root m.Path, paths []m.Path, opts DiscoverOptions) ([]m.File, error) {
	excludes, err := compileExcludes(opts.Exclude)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []m.Path{"." + recursiveSuffix}
	}

	d := discovery{
		ctx:        ctx,
		root:       string(root),
		extensions: normalizeExtensions(opts.Extensions),
		excludes:   excludes,
		seen:       make(map[string]bool),
	}

	for _, p := range paths {
		if err := d.add(string(p)); err != nil {
			return nil, err
		}
	}

	sort.Slice(d.files, func(i, j int) bool {
		return d.files[i].FullPath < d.files[j].FullPath
	})

	return d.files, nil
}

type discovery struct {
	ctx        context.Context
	root       string
	extensions map[string]bool
	excludes   []*regexp.Regexp
	seen       map[string]bool
	files      []m.File
}

func (d *discovery) add(pattern string) error {
	slashed := filepath.ToSlash(pattern)
	recursive := strings.HasSuffix(slashed, recursiveSuffix) || slashed == "..."

	target := strings.TrimSuffix(strings.TrimSuffix(slashed, "..."), "/")
	if target == "" {
		target = "."
	}

	target = filepath.FromSlash(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(d.root, target)
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", pattern, err)
	}

	if !info.IsDir() {
		return d.addFile(target, true)
	}

	return filepath.WalkDir(target, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if ctxErr := d.ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if entry.IsDir() {
			if path == target {
				return nil
			}

			if !recursive || skippedDirs[entry.Name()] {
				return filepath.SkipDir
			}

			return nil
		}

		return d.addFile(path, false)
	})
}

func (d *discovery) addFile(path string, explicit bool) error {
	if d.seen[path] {
		return nil
	}

	if !explicit && len(d.extensions) > 0 && !d.extensions[strings.ToLower(filepath.Ext(path))] {
		return nil
	}

	short := path
	if rel, err := filepath.Rel(d.root, path); err == nil {
		short = rel
	}

	slashed := filepath.ToSlash(short)
	for _, re := range d.excludes {
		if re.MatchString(slashed) {
			return nil
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	d.seen[path] = true
	d.files = append(d.files, m.File{
		FullPath:  m.Path(path),
		ShortPath: m.Path(slashed),
		Hash:      Fingerprint(content),
	})

	return nil
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	excludes := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		excludes = append(excludes, re)
	}

	return excludes, nil
}

func normalizeExtensions(extensions []string) map[string]bool {
	set := make(map[string]bool, len(extensions))

	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}

		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		set[ext] = true
	}

	return set
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return os.ReadFile(string(path))
}

// WriteFile implements SourceFSAdapter.
func (a *LocalSourceFSAdapter) WriteFile(ctx context.Context, path m.Path, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(string(path)); err == nil {
		perm = info.Mode().Perm()
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	return os.WriteFile(string(path), content, perm)
}

// Exists implements SourceFSAdapter.
func (a *LocalSourceFSAdapter) Exists(ctx context.Context, path m.Path) bool {
	if ctx.Err() != nil {
		return false
	}

	_, err := os.Stat(string(path))

	return err == nil
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
