// Package controller provides output adapters for displaying rewrite results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeEstimate StartMode = iota
	ModeRewrite
	ModeView
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode  StartMode
	watch bool
}

// WithEstimateMode sets the UI to estimation mode.
func WithEstimateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeEstimate
	}
}

// WithRewriteMode sets the UI to rewrite mode.
func WithRewriteMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRewrite
	}
}

// WithViewMode sets the UI to report viewing mode.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

// WithWatch marks a long-running session where output must not be buffered.
func WithWatch(watch bool) StartOption {
	return func(c *StartConfig) {
		c.watch = watch
	}
}

func newStartConfig(options []StartOption) StartConfig {
	var cfg StartConfig
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// UI defines the interface for displaying workflow results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayEstimation(ctx context.Context, changes []m.FileChange, err error) error
	DisplayRunInfo(ctx context.Context, pending, cached, threads int)
	DisplayFileChange(ctx context.Context, change m.FileChange, diff string)
	DisplayRunSummary(ctx context.Context, report m.RunReport)
	DisplayRules(ctx context.Context, rules []m.RuleSummary) error
	DisplayOverlaps(ctx context.Context, overlaps []m.Overlap) error
	DisplayScopedNames(ctx context.Context, names []m.ScopedName) error
	DisplayReports(ctx context.Context, reports []m.RunReport) error
}

// NewUI returns the interactive TUI for terminals and SimpleUI otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
