package domain

import (
	"context"
	"fmt"
	"path/filepath"

	"bundlekit.dev/pkg/bundlekit/internal/controller"
)

// View shows the stored run reports, oldest first.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	dir := args.Reports
	if args.Root != "" && !filepath.IsAbs(string(dir)) {
		dir = w.JoinPath(string(args.Root), string(dir))
	}

	reports, err := w.LoadReports(ctx, dir)
	if err != nil {
		return fmt.Errorf("load reports: %w", err)
	}

	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	if err := w.DisplayReports(ctx, reports); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}
