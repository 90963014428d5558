package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

const (
	reportPrefix     = "report-"
	reportExt        = ".yaml"
	fingerprintsFile = "fingerprints.yaml"
)

// ReportStore persists run reports and the incremental cache state.
type ReportStore interface {
	SaveReport(ctx context.Context, dir m.Path, report m.RunReport) (m.Path, error)
	LoadReports(ctx context.Context, dir m.Path) ([]m.RunReport, error)
	SaveFingerprints(ctx context.Context, dir m.Path, fingerprints m.Fingerprints) error
	LoadFingerprints(ctx context.Context, dir m.Path) (m.Fingerprints, error)
}

// YAMLReportStore keeps reports as YAML files in a directory.
type YAMLReportStore struct{}

// NewReportStore constructs a YAMLReportStore.
func NewReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveReport writes report-<id>.yaml and returns its path.
func (s *YAMLReportStore) SaveReport(ctx context.Context, dir m.Path, report m.RunReport) (m.Path, error) {
	if report.ID == "" {
		return "", errors.New("report id is required")
	}

	target := filepath.Join(string(dir), reportPrefix+report.ID+reportExt)
	if err := writeYAML(ctx, target, report); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	return m.Path(target), nil
}

// LoadReports reads every report in dir, oldest first. A missing directory
// yields no reports.
func (s *YAMLReportStore) LoadReports(ctx context.Context, dir m.Path) ([]m.RunReport, error) {
	entries, err := os.ReadDir(string(dir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	var reports []m.RunReport

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, reportPrefix) || !strings.HasSuffix(name, reportExt) {
			continue
		}

		var report m.RunReport
		if err := readYAML(ctx, filepath.Join(string(dir), name), &report); err != nil {
			return nil, fmt.Errorf("load report %s: %w", name, err)
		}

		reports = append(reports, report)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].StartedAt.Before(reports[j].StartedAt)
	})

	return reports, nil
}

// SaveFingerprints implements ReportStore.
func (s *YAMLReportStore) SaveFingerprints(ctx context.Context, dir m.Path, fingerprints m.Fingerprints) error {
	if err := writeYAML(ctx, filepath.Join(string(dir), fingerprintsFile), fingerprints); err != nil {
		return fmt.Errorf("save fingerprints: %w", err)
	}

	return nil
}

// LoadFingerprints returns an empty set when nothing was stored yet.
func (s *YAMLReportStore) LoadFingerprints(ctx context.Context, dir m.Path) (m.Fingerprints, error) {
	fingerprints := m.Fingerprints{}

	err := readYAML(ctx, filepath.Join(string(dir), fingerprintsFile), &fingerprints)
	if errors.Is(err, os.ErrNotExist) {
		return m.Fingerprints{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("load fingerprints: %w", err)
	}

	return fingerprints, nil
}

func writeYAML(ctx context.Context, path string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

func readYAML(ctx context.Context, path string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, value)
}
