// Package mocks provides testify mocks for the controller interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bundlekit.dev/pkg/bundlekit/internal/controller"
	m "bundlekit.dev/pkg/bundlekit/internal/model"
)

// MockUI is a mock implementation of controller.UI.
type MockUI struct {
	mock.Mock
}

var _ controller.UI = (*MockUI)(nil)

// Start provides a mock function.
func (u *MockUI) Start(ctx context.Context, options ...controller.StartOption) error {
	args := u.Called(ctx, options)
	return args.Error(0)
}

// Close provides a mock function.
func (u *MockUI) Close(ctx context.Context) {
	u.Called(ctx)
}

// Wait provides a mock function.
func (u *MockUI) Wait(ctx context.Context) {
	u.Called(ctx)
}

// DisplayEstimation provides a mock function.
func (u *MockUI) DisplayEstimation(ctx context.Context, changes []m.FileChange, err error) error {
	args := u.Called(ctx, changes, err)
	return args.Error(0)
}

// DisplayRunInfo provides a mock function.
func (u *MockUI) DisplayRunInfo(ctx context.Context, pending, cached, threads int) {
	u.Called(ctx, pending, cached, threads)
}

// DisplayFileChange provides a mock function.
func (u *MockUI) DisplayFileChange(ctx context.Context, change m.FileChange, diff string) {
	u.Called(ctx, change, diff)
}

// DisplayRunSummary provides a mock function.
func (u *MockUI) DisplayRunSummary(ctx context.Context, report m.RunReport) {
	u.Called(ctx, report)
}

// DisplayRules provides a mock function.
func (u *MockUI) DisplayRules(ctx context.Context, rules []m.RuleSummary) error {
	args := u.Called(ctx, rules)
	return args.Error(0)
}

// DisplayOverlaps provides a mock function.
func (u *MockUI) DisplayOverlaps(ctx context.Context, overlaps []m.Overlap) error {
	args := u.Called(ctx, overlaps)
	return args.Error(0)
}

// DisplayScopedNames provides a mock function.
func (u *MockUI) DisplayScopedNames(ctx context.Context, names []m.ScopedName) error {
	args := u.Called(ctx, names)
	return args.Error(0)
}

// DisplayReports provides a mock function.
func (u *MockUI) DisplayReports(ctx context.Context, reports []m.RunReport) error {
	args := u.Called(ctx, reports)
	return args.Error(0)
}
