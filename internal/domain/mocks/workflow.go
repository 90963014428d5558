// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bundlekit.dev/pkg/bundlekit/internal/domain"
)

// MockWorkflow is a mock implementation of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

var _ domain.Workflow = (*MockWorkflow)(nil)

// NewMockWorkflow creates a MockWorkflow whose expectations are asserted
// when the test finishes.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	workflow := &MockWorkflow{}
	workflow.Test(t)

	t.Cleanup(func() { workflow.AssertExpectations(t) })

	return workflow
}

// Estimate provides a mock function.
func (w *MockWorkflow) Estimate(ctx context.Context, args domain.EstimateArgs) error {
	return w.Called(ctx, args).Error(0)
}

// Rewrite provides a mock function.
func (w *MockWorkflow) Rewrite(ctx context.Context, args domain.RewriteArgs) error {
	return w.Called(ctx, args).Error(0)
}

// Rules provides a mock function.
func (w *MockWorkflow) Rules(ctx context.Context, args domain.RulesArgs) error {
	return w.Called(ctx, args).Error(0)
}

// Check provides a mock function.
func (w *MockWorkflow) Check(ctx context.Context, args domain.CheckArgs) error {
	return w.Called(ctx, args).Error(0)
}

// Scope provides a mock function.
func (w *MockWorkflow) Scope(ctx context.Context, args domain.ScopeArgs) error {
	return w.Called(ctx, args).Error(0)
}

// View provides a mock function.
func (w *MockWorkflow) View(ctx context.Context, args domain.ViewArgs) error {
	return w.Called(ctx, args).Error(0)
}
