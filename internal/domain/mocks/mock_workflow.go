// Package mocks provides testify mocks of the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"precheck.dev/pkg/precheck/internal/domain"
)

// MockWorkflow is a mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// MockWorkflow_Expecter sets typed expectations on a MockWorkflow.
type MockWorkflow_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation builder of the mock.
func (w *MockWorkflow) EXPECT() *MockWorkflow_Expecter {
	return &MockWorkflow_Expecter{mock: &w.Mock}
}

// NewMockWorkflow creates a mock whose expectations are asserted at cleanup.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	workflow := &MockWorkflow{}
	workflow.Test(t)

	t.Cleanup(func() { workflow.AssertExpectations(t) })

	return workflow
}

// Check provides a mock function.
func (w *MockWorkflow) Check(ctx context.Context, args domain.CheckArgs) error {
	return w.Called(ctx, args).Error(0)
}

// MockWorkflow_Check_Call is an expectation on Check.
type MockWorkflow_Check_Call struct {
	*mock.Call
}

// Check expects a call to Check with the given matchers.
func (e *MockWorkflow_Expecter) Check(ctx interface{}, args interface{}) *MockWorkflow_Check_Call {
	return &MockWorkflow_Check_Call{Call: e.mock.On("Check", ctx, args)}
}

// Return sets the error returned by the call.
func (c *MockWorkflow_Check_Call) Return(err error) *MockWorkflow_Check_Call {
	c.Call.Return(err)
	return c
}

// List provides a mock function.
func (w *MockWorkflow) List(ctx context.Context, args domain.ListArgs) error {
	return w.Called(ctx, args).Error(0)
}

// MockWorkflow_List_Call is an expectation on List.
type MockWorkflow_List_Call struct {
	*mock.Call
}

// List expects a call to List with the given matchers.
func (e *MockWorkflow_Expecter) List(ctx interface{}, args interface{}) *MockWorkflow_List_Call {
	return &MockWorkflow_List_Call{Call: e.mock.On("List", ctx, args)}
}

// Return sets the error returned by the call.
func (c *MockWorkflow_List_Call) Return(err error) *MockWorkflow_List_Call {
	c.Call.Return(err)
	return c
}

// View provides a mock function.
func (w *MockWorkflow) View(ctx context.Context, args domain.ViewArgs) error {
	return w.Called(ctx, args).Error(0)
}

// MockWorkflow_View_Call is an expectation on View.
type MockWorkflow_View_Call struct {
	*mock.Call
}

// View expects a call to View with the given matchers.
func (e *MockWorkflow_Expecter) View(ctx interface{}, args interface{}) *MockWorkflow_View_Call {
	return &MockWorkflow_View_Call{Call: e.mock.On("View", ctx, args)}
}

// Return sets the error returned by the call.
func (c *MockWorkflow_View_Call) Return(err error) *MockWorkflow_View_Call {
	c.Call.Return(err)
	return c
}

var _ domain.Workflow = (*MockWorkflow)(nil)
