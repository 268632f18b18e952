// Package mocks provides testify mocks of the adapter interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"precheck.dev/pkg/precheck/internal/adapter"
	m "precheck.dev/pkg/precheck/internal/model"
	"precheck.dev/pkg/precheck/pkg"
)

// MockScriptEngine is a mock of adapter.ScriptEngine.
type MockScriptEngine struct {
	mock.Mock
}

// MockScriptEngine_Expecter sets typed expectations on a MockScriptEngine.
type MockScriptEngine_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation builder of the mock.
func (e *MockScriptEngine) EXPECT() *MockScriptEngine_Expecter {
	return &MockScriptEngine_Expecter{mock: &e.Mock}
}

// NewMockScriptEngine creates a mock whose expectations are asserted at cleanup.
func NewMockScriptEngine(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockScriptEngine {
	engine := &MockScriptEngine{}
	engine.Test(t)

	t.Cleanup(func() { engine.AssertExpectations(t) })

	return engine
}

// Execute provides a mock function.
func (e *MockScriptEngine) Execute(ctx context.Context, name, script string) (m.ScriptResult, error) {
	args := e.Called(ctx, name, script)

	result, _ := args.Get(0).(m.ScriptResult)

	return result, args.Error(1)
}

// MockScriptEngine_Execute_Call is an expectation on Execute.
type MockScriptEngine_Execute_Call struct {
	*mock.Call
}

// Execute expects a call to Execute with the given matchers.
func (x *MockScriptEngine_Expecter) Execute(ctx interface{}, name interface{}, script interface{}) *MockScriptEngine_Execute_Call {
	return &MockScriptEngine_Execute_Call{Call: x.mock.On("Execute", ctx, name, script)}
}

// Return sets the values returned by the call.
func (c *MockScriptEngine_Execute_Call) Return(result m.ScriptResult, err error) *MockScriptEngine_Execute_Call {
	c.Call.Return(result, err)
	return c
}

// MockReportStore is a mock of adapter.ReportStore. SaveReports records the
// spilled results in Saved; LoadReports appends Loaded to its spill.
type MockReportStore struct {
	mock.Mock

	Saved  []m.FileResult
	Loaded []m.FileResult
}

// MockReportStore_Expecter sets typed expectations on a MockReportStore.
type MockReportStore_Expecter struct {
	mock *mock.Mock
}

// EXPECT returns the typed expectation builder of the mock.
func (s *MockReportStore) EXPECT() *MockReportStore_Expecter {
	return &MockReportStore_Expecter{mock: &s.Mock}
}

// NewMockReportStore creates a mock whose expectations are asserted at cleanup.
func NewMockReportStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReportStore {
	store := &MockReportStore{}
	store.Test(t)

	t.Cleanup(func() { store.AssertExpectations(t) })

	return store
}

// SaveReports provides a mock function.
func (s *MockReportStore) SaveReports(dir m.Path, results pkg.FileSpill[m.FileResult]) error {
	saved, err := results.Collect()
	if err != nil {
		return err
	}

	s.Saved = saved

	return s.Called(dir, results).Error(0)
}

// MockReportStore_SaveReports_Call is an expectation on SaveReports.
type MockReportStore_SaveReports_Call struct {
	*mock.Call
}

// SaveReports expects a call to SaveReports with the given matchers.
func (x *MockReportStore_Expecter) SaveReports(dir interface{}, results interface{}) *MockReportStore_SaveReports_Call {
	return &MockReportStore_SaveReports_Call{Call: x.mock.On("SaveReports", dir, results)}
}

// Return sets the error returned by the call.
func (c *MockReportStore_SaveReports_Call) Return(err error) *MockReportStore_SaveReports_Call {
	c.Call.Return(err)
	return c
}

// LoadReports provides a mock function.
func (s *MockReportStore) LoadReports(dir m.Path, into pkg.FileSpill[m.FileResult]) error {
	if err := s.Called(dir, into).Error(0); err != nil {
		return err
	}

	return into.AppendBatch(s.Loaded)
}

// MockReportStore_LoadReports_Call is an expectation on LoadReports.
type MockReportStore_LoadReports_Call struct {
	*mock.Call
}

// LoadReports expects a call to LoadReports with the given matchers.
func (x *MockReportStore_Expecter) LoadReports(dir interface{}, into interface{}) *MockReportStore_LoadReports_Call {
	return &MockReportStore_LoadReports_Call{Call: x.mock.On("LoadReports", dir, into)}
}

// Return sets the error returned by the call.
func (c *MockReportStore_LoadReports_Call) Return(err error) *MockReportStore_LoadReports_Call {
	c.Call.Return(err)
	return c
}

var (
	_ adapter.ScriptEngine = (*MockScriptEngine)(nil)
	_ adapter.ReportStore  = (*MockReportStore)(nil)
)
