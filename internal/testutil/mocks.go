// Package testutil provides mock implementations for interfaces defined in
// the resxgen core library (pkg/generator) plus filesystem helpers used across
// test packages.
package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/samialtum/resxgen/pkg/generator"
)

// MockConverter provides a mock implementation of the generator.Converter
// interface. Configure expectations using testify/mock methods
// (e.g., .On("ConvertFile", ...).Return(...)).
type MockConverter struct {
	mock.Mock
}

// ConvertFile mocks the ConvertFile method.
func (m *MockConverter) ConvertFile(ctx context.Context, sourcePath, namespace string, internalAccessModifier bool) (generator.ConversionResult, error) {
	args := m.Called(ctx, sourcePath, namespace, internalAccessModifier)
	result, _ := args.Get(0).(generator.ConversionResult)
	return result, args.Error(1)
}

// MockHooks provides a mock implementation of the generator.Hooks interface.
type MockHooks struct {
	mock.Mock
}

// OnFileDiscovered mocks the OnFileDiscovered method.
func (m *MockHooks) OnFileDiscovered(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

// OnFileStatusUpdate mocks the OnFileStatusUpdate method.
func (m *MockHooks) OnFileStatusUpdate(path string, status generator.Status, message string, duration time.Duration) error {
	args := m.Called(path, status, message, duration)
	return args.Error(0)
}

// OnRunComplete mocks the OnRunComplete method.
func (m *MockHooks) OnRunComplete(report generator.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

// MockEncoder provides a mock implementation of the encoding.Encoder interface.
type MockEncoder struct {
	mock.Mock
}

// Encode mocks the Encode method.
func (m *MockEncoder) Encode(content string) ([]byte, error) {
	args := m.Called(content)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// Name mocks the Name method.
func (m *MockEncoder) Name() string {
	args := m.Called()
	name, _ := args.Get(0).(string)
	return name
}
