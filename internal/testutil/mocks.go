// Package testutil provides fixtures and testify mocks shared by the
// asset-scanner test suites.
package testutil

import (
	"github.com/stretchr/testify/mock"

	"github.com/stackvity/asset-scanner/pkg/scanner"
)

// MockHooks provides a mock implementation of the scanner.Hooks interface.
// Configure expectations with .On("OnChunkComplete", ...).Return(nil).
type MockHooks struct {
	mock.Mock
}

// OnScanStart mocks the OnScanStart method.
func (m *MockHooks) OnScanStart(directory string, totalFiles, totalChunks int) error {
	args := m.Called(directory, totalFiles, totalChunks)
	return args.Error(0)
}

// OnChunkComplete mocks the OnChunkComplete method.
func (m *MockHooks) OnChunkComplete(completed, totalChunks int, result scanner.ChunkResult) error {
	args := m.Called(completed, totalChunks, result)
	return args.Error(0)
}

// OnScanComplete mocks the OnScanComplete method.
func (m *MockHooks) OnScanComplete(result scanner.ScanResult) error {
	args := m.Called(result)
	return args.Error(0)
}

// MockProgressBar provides a mock implementation of the CLI progress bar.
type MockProgressBar struct {
	mock.Mock
}

// Add mocks the Add method.
func (m *MockProgressBar) Add(num int) error {
	args := m.Called(num)
	return args.Error(0)
}

// Describe mocks the Describe method.
func (m *MockProgressBar) Describe(description string) {
	m.Called(description)
}

// ChangeMax mocks the ChangeMax method.
func (m *MockProgressBar) ChangeMax(max int) {
	m.Called(max)
}

// Finish mocks the Finish method.
func (m *MockProgressBar) Finish() error {
	args := m.Called()
	return args.Error(0)
}
