package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/punchgrid/internal/model"
	"github.com/Veraticus/punchgrid/internal/service"
)

// MockWriter is a mock implementation of ReportWriter for testing.
type MockWriter struct {
	WriteFunc func(ctx context.Context, grid model.Grid) error
	Grids     []model.Grid
	mu        sync.Mutex
}

var _ service.ReportWriter = (*MockWriter)(nil)

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// WriteGrid records grid and delegates to WriteFunc when set.
func (m *MockWriter) WriteGrid(ctx context.Context, grid model.Grid) error {
	m.mu.Lock()
	m.Grids = append(m.Grids, grid)
	fn := m.WriteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, grid)
	}
	return nil
}

// CallCount returns how many grids were written.
func (m *MockWriter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Grids)
}
