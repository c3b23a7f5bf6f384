package sheets

import (
	"context"
	"sync"

	"github.com/dispatchd/bookingflow/internal/model"
)

// MockWriter is a RowWriter for tests.
type MockWriter struct {
	AppendFunc  func(ctx context.Context, records []model.BookingRecord) error
	AppendCalls [][]model.BookingRecord
	mu          sync.Mutex
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Append implements the RowWriter interface.
func (m *MockWriter) Append(ctx context.Context, records []model.BookingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]model.BookingRecord, len(records))
	copy(copied, records)
	m.AppendCalls = append(m.AppendCalls, copied)

	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, records)
	}
	return nil
}

// Rows returns every record appended so far, flattened in order.
func (m *MockWriter) Rows() []model.BookingRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []model.BookingRecord
	for _, call := range m.AppendCalls {
		all = append(all, call...)
	}
	return all
}
