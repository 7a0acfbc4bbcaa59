package middleware

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/guttosm/binpack-service/internal/domain/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockLoggingService is a testify mock of service.LoggingService that
// also records every entry it receives.
type MockLoggingService struct {
	mock.Mock
	mu      sync.Mutex
	entries []*model.LogEntry
}

func (m *MockLoggingService) record(entries ...*model.LogEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entries...)
}

// Entries returns a copy of the recorded entries.
func (m *MockLoggingService) Entries() []*model.LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.LogEntry(nil), m.entries...)
}

func (m *MockLoggingService) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	m.record(entry)
	return m.Called(ctx, entry).Error(0)
}

func (m *MockLoggingService) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	m.record(entries...)
	return m.Called(ctx, entries).Error(0)
}

func (m *MockLoggingService) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	args := m.Called(ctx, opts)
	entries, _ := args.Get(0).([]model.LogEntry)
	return entries, args.Error(1)
}

func (m *MockLoggingService) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}

func (m *MockLoggingService) AllocationHistory(ctx context.Context, allocationID string, limit int) ([]model.LogEntry, error) {
	args := m.Called(ctx, allocationID, limit)
	entries, _ := args.Get(0).([]model.LogEntry)
	return entries, args.Error(1)
}
