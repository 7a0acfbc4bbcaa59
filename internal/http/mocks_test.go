package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/guttosm/binpack-service/internal/domain/model"
	"github.com/guttosm/binpack-service/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockAllocator is a mock implementation of service.Allocator.
type MockAllocator struct {
	mock.Mock
}

func (m *MockAllocator) Allocate(ctx context.Context, req model.AllocationRequest) (*model.Allocation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Allocation), args.Error(1)
}

func (m *MockAllocator) Get(ctx context.Context, id string) (*model.Allocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Allocation), args.Error(1)
}

func (m *MockAllocator) ListRecent(ctx context.Context, limit int) ([]model.AllocationSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AllocationSummary), args.Error(1)
}

func (m *MockAllocator) InvalidateCache() {
	m.Called()
}

// MockProfilesService is a mock implementation of service.ProfilesService.
type MockProfilesService struct {
	mock.Mock
}

func (m *MockProfilesService) Resolve(ctx context.Context, name string) (*model.ContainerProfile, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContainerProfile), args.Error(1)
}

func (m *MockProfilesService) List(ctx context.Context) ([]model.ContainerProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ContainerProfile), args.Error(1)
}

func (m *MockProfilesService) Upsert(ctx context.Context, profile model.ContainerProfile, updatedBy string) (*model.ContainerProfile, error) {
	args := m.Called(ctx, profile, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContainerProfile), args.Error(1)
}

func (m *MockProfilesService) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockProfilesService) Seed(ctx context.Context, extra []model.ContainerProfile) (int, error) {
	args := m.Called(ctx, extra)
	return args.Int(0), args.Error(1)
}

// MockLoggingService is a mock implementation of service.LoggingService.
type MockLoggingService struct {
	mock.Mock
}

func (m *MockLoggingService) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLoggingService) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLoggingService) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LogEntry), args.Error(1)
}

func (m *MockLoggingService) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoggingService) AllocationHistory(ctx context.Context, allocationID string, limit int) ([]model.LogEntry, error) {
	args := m.Called(ctx, allocationID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LogEntry), args.Error(1)
}

var (
	_ service.Allocator       = (*MockAllocator)(nil)
	_ service.ProfilesService = (*MockProfilesService)(nil)
	_ service.LoggingService  = (*MockLoggingService)(nil)
)
