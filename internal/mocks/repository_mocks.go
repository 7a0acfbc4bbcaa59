// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/binpack-service/internal/domain/model"
	"github.com/guttosm/binpack-service/internal/repository"
)

type MockContainerProfilesRepository struct {
	mock.Mock
}

func (m *MockContainerProfilesRepository) Get(ctx context.Context, name string) (*model.ContainerProfile, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContainerProfile), args.Error(1)
}

func (m *MockContainerProfilesRepository) Upsert(ctx context.Context, profile model.ContainerProfile, updatedBy string) (*model.ContainerProfile, error) {
	args := m.Called(ctx, profile, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContainerProfile), args.Error(1)
}

func (m *MockContainerProfilesRepository) List(ctx context.Context) ([]model.ContainerProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ContainerProfile), args.Error(1)
}

func (m *MockContainerProfilesRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockContainerProfilesRepository) SeedDefaults(ctx context.Context, profiles []model.ContainerProfile) (int, error) {
	args := m.Called(ctx, profiles)
	return args.Int(0), args.Error(1)
}

type MockAllocationsRepository struct {
	mock.Mock
}

func (m *MockAllocationsRepository) Save(ctx context.Context, alloc *model.Allocation) error {
	args := m.Called(ctx, alloc)
	return args.Error(0)
}

func (m *MockAllocationsRepository) Get(ctx context.Context, id string) (*model.Allocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Allocation), args.Error(1)
}

func (m *MockAllocationsRepository) ListRecent(ctx context.Context, limit int) ([]model.AllocationSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AllocationSummary), args.Error(1)
}

type MockLogsRepository struct {
	mock.Mock
}

func (m *MockLogsRepository) Create(ctx context.Context, entry *repository.LogEntryDocument) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLogsRepository) CreateMany(ctx context.Context, entries []*repository.LogEntryDocument) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLogsRepository) Query(ctx context.Context, opts repository.LogQueryOptions) ([]*repository.LogEntryDocument, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.LogEntryDocument), args.Error(1)
}

func (m *MockLogsRepository) Count(ctx context.Context, opts repository.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}

var (
	_ repository.ContainerProfilesRepositoryInterface = (*MockContainerProfilesRepository)(nil)
	_ repository.AllocationsRepositoryInterface       = (*MockAllocationsRepository)(nil)
	_ repository.LogsRepositoryInterface              = (*MockLogsRepository)(nil)
)
