package repository

import (
	"context"
	"errors"

	"github.com/guttosm/binpack-service/internal/domain/model"
)

// ErrNotFound is returned by deletes that matched nothing.
var ErrNotFound = errors.New("not found")

// ContainerProfilesRepositoryInterface stores named container presets.
// Get returns (nil, nil) when the profile does not exist.
type ContainerProfilesRepositoryInterface interface {
	Get(ctx context.Context, name string) (*model.ContainerProfile, error)
	Upsert(ctx context.Context, profile model.ContainerProfile, updatedBy string) (*model.ContainerProfile, error)
	List(ctx context.Context) ([]model.ContainerProfile, error)
	Delete(ctx context.Context, name string) error
	SeedDefaults(ctx context.Context, profiles []model.ContainerProfile) (int, error)
}

// AllocationsRepositoryInterface stores allocation results.
// Get returns (nil, nil) when the allocation does not exist.
type AllocationsRepositoryInterface interface {
	Save(ctx context.Context, alloc *model.Allocation) error
	Get(ctx context.Context, id string) (*model.Allocation, error)
	ListRecent(ctx context.Context, limit int) ([]model.AllocationSummary, error)
}

// LogsRepositoryInterface stores request and audit logs.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntryDocument) error
	CreateMany(ctx context.Context, entries []*LogEntryDocument) error
	Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error)
	Count(ctx context.Context, opts LogQueryOptions) (int64, error)
}
