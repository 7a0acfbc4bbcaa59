package repository

import (
	"context"
	"errors"

	"github.com/guttosm/binpack-service/internal/circuitbreaker"
	"github.com/guttosm/binpack-service/internal/domain/model"
)

// guard runs fn through cb and hands back its result.
func guard[R any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() (R, error)) (R, error) {
	var result R
	err := cb.Execute(ctx, func() error {
		var fnErr error
		result, fnErr = fn()
		return fnErr
	})
	return result, err
}

// ContainerProfilesRepositoryWithCircuitBreaker guards a profiles repository.
type ContainerProfilesRepositoryWithCircuitBreaker struct {
	repo           ContainerProfilesRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewContainerProfilesRepositoryWithCircuitBreaker wraps repo with cb.
func NewContainerProfilesRepositoryWithCircuitBreaker(repo ContainerProfilesRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *ContainerProfilesRepositoryWithCircuitBreaker {
	return &ContainerProfilesRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

func (r *ContainerProfilesRepositoryWithCircuitBreaker) Get(ctx context.Context, name string) (*model.ContainerProfile, error) {
	return guard(ctx, r.circuitBreaker, func() (*model.ContainerProfile, error) {
		return r.repo.Get(ctx, name)
	})
}

func (r *ContainerProfilesRepositoryWithCircuitBreaker) Upsert(ctx context.Context, profile model.ContainerProfile, updatedBy string) (*model.ContainerProfile, error) {
	return guard(ctx, r.circuitBreaker, func() (*model.ContainerProfile, error) {
		return r.repo.Upsert(ctx, profile, updatedBy)
	})
}

func (r *ContainerProfilesRepositoryWithCircuitBreaker) List(ctx context.Context) ([]model.ContainerProfile, error) {
	return guard(ctx, r.circuitBreaker, func() ([]model.ContainerProfile, error) {
		return r.repo.List(ctx)
	})
}

// Delete passes ErrNotFound through without counting it as a failure.
func (r *ContainerProfilesRepositoryWithCircuitBreaker) Delete(ctx context.Context, name string) error {
	var notFound bool
	err := r.circuitBreaker.Execute(ctx, func() error {
		err := r.repo.Delete(ctx, name)
		if errors.Is(err, ErrNotFound) {
			notFound = true
			return nil
		}
		return err
	})
	if notFound {
		return ErrNotFound
	}
	return err
}

func (r *ContainerProfilesRepositoryWithCircuitBreaker) SeedDefaults(ctx context.Context, profiles []model.ContainerProfile) (int, error) {
	return guard(ctx, r.circuitBreaker, func() (int, error) {
		return r.repo.SeedDefaults(ctx, profiles)
	})
}

// GetCircuitBreaker exposes the breaker for health reporting.
func (r *ContainerProfilesRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// AllocationsRepositoryWithCircuitBreaker guards an allocations repository.
type AllocationsRepositoryWithCircuitBreaker struct {
	repo           AllocationsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewAllocationsRepositoryWithCircuitBreaker wraps repo with cb.
func NewAllocationsRepositoryWithCircuitBreaker(repo AllocationsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *AllocationsRepositoryWithCircuitBreaker {
	return &AllocationsRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

func (r *AllocationsRepositoryWithCircuitBreaker) Save(ctx context.Context, alloc *model.Allocation) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Save(ctx, alloc)
	})
}

func (r *AllocationsRepositoryWithCircuitBreaker) Get(ctx context.Context, id string) (*model.Allocation, error) {
	return guard(ctx, r.circuitBreaker, func() (*model.Allocation, error) {
		return r.repo.Get(ctx, id)
	})
}

func (r *AllocationsRepositoryWithCircuitBreaker) ListRecent(ctx context.Context, limit int) ([]model.AllocationSummary, error) {
	return guard(ctx, r.circuitBreaker, func() ([]model.AllocationSummary, error) {
		return r.repo.ListRecent(ctx, limit)
	})
}

// GetCircuitBreaker exposes the breaker for health reporting.
func (r *AllocationsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// LogsRepositoryWithCircuitBreaker guards a logs repository. Writes are
// dropped while the breaker is open; logging never fails a request.
type LogsRepositoryWithCircuitBreaker struct {
	repo           LogsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker wraps repo with cb.
func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, entries)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error) {
	return guard(ctx, r.circuitBreaker, func() ([]*LogEntryDocument, error) {
		return r.repo.Query(ctx, opts)
	})
}

func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts LogQueryOptions) (int64, error) {
	return guard(ctx, r.circuitBreaker, func() (int64, error) {
		return r.repo.Count(ctx, opts)
	})
}

// GetCircuitBreaker exposes the breaker for health reporting.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
