package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/guttosm/binpack-service/internal/domain/model"
	"github.com/guttosm/binpack-service/internal/metrics"
	"github.com/guttosm/binpack-service/internal/packing"
	"github.com/guttosm/binpack-service/internal/repository"
	"github.com/guttosm/binpack-service/internal/service/cache"
)

const (
	// DefaultMaxItems bounds the expanded item count of one request.
	DefaultMaxItems = 2000
	// DefaultMaxDimension bounds every container and item edge.
	DefaultMaxDimension = 1 << 20
	// DefaultPackTimeout bounds one packing run.
	DefaultPackTimeout = 30 * time.Second

	// maxDimensionCeiling keeps a container volume below 2^63, so no
	// corner, volume or remaining capacity can wrap.
	maxDimensionCeiling = 1 << 21
)

var (
	// ErrInvalidContainer is returned for containers without volume or weight
	// limit, or with an edge above the configured maximum.
	ErrInvalidContainer = fmt.Errorf("%w: container needs positive bounded dimensions and max weight", packing.ErrInvalidArgument)
	// ErrInvalidItems is returned when an item has no id or an edge that is
	// zero or above the configured maximum.
	ErrInvalidItems = fmt.Errorf("%w: every item needs an id and positive bounded dimensions", packing.ErrInvalidArgument)
	// ErrTooManyItems is returned when quantities expand past the configured limit.
	ErrTooManyItems = fmt.Errorf("%w: too many items", packing.ErrInvalidArgument)
	// ErrAllocationNotFound is returned by Get for unknown ids.
	ErrAllocationNotFound = errors.New("allocation not found")
)

// Allocator packs requests and keeps their results retrievable.
type Allocator interface {
	Allocate(ctx context.Context, req model.AllocationRequest) (*model.Allocation, error)
	Get(ctx context.Context, id string) (*model.Allocation, error)
	ListRecent(ctx context.Context, limit int) ([]model.AllocationSummary, error)
	InvalidateCache()
}

// AllocatorOption configures an AllocatorService.
type AllocatorOption func(*AllocatorService)

// AllocatorService implements Allocator on top of packing.Allocate.
//
// Results are memoised by request fingerprint and by id. Identical
// requests in flight at the same time share one packing run. That run is
// detached from the callers' contexts and bounded by packTimeout; each
// caller stops waiting when its own context ends.
type AllocatorService struct {
	maxItems     int
	maxDimension uint
	packTimeout  time.Duration
	profiles ProfileResolver
	repo     repository.AllocationsRepositoryInterface
	cache    cache.Cache[model.Allocation]
	group    singleflight.Group
	newID    func() string
	now      func() time.Time
}

// NewAllocatorService creates an allocator with the given options.
func NewAllocatorService(opts ...AllocatorOption) *AllocatorService {
	s := &AllocatorService{
		maxItems:     DefaultMaxItems,
		maxDimension: DefaultMaxDimension,
		packTimeout:  DefaultPackTimeout,
		newID:        uuid.NewString,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithMaxItems caps the expanded item count per request.
func WithMaxItems(n int) AllocatorOption {
	return func(s *AllocatorService) {
		if n > 0 {
			s.maxItems = n
		}
	}
}

// WithMaxDimension caps container and item edges. Values above 2^21 are
// clamped to it.
func WithMaxDimension(n int) AllocatorOption {
	return func(s *AllocatorService) {
		if n > 0 {
			s.maxDimension = uint(min(n, maxDimensionCeiling))
		}
	}
}

// WithPackTimeout bounds how long one packing run may take.
func WithPackTimeout(d time.Duration) AllocatorOption {
	return func(s *AllocatorService) {
		if d > 0 {
			s.packTimeout = d
		}
	}
}

// WithProfiles enables container lookup by profile name.
func WithProfiles(p ProfileResolver) AllocatorOption {
	return func(s *AllocatorService) {
		s.profiles = p
	}
}

// WithAllocationsRepository persists every successful allocation.
func WithAllocationsRepository(repo repository.AllocationsRepositoryInterface) AllocatorOption {
	return func(s *AllocatorService) {
		s.repo = repo
	}
}

// WithCache enables result caching with the specified capacity and TTL.
func WithCache(capacity int, ttl time.Duration) AllocatorOption {
	return func(s *AllocatorService) {
		if capacity > 0 {
			s.cache = NewShardedCache[model.Allocation](capacity, ttl, defaultShards)
		}
	}
}

// WithCacheInterface allows injecting a custom cache implementation.
func WithCacheInterface(c cache.Cache[model.Allocation]) AllocatorOption {
	return func(s *AllocatorService) {
		s.cache = c
	}
}

// Allocate validates req, packs it and records the result.
func (s *AllocatorService) Allocate(ctx context.Context, req model.AllocationRequest) (*model.Allocation, error) {
	start := time.Now()

	container, err := s.resolveContainer(ctx, req)
	if err != nil {
		if errors.Is(err, packing.ErrInvalidArgument) {
			metrics.RecordAllocation(time.Since(start), metrics.StatusInvalid)
		}
		return nil, err
	}
	if err := s.validateItems(req.Items); err != nil {
		metrics.RecordAllocation(time.Since(start), metrics.StatusInvalid)
		return nil, err
	}

	key := fingerprint(container, req.Items)
	if alloc, ok := s.cached("fp:" + key); ok {
		metrics.RecordAllocation(time.Since(start), metrics.StatusCached)
		return alloc, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// the shared run outlives any single caller
	runCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		packCtx, cancel := context.WithTimeout(runCtx, s.packTimeout)
		defer cancel()
		return s.pack(packCtx, container, req.Items, key)
	})

	var alloc *model.Allocation
	select {
	case res := <-ch:
		alloc, _ = res.Val.(*model.Allocation)
		err = res.Err
	case <-ctx.Done():
		err = ctx.Err()
	}

	status := metrics.StatusSuccess
	switch {
	case errors.Is(err, packing.ErrInfeasible):
		status = metrics.StatusInfeasible
	case errors.Is(err, packing.ErrInvalidArgument):
		status = metrics.StatusInvalid
	case err != nil:
		status = metrics.StatusError
	}
	metrics.RecordAllocation(time.Since(start), status)
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

func (s *AllocatorService) pack(ctx context.Context, container model.Container, specs []model.ItemSpec, key string) (*model.Allocation, error) {
	bin, err := packing.NewBin[model.ItemRef](container.Box(), container.MaxWeight)
	if err != nil {
		return nil, err
	}

	items := make([]model.Item[model.ItemRef], 0, len(specs))
	for _, spec := range specs {
		items = append(items, spec.Expand()...)
	}

	packed, err := packing.AllocateContext(ctx, bin, items)
	if err != nil {
		log.Info().Err(err).
			Str("container", container.Box().String()).
			Int("items", len(items)).
			Msg("Allocation rejected")
		return nil, err
	}

	alloc := s.toAllocation(container, packed)
	metrics.RecordPlacement(len(alloc.Placements), alloc.VolumeUtilization())
	log.Info().
		Str("allocation_id", alloc.ID).
		Int("placed", len(alloc.Placements)).
		Int("levels", len(alloc.Levels())).
		Float64("utilization", alloc.VolumeUtilization()).
		Msg("Allocation completed")

	if s.repo != nil {
		if err := s.repo.Save(ctx, alloc); err != nil {
			log.Warn().Err(err).Str("allocation_id", alloc.ID).Msg("Failed to persist allocation")
		}
	}
	if s.cache != nil {
		s.cache.Set("fp:"+key, *alloc)
		s.cache.Set("id:"+alloc.ID, *alloc)
	}
	return alloc, nil
}

// Get returns a recent or stored allocation.
func (s *AllocatorService) Get(ctx context.Context, id string) (*model.Allocation, error) {
	if alloc, ok := s.cached("id:" + id); ok {
		return alloc, nil
	}
	if s.repo == nil {
		return nil, ErrAllocationNotFound
	}

	alloc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if alloc == nil {
		return nil, ErrAllocationNotFound
	}
	if s.cache != nil {
		s.cache.Set("id:"+id, *alloc)
	}
	return alloc, nil
}

// ListRecent returns the newest stored allocations.
func (s *AllocatorService) ListRecent(ctx context.Context, limit int) ([]model.AllocationSummary, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListRecent(ctx, limit)
}

// InvalidateCache clears memoised results, e.g. after a profile changes.
func (s *AllocatorService) InvalidateCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

// Stop releases the cache's background goroutines.
func (s *AllocatorService) Stop() {
	if s.cache != nil {
		s.cache.Stop()
	}
}

func (s *AllocatorService) cached(key string) (*model.Allocation, bool) {
	if s.cache == nil {
		return nil, false
	}
	alloc, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	return &alloc, true
}

func (s *AllocatorService) resolveContainer(ctx context.Context, req model.AllocationRequest) (model.Container, error) {
	container := req.Container
	if req.Profile != "" {
		if s.profiles == nil {
			return model.Container{}, fmt.Errorf("%w: %q", ErrProfileNotFound, req.Profile)
		}
		profile, err := s.profiles.Resolve(ctx, req.Profile)
		if err != nil {
			return model.Container{}, err
		}
		container = profile.Container()
	}
	if container.Box().Volume() == 0 || container.MaxWeight == 0 {
		return model.Container{}, ErrInvalidContainer
	}
	if edge := container.Box().MaxDimension(); edge > s.maxDimension {
		return model.Container{}, fmt.Errorf("%w: edge %d exceeds limit %d", ErrInvalidContainer, edge, s.maxDimension)
	}
	return container, nil
}

func (s *AllocatorService) validateItems(specs []model.ItemSpec) error {
	limit := uint(s.maxItems)
	var total uint
	for i, spec := range specs {
		if !spec.Valid() {
			return fmt.Errorf("%w: item %d (%q)", ErrInvalidItems, i, spec.ID)
		}
		if edge := spec.Box().MaxDimension(); edge > s.maxDimension {
			return fmt.Errorf("%w: item %d (%q) edge %d exceeds limit %d", ErrInvalidItems, i, spec.ID, edge, s.maxDimension)
		}
		// checked per line so huge quantities cannot wrap the sum
		if spec.Count() > limit || total+spec.Count() > limit {
			return fmt.Errorf("%w: limit %d", ErrTooManyItems, s.maxItems)
		}
		total += spec.Count()
	}
	return nil
}

func (s *AllocatorService) toAllocation(container model.Container, bin *packing.Bin[model.ItemRef]) *model.Allocation {
	placed := bin.Items()
	placements := make([]model.Placement, len(placed))
	for i, p := range placed {
		placements[i] = model.Placement{
			ItemID:  p.Content.ID,
			Label:   p.Content.Label,
			Weight:  p.Weight,
			Min:     p.Position.Min(),
			Max:     p.Position.Max(),
			Rotated: p.Rotated(),
		}
	}
	return &model.Allocation{
		ID:                 s.newID(),
		Container:          container,
		Placements:         placements,
		ItemsWeight:        bin.ItemsWeight(),
		WeightCapacityLeft: bin.WeightCapacityLeft(),
		ItemsVolume:        bin.ItemsVolume(),
		VolumeCapacityLeft: bin.VolumeCapacityLeft(),
		CreatedAt:          s.now().UTC(),
	}
}

// fingerprint hashes the canonical JSON of the resolved container and the
// item lines. Item order is part of the key since it can change placement.
func fingerprint(container model.Container, specs []model.ItemSpec) string {
	canonical := struct {
		Container model.Container  `json:"c"`
		Items     []model.ItemSpec `json:"i"`
	}{container, specs}
	raw, _ := json.Marshal(canonical)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
