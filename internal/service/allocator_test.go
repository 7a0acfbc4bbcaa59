//go:build !integration

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/binpack-service/internal/domain/geometry"
	"github.com/guttosm/binpack-service/internal/domain/model"
	"github.com/guttosm/binpack-service/internal/mocks"
	"github.com/guttosm/binpack-service/internal/packing"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("alloc-%d", n)
	}
}

func newTestAllocator(opts ...AllocatorOption) *AllocatorService {
	s := NewAllocatorService(opts...)
	s.newID = sequentialIDs()
	s.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	return s
}

func box20x10x10() model.Container {
	return model.Container{Width: 20, Height: 10, Depth: 10, MaxWeight: 100}
}

func TestAllocatorService_Allocate(t *testing.T) {
	tests := []struct {
		name     string
		opts     []AllocatorOption
		req      model.AllocationRequest
		wantErr  error
		validate func(t *testing.T, alloc *model.Allocation)
	}{
		{
			name: "expands quantity and packs side by side",
			req: model.AllocationRequest{
				Container: box20x10x10(),
				Items:     []model.ItemSpec{{ID: "cube", Label: "Cube", Width: 10, Height: 10, Depth: 10, Weight: 3, Quantity: 2}},
			},
			validate: func(t *testing.T, alloc *model.Allocation) {
				require.Len(t, alloc.Placements, 2)
				assert.Equal(t, "cube#1", alloc.Placements[0].ItemID)
				assert.Equal(t, "Cube", alloc.Placements[0].Label)
				assert.Equal(t, geometry.Origin, alloc.Placements[0].Min)
				assert.Equal(t, "cube#2", alloc.Placements[1].ItemID)
				assert.Equal(t, geometry.NewPoint(10, 0, 0), alloc.Placements[1].Min)
				assert.Equal(t, uint(6), alloc.ItemsWeight)
				assert.Equal(t, uint(94), alloc.WeightCapacityLeft)
				assert.Equal(t, uint(2000), alloc.ItemsVolume)
				assert.Zero(t, alloc.VolumeCapacityLeft)
				assert.Equal(t, "alloc-1", alloc.ID)
				assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), alloc.CreatedAt)
			},
		},
		{
			name: "single unit keeps plain id and reports rotation",
			req: model.AllocationRequest{
				Container: box20x10x10(),
				Items:     []model.ItemSpec{{ID: "plank", Width: 10, Height: 20, Depth: 10, Weight: 1}},
			},
			validate: func(t *testing.T, alloc *model.Allocation) {
				require.Len(t, alloc.Placements, 1)
				p := alloc.Placements[0]
				assert.Equal(t, "plank", p.ItemID)
				assert.True(t, p.Rotated)
				assert.Equal(t, geometry.NewBox(20, 10, 10), p.Size())
			},
		},
		{
			name: "empty item list yields empty allocation",
			req:  model.AllocationRequest{Container: box20x10x10()},
			validate: func(t *testing.T, alloc *model.Allocation) {
				assert.Empty(t, alloc.Placements)
				assert.Equal(t, uint(2000), alloc.VolumeCapacityLeft)
			},
		},
		{
			name: "resolves profile case-insensitively",
			opts: []AllocatorOption{WithProfiles(NewProfilesService(nil))},
			req: model.AllocationRequest{
				Profile: " Euro-Pallet ",
				Items:   []model.ItemSpec{{ID: "box", Width: 40, Height: 30, Depth: 40, Weight: 20, Quantity: 6}},
			},
			validate: func(t *testing.T, alloc *model.Allocation) {
				assert.Equal(t, "euro-pallet", alloc.Container.Profile)
				assert.Equal(t, uint(120), alloc.Container.Width)
				assert.Len(t, alloc.Placements, 6)
			},
		},
		{
			name:    "unknown profile",
			opts:    []AllocatorOption{WithProfiles(NewProfilesService(nil))},
			req:     model.AllocationRequest{Profile: "53ft"},
			wantErr: ErrProfileNotFound,
		},
		{
			name:    "profile without resolver",
			req:     model.AllocationRequest{Profile: "20ft"},
			wantErr: ErrProfileNotFound,
		},
		{
			name:    "zero sized container",
			req:     model.AllocationRequest{Container: model.Container{Width: 10, Height: 0, Depth: 10, MaxWeight: 5}},
			wantErr: ErrInvalidContainer,
		},
		{
			name:    "zero max weight",
			req:     model.AllocationRequest{Container: model.Container{Width: 10, Height: 10, Depth: 10}},
			wantErr: ErrInvalidContainer,
		},
		{
			name:    "container edge above the limit",
			req:     model.AllocationRequest{Container: model.Container{Width: ^uint(0), Height: 1, Depth: 1, MaxWeight: 10}},
			wantErr: ErrInvalidContainer,
		},
		{
			name: "item edge above the limit",
			opts: []AllocatorOption{WithMaxDimension(15)},
			req: model.AllocationRequest{
				Container: model.Container{Width: 15, Height: 10, Depth: 10, MaxWeight: 10},
				Items:     []model.ItemSpec{{ID: "a", Width: 1 << 63, Height: 1, Depth: 1, Quantity: 2}},
			},
			wantErr: ErrInvalidItems,
		},
		{
			name: "item without id",
			req: model.AllocationRequest{
				Container: box20x10x10(),
				Items:     []model.ItemSpec{{Width: 1, Height: 1, Depth: 1}},
			},
			wantErr: ErrInvalidItems,
		},
		{
			name: "quantity above limit",
			opts: []AllocatorOption{WithMaxItems(3)},
			req: model.AllocationRequest{
				Container: box20x10x10(),
				Items: []model.ItemSpec{
					{ID: "a", Width: 1, Height: 1, Depth: 1, Quantity: 2},
					{ID: "b", Width: 1, Height: 1, Depth: 1, Quantity: 2},
				},
			},
			wantErr: ErrTooManyItems,
		},
		{
			name: "huge quantity does not wrap",
			opts: []AllocatorOption{WithMaxItems(3)},
			req: model.AllocationRequest{
				Container: box20x10x10(),
				Items: []model.ItemSpec{
					{ID: "a", Width: 1, Height: 1, Depth: 1, Quantity: 2},
					{ID: "b", Width: 1, Height: 1, Depth: 1, Quantity: ^uint(0)},
				},
			},
			wantErr: ErrTooManyItems,
		},
		{
			name: "too heavy",
			req: model.AllocationRequest{
				Container: box20x10x10(),
				Items:     []model.ItemSpec{{ID: "anvil", Width: 1, Height: 1, Depth: 1, Weight: 101}},
			},
			wantErr: packing.ErrItemsTooHeavy,
		},
		{
			name: "longer than the container",
			req: model.AllocationRequest{
				Container: box20x10x10(),
				Items:     []model.ItemSpec{{ID: "pole", Width: 1, Height: 21, Depth: 1}},
			},
			wantErr: packing.ErrItemsDoNotFit,
		},
		{
			name: "infeasible",
			req: model.AllocationRequest{
				Container: model.Container{Width: 10, Height: 10, Depth: 10, MaxWeight: 100},
				Items:     []model.ItemSpec{{ID: "cube", Width: 10, Height: 10, Depth: 10, Quantity: 2}},
			},
			wantErr: packing.ErrInfeasible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAllocator(tt.opts...)

			alloc, err := svc.Allocate(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, alloc)
				return
			}
			require.NoError(t, err)
			tt.validate(t, alloc)
		})
	}
}

func TestAllocatorService_ValidationErrorsAreInvalidArguments(t *testing.T) {
	for _, err := range []error{ErrInvalidContainer, ErrInvalidItems, ErrTooManyItems} {
		assert.ErrorIs(t, err, packing.ErrInvalidArgument)
	}
	assert.False(t, errors.Is(ErrAllocationNotFound, packing.ErrInvalidArgument))
}

func TestWithMaxDimension(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want uint
	}{
		{"custom", 500, 500},
		{"non-positive keeps default", 0, DefaultMaxDimension},
		{"clamped so volumes cannot wrap", 1 << 40, maxDimensionCeiling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAllocatorService(WithMaxDimension(tt.n))
			assert.Equal(t, tt.want, svc.maxDimension)
		})
	}
}

func lineOfCubes(n uint) model.AllocationRequest {
	return model.AllocationRequest{
		Container: model.Container{Width: 1, Height: 4 * n, Depth: 1, MaxWeight: n},
		Items:     []model.ItemSpec{{ID: "cube", Width: 1, Height: 1, Depth: 1, Weight: 1, Quantity: n}},
	}
}

func TestAllocatorService_Cancellation(t *testing.T) {
	t.Run("cancelled caller is rejected before packing", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		alloc, err := newTestAllocator().Allocate(ctx, lineOfCubes(2))

		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, alloc)
	})

	t.Run("pack timeout stops a long run", func(t *testing.T) {
		svc := newTestAllocator(WithPackTimeout(20*time.Millisecond), WithMaxItems(2000))
		start := time.Now()

		alloc, err := svc.Allocate(context.Background(), lineOfCubes(2000))

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Nil(t, alloc)
		assert.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("caller deadline returns without waiting for the run", func(t *testing.T) {
		svc := newTestAllocator(WithPackTimeout(300*time.Millisecond), WithMaxItems(2000))
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		start := time.Now()

		_, err := svc.Allocate(ctx, lineOfCubes(2000))

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestAllocatorService_SharedRunSurvivesLeaderCancel(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	saveCtxErrs := make(chan error, 2)
	var once sync.Once
	repo := new(mocks.MockAllocationsRepository)
	repo.On("Save", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			once.Do(func() { close(entered) })
			<-release
			saveCtxErrs <- args.Get(0).(context.Context).Err()
		}).
		Return(nil)
	svc := NewAllocatorService(WithAllocationsRepository(repo))

	req := model.AllocationRequest{
		Container: box20x10x10(),
		Items:     []model.ItemSpec{{ID: "cube", Width: 10, Height: 10, Depth: 10}},
	}

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := svc.Allocate(leaderCtx, req)
		leaderErr <- err
	}()
	<-entered

	type result struct {
		alloc *model.Allocation
		err   error
	}
	follower := make(chan result, 1)
	go func() {
		alloc, err := svc.Allocate(context.Background(), req)
		follower <- result{alloc, err}
	}()

	cancelLeader()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	got := <-follower
	require.NoError(t, got.err)
	assert.Len(t, got.alloc.Placements, 1)
	assert.NoError(t, <-saveCtxErrs)
}

func TestAllocatorService_MemoisesByFingerprint(t *testing.T) {
	svc := newTestAllocator(WithCache(100, time.Minute))
	defer svc.Stop()

	req := model.AllocationRequest{
		Container: box20x10x10(),
		Items:     []model.ItemSpec{{ID: "cube", Width: 10, Height: 10, Depth: 10, Quantity: 2}},
	}

	first, err := svc.Allocate(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Allocate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	req.Items[0].Quantity = 1
	third, err := svc.Allocate(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)

	svc.InvalidateCache()
	req.Items[0].Quantity = 2
	fourth, err := svc.Allocate(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, fourth.ID)
}

func TestAllocatorService_Persistence(t *testing.T) {
	req := model.AllocationRequest{
		Container: box20x10x10(),
		Items:     []model.ItemSpec{{ID: "cube", Width: 10, Height: 10, Depth: 10}},
	}

	t.Run("saves successful allocations", func(t *testing.T) {
		repo := new(mocks.MockAllocationsRepository)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(a *model.Allocation) bool {
			return a.ID == "alloc-1" && len(a.Placements) == 1
		})).Return(nil).Once()
		svc := newTestAllocator(WithAllocationsRepository(repo))

		_, err := svc.Allocate(context.Background(), req)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("save failure does not fail the allocation", func(t *testing.T) {
		repo := new(mocks.MockAllocationsRepository)
		repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("mongo down"))
		svc := newTestAllocator(WithAllocationsRepository(repo))

		alloc, err := svc.Allocate(context.Background(), req)

		require.NoError(t, err)
		assert.NotNil(t, alloc)
	})

	t.Run("infeasible allocations are not saved", func(t *testing.T) {
		repo := new(mocks.MockAllocationsRepository)
		svc := newTestAllocator(WithAllocationsRepository(repo))
		bad := req
		bad.Items = []model.ItemSpec{{ID: "cube", Width: 10, Height: 10, Depth: 10, Quantity: 3}}

		_, err := svc.Allocate(context.Background(), bad)

		assert.ErrorIs(t, err, packing.ErrInfeasible)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAllocatorService_Get(t *testing.T) {
	stored := &model.Allocation{ID: "stored-1", Container: box20x10x10()}

	t.Run("recent allocation served from cache", func(t *testing.T) {
		svc := newTestAllocator(WithCache(10, time.Minute))
		defer svc.Stop()
		alloc, err := svc.Allocate(context.Background(), model.AllocationRequest{Container: box20x10x10()})
		require.NoError(t, err)

		got, err := svc.Get(context.Background(), alloc.ID)

		require.NoError(t, err)
		assert.Equal(t, alloc.ID, got.ID)
	})

	t.Run("falls back to repository", func(t *testing.T) {
		repo := new(mocks.MockAllocationsRepository)
		repo.On("Get", mock.Anything, "stored-1").Return(stored, nil).Once()
		svc := newTestAllocator(WithAllocationsRepository(repo), WithCache(10, time.Minute))
		defer svc.Stop()

		got, err := svc.Get(context.Background(), "stored-1")
		require.NoError(t, err)
		assert.Equal(t, stored, got)

		_, err = svc.Get(context.Background(), "stored-1")
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := new(mocks.MockAllocationsRepository)
		repo.On("Get", mock.Anything, "nope").Return(nil, nil)
		svc := newTestAllocator(WithAllocationsRepository(repo))

		_, err := svc.Get(context.Background(), "nope")

		assert.ErrorIs(t, err, ErrAllocationNotFound)
	})

	t.Run("unknown id without repository", func(t *testing.T) {
		_, err := newTestAllocator().Get(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrAllocationNotFound)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(mocks.MockAllocationsRepository)
		repo.On("Get", mock.Anything, "x").Return(nil, errors.New("timeout"))
		svc := newTestAllocator(WithAllocationsRepository(repo))

		_, err := svc.Get(context.Background(), "x")

		assert.EqualError(t, err, "timeout")
	})
}

func TestAllocatorService_ListRecent(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "default", limit: 0, wantLimit: 20},
		{name: "explicit", limit: 5, wantLimit: 5},
		{name: "clamped", limit: 1000, wantLimit: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockAllocationsRepository)
			repo.On("ListRecent", mock.Anything, tt.wantLimit).Return([]model.AllocationSummary{{ID: "a"}}, nil)
			svc := newTestAllocator(WithAllocationsRepository(repo))

			list, err := svc.ListRecent(context.Background(), tt.limit)

			require.NoError(t, err)
			assert.Len(t, list, 1)
			repo.AssertExpectations(t)
		})
	}

	t.Run("requires repository", func(t *testing.T) {
		_, err := newTestAllocator().ListRecent(context.Background(), 10)
		assert.ErrorIs(t, err, ErrRepositoryNotConfigured)
	})
}

func TestFingerprint(t *testing.T) {
	items := []model.ItemSpec{{ID: "a", Width: 1, Height: 2, Depth: 3}, {ID: "b", Width: 3, Height: 2, Depth: 1}}
	swapped := []model.ItemSpec{items[1], items[0]}

	assert.Equal(t, fingerprint(box20x10x10(), items), fingerprint(box20x10x10(), items))
	assert.NotEqual(t, fingerprint(box20x10x10(), items), fingerprint(box20x10x10(), swapped))
	assert.Len(t, fingerprint(box20x10x10(), nil), 64)
}
