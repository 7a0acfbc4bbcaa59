package packing

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/binpack-service/internal/domain/geometry"
	"github.com/guttosm/binpack-service/internal/domain/model"
)

func TestAllocate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		bin     func(t *testing.T) *Bin[string]
		items   []model.Item[string]
		wantErr error
	}{
		{
			name:    "nil bin",
			bin:     func(*testing.T) *Bin[string] { return nil },
			items:   []model.Item[string]{item("a", 1, 1, 1, 1)},
			wantErr: ErrNilBin,
		},
		{
			name:    "nil items",
			bin:     func(t *testing.T) *Bin[string] { return newTestBin(t, 1, 1, 1, 1) },
			items:   nil,
			wantErr: ErrNilItems,
		},
		{
			name:    "too heavy",
			bin:     func(t *testing.T) *Bin[string] { return newTestBin(t, 2, 2, 2, 2) },
			items:   []model.Item[string]{item("a", 1, 2, 1, 3)},
			wantErr: ErrItemsTooHeavy,
		},
		{
			name:    "edge longer than any container edge",
			bin:     func(t *testing.T) *Bin[string] { return newTestBin(t, 2, 2, 2, 2) },
			items:   []model.Item[string]{item("a", 1, 3, 1, 1)},
			wantErr: ErrItemsDoNotFit,
		},
		{
			name: "weight checked before size",
			bin:  func(t *testing.T) *Bin[string] { return newTestBin(t, 2, 2, 2, 2) },
			items: []model.Item[string]{
				item("big", 1, 3, 1, 1),
				item("heavy", 1, 1, 1, 3),
			},
			wantErr: ErrItemsTooHeavy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packed, err := Allocate(tt.bin(t), tt.items)
			assert.Nil(t, packed)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.NotErrorIs(t, err, ErrInfeasible)
		})
	}
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name     string
		bin      func(t *testing.T) *Bin[string]
		items    []model.Item[string]
		validate func(t *testing.T, packed *Bin[string])
	}{
		{
			name:  "single unit item",
			bin:   func(t *testing.T) *Bin[string] { return newTestBin(t, 1, 1, 1, 1) },
			items: []model.Item[string]{item("a", 1, 1, 1, 1)},
			validate: func(t *testing.T, packed *Bin[string]) {
				require.Equal(t, 1, packed.Len())
				assert.Equal(t, "a", packed.Items()[0].Content)
			},
		},
		{
			name:  "empty batch",
			bin:   func(t *testing.T) *Bin[string] { return newTestBin(t, 1, 1, 1, 1) },
			items: []model.Item[string]{},
			validate: func(t *testing.T, packed *Bin[string]) {
				assert.Zero(t, packed.Len())
				assert.Equal(t, uint(1), packed.VolumeCapacityLeft())
			},
		},
		{
			name: "every item allocated",
			bin:  func(t *testing.T) *Bin[string] { return newTestBin(t, 10, 10, 10, 10) },
			items: []model.Item[string]{
				item("a", 1, 1, 1, 1),
				item("b", 2, 1, 1, 2),
				item("c", 1, 2, 1, 3),
			},
			validate: func(t *testing.T, packed *Bin[string]) {
				var contents []string
				for _, it := range packed.Items() {
					contents = append(contents, it.Content)
				}
				assert.Equal(t, []string{"c", "b", "a"}, contents, "heaviest first")
				assert.Equal(t, uint(6), packed.ItemsWeight())
			},
		},
		{
			name: "side by side",
			bin:  func(t *testing.T) *Bin[string] { return newTestBin(t, 20, 10, 10, 4) },
			items: []model.Item[string]{
				item("a", 10, 10, 10, 1),
				item("b", 10, 10, 10, 1),
			},
			validate: func(t *testing.T, packed *Bin[string]) {
				items := packed.Items()
				require.Len(t, items, 2)
				assertPlaced(t, items[0], geometry.NewPoint(0, 0, 0), geometry.NewPoint(10, 10, 10))
				assertPlaced(t, items[1], geometry.NewPoint(10, 0, 0), geometry.NewPoint(20, 10, 10))
			},
		},
		{
			name: "ties broken by volume then input order",
			bin:  func(t *testing.T) *Bin[string] { return newTestBin(t, 20, 20, 20, 10) },
			items: []model.Item[string]{
				item("small-1", 1, 1, 1, 1),
				item("large", 5, 5, 5, 1),
				item("small-2", 1, 1, 1, 1),
			},
			validate: func(t *testing.T, packed *Bin[string]) {
				items := packed.Items()
				require.Len(t, items, 3)
				assert.Equal(t, "large", items[0].Content)
				assert.Equal(t, "small-1", items[1].Content)
				assert.Equal(t, "small-2", items[2].Content)
			},
		},
		{
			name: "many small cubes in a large bin",
			bin:  func(t *testing.T) *Bin[string] { return newTestBin(t, 1000, 1000, 1000, 1000) },
			items: func() []model.Item[string] {
				items := make([]model.Item[string], 100)
				for i := range items {
					items[i] = item("a", 2, 2, 2, 1)
				}
				return items
			}(),
			validate: func(t *testing.T, packed *Bin[string]) {
				assert.Equal(t, 100, packed.Len())
				assert.Equal(t, uint(800), packed.ItemsVolume())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin := tt.bin(t)
			packed, err := Allocate(bin, tt.items)
			require.NoError(t, err)
			require.NotNil(t, packed)
			assert.NotSame(t, bin, packed)
			assert.Zero(t, bin.Len(), "input bin must not be mutated")
			tt.validate(t, packed)
			assertBinInvariants(t, packed)
		})
	}
}

func TestAllocate_Infeasible(t *testing.T) {
	bin := newTestBin(t, 20, 10, 10, 4)
	items := []model.Item[string]{
		item("a", 10, 10, 10, 1),
		item("b", 10, 10, 10, 1),
		item("c", 10, 10, 10, 1),
	}

	packed, err := Allocate(bin, items)

	assert.Nil(t, packed)
	assert.ErrorIs(t, err, ErrInfeasible)
	assert.NotErrorIs(t, err, ErrInvalidArgument)
	assert.Zero(t, bin.Len())
}

func TestAllocateContext(t *testing.T) {
	items := []model.Item[string]{item("a", 1, 1, 1, 1), item("b", 1, 1, 1, 1)}

	t.Run("live context packs", func(t *testing.T) {
		packed, err := AllocateContext(context.Background(), newTestBin(t, 2, 1, 1, 2), items)

		require.NoError(t, err)
		assert.Equal(t, 2, packed.Len())
	})

	t.Run("cancelled context stops before placing", func(t *testing.T) {
		bin := newTestBin(t, 2, 1, 1, 2)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		packed, err := AllocateContext(ctx, bin, items)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, packed)
		assert.Zero(t, bin.Len())
	})

	t.Run("validation still comes first", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := AllocateContext(ctx, newTestBin(t, 1, 1, 1, 1), []model.Item[string]{item("a", 1, 1, 1, 5)})

		assert.ErrorIs(t, err, ErrItemsTooHeavy)
	})
}

func TestAllocate_DoesNotMutateInput(t *testing.T) {
	bin := newTestBin(t, 10, 10, 10, 10)
	items := []model.Item[string]{
		item("light", 1, 1, 1, 1),
		item("heavy", 1, 1, 1, 5),
	}

	_, err := Allocate(bin, items)
	require.NoError(t, err)

	assert.Equal(t, "light", items[0].Content)
	assert.Equal(t, "heavy", items[1].Content)
}

func TestAllocate_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	items := randomItems(rng, 40, 4)
	bin := newTestBin(t, 40, 40, 40, 1000)

	first, err := Allocate(bin, items)
	require.NoError(t, err)
	second, err := Allocate(bin, items)
	require.NoError(t, err)

	assert.Equal(t, first.Items(), second.Items())
}

func TestAllocate_RandomBatchesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for round := 0; round < 25; round++ {
		bin := newTestBin(t, 30, 30, 30, 200)
		items := randomItems(rng, 1+rng.Intn(30), 12)

		packed, err := Allocate(bin, items)
		if err != nil {
			assert.ErrorIs(t, err, ErrInfeasible, "round %d", round)
			assert.Nil(t, packed)
			continue
		}
		assert.Equal(t, len(items), packed.Len(), "round %d", round)
		assertBinInvariants(t, packed)
	}
}

func TestSortForPacking(t *testing.T) {
	items := []model.Item[string]{
		item("a", 1, 1, 1, 1),
		item("b", 2, 2, 2, 1),
		item("c", 1, 1, 1, 3),
	}

	sorted := SortForPacking(items)

	require.Len(t, sorted, 3)
	assert.Equal(t, "c", sorted[0].Content)
	assert.Equal(t, "b", sorted[1].Content)
	assert.Equal(t, "a", sorted[2].Content)
	assert.Equal(t, "a", items[0].Content)
}

func randomItems(rng *rand.Rand, n int, maxEdge uint) []model.Item[string] {
	items := make([]model.Item[string], n)
	for i := range items {
		items[i] = item(
			"r",
			1+uint(rng.Intn(int(maxEdge))),
			1+uint(rng.Intn(int(maxEdge))),
			1+uint(rng.Intn(int(maxEdge))),
			1+uint(rng.Intn(5)),
		)
	}
	return items
}

func BenchmarkAllocate_SmallCubes(b *testing.B) {
	bin, err := NewBin[string](geometry.NewBox(1000, 1000, 1000), 1000)
	if err != nil {
		b.Fatal(err)
	}
	items := make([]model.Item[string], 100)
	for i := range items {
		items[i] = item("a", 2, 2, 2, 1)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Allocate(bin, items); err != nil {
			b.Fatal(err)
		}
	}
}
