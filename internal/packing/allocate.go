package packing

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/guttosm/binpack-service/internal/domain/model"
)

// Allocate packs every item into a fresh copy of bin and returns it. Either
// all items are placed or an error is returned; bin itself is never modified.
//
// Items are placed heaviest first, ties broken by larger volume first. Input
// order decides among items equal on both.
//
// The size check only rejects an item with an edge longer than the
// container's longest edge. Items that pass it may still be infeasible.
func Allocate[T any](bin *Bin[T], items []model.Item[T]) (*Bin[T], error) {
	return AllocateContext(context.Background(), bin, items)
}

// AllocateContext is Allocate with cancellation. ctx is checked before each
// item is placed; a cancelled run returns ctx.Err() and no bin.
func AllocateContext[T any](ctx context.Context, bin *Bin[T], items []model.Item[T]) (*Bin[T], error) {
	if bin == nil {
		return nil, ErrNilBin
	}
	if items == nil {
		return nil, ErrNilItems
	}

	longest := bin.box.MaxDimension()
	for i, it := range items {
		if it.Weight > bin.maxWeight {
			return nil, fmt.Errorf("%w: item %d weighs %d, limit %d", ErrItemsTooHeavy, i, it.Weight, bin.maxWeight)
		}
	}
	for i, it := range items {
		if it.Box.MaxDimension() > longest {
			return nil, fmt.Errorf("%w: item %d is %s, longest bin edge %d", ErrItemsDoNotFit, i, it.Box, longest)
		}
	}

	ordered := SortForPacking(items)

	packed := bin.CloneEmpty()
	for i, it := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !packed.TryAdd(it) {
			return nil, fmt.Errorf("%w: failed at item %d of %d (%s, weight %d)", ErrInfeasible, i+1, len(ordered), it.Box, it.Weight)
		}
	}
	return packed, nil
}

// SortForPacking returns a copy of items in placement order: weight
// descending, then volume descending. The sort is stable.
func SortForPacking[T any](items []model.Item[T]) []model.Item[T] {
	ordered := slices.Clone(items)
	slices.SortStableFunc(ordered, func(a, b model.Item[T]) int {
		if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
			return c
		}
		return cmp.Compare(b.Box.Volume(), a.Box.Volume())
	})
	return ordered
}
