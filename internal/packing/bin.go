package packing

import (
	"cmp"
	"slices"

	"github.com/guttosm/binpack-service/internal/domain/geometry"
	"github.com/guttosm/binpack-service/internal/domain/model"
)

// Bin is a container being filled. It is not safe for concurrent use.
type Bin[T any] struct {
	box       geometry.Box
	bounds    geometry.PositionedBox
	maxWeight uint

	items []model.PlacedItem[T]

	itemsWeight        uint
	weightCapacityLeft uint
	itemsVolume        uint
	volumeCapacityLeft uint
}

// NewBin returns an empty bin of the given size and weight limit.
func NewBin[T any](box geometry.Box, maxWeight uint) (*Bin[T], error) {
	if box.Volume() == 0 {
		return nil, ErrZeroVolume
	}
	if maxWeight == 0 {
		return nil, ErrZeroMaxWeight
	}
	b := &Bin[T]{
		box:       box,
		bounds:    geometry.Place(geometry.Origin, box),
		maxWeight: maxWeight,
	}
	b.recompute()
	return b, nil
}

// Box returns the container dimensions.
func (b *Bin[T]) Box() geometry.Box { return b.box }

// MaxWeight returns the container weight limit.
func (b *Bin[T]) MaxWeight() uint { return b.maxWeight }

// ItemsWeight returns the summed weight of the placed items.
func (b *Bin[T]) ItemsWeight() uint { return b.itemsWeight }

// WeightCapacityLeft returns MaxWeight minus ItemsWeight.
func (b *Bin[T]) WeightCapacityLeft() uint { return b.weightCapacityLeft }

// ItemsVolume returns the summed volume of the placed items.
func (b *Bin[T]) ItemsVolume() uint { return b.itemsVolume }

// VolumeCapacityLeft returns the container volume minus ItemsVolume.
func (b *Bin[T]) VolumeCapacityLeft() uint { return b.volumeCapacityLeft }

// Len returns the number of placed items.
func (b *Bin[T]) Len() int { return len(b.items) }

// Items returns the placed items in insertion order. The slice is a copy.
func (b *Bin[T]) Items() []model.PlacedItem[T] {
	return slices.Clone(b.items)
}

// CloneEmpty returns a new bin with the same size and weight limit and no
// items.
func (b *Bin[T]) CloneEmpty() *Bin[T] {
	c := &Bin[T]{
		box:       b.box,
		bounds:    b.bounds,
		maxWeight: b.maxWeight,
	}
	c.recompute()
	return c
}

// TryAdd places item at the first free position found by the search and
// reports whether it succeeded. On failure the bin is left unchanged.
//
// Candidate positions are tried level by level from the floor up. A level is
// the floor or the top of an already placed item. Within a level,
// orientations are tried from lowest to tallest, and anchors from front to
// back, left to right. An anchor is the level's origin or a top corner of an
// item that spans the level.
func (b *Bin[T]) TryAdd(item model.Item[T]) bool {
	if b.weightCapacityLeft < item.Weight {
		return false
	}

	orientations := item.Box.Orientations()
	slices.SortStableFunc(orientations, func(x, y geometry.Box) int {
		return cmp.Compare(x.Height, y.Height)
	})

	for _, level := range b.levels() {
		anchors := b.anchors(level)
		for _, o := range orientations {
			for _, p := range anchors {
				candidate := geometry.Place(p, o)
				if !b.fits(candidate) {
					continue
				}
				b.items = append(b.items, model.PlacedItem[T]{Item: item, Position: candidate})
				b.recompute()
				return true
			}
		}
	}
	return false
}

func (b *Bin[T]) fits(candidate geometry.PositionedBox) bool {
	if !b.bounds.Contains(candidate) {
		return false
	}
	for _, placed := range b.items {
		if placed.Position.Intersects(candidate) {
			return false
		}
	}
	return true
}

// levels returns the floor plus every placed item's top that is still below
// the ceiling, ascending and without duplicates.
func (b *Bin[T]) levels() []uint {
	levels := make([]uint, 0, len(b.items)+1)
	levels = append(levels, 0)
	for _, placed := range b.items {
		if top := placed.Position.Max().Y; top < b.box.Height {
			levels = append(levels, top)
		}
	}
	slices.Sort(levels)
	return slices.Compact(levels)
}

// anchors returns the candidate minimum corners at the given level, sorted by
// Z then X and without duplicates.
func (b *Bin[T]) anchors(level uint) []geometry.Point {
	points := make([]geometry.Point, 0, 4*len(b.items)+1)
	points = append(points, geometry.NewPoint(0, level, 0))
	for _, placed := range b.items {
		lo, hi := placed.Position.Min(), placed.Position.Max()
		if lo.Y > level || level > hi.Y {
			continue
		}
		points = append(points,
			geometry.NewPoint(lo.X, level, lo.Z),
			geometry.NewPoint(hi.X, level, lo.Z),
			geometry.NewPoint(lo.X, level, hi.Z),
			geometry.NewPoint(hi.X, level, hi.Z),
		)
	}
	slices.SortFunc(points, func(p, q geometry.Point) int {
		if c := cmp.Compare(p.Z, q.Z); c != 0 {
			return c
		}
		return cmp.Compare(p.X, q.X)
	})
	return slices.Compact(points)
}

// recompute derives the aggregates from the placed items.
func (b *Bin[T]) recompute() {
	var weight, volume uint
	for _, placed := range b.items {
		weight += placed.Weight
		volume += placed.Box.Volume()
	}
	b.itemsWeight = weight
	b.weightCapacityLeft = b.maxWeight - weight
	b.itemsVolume = volume
	b.volumeCapacityLeft = b.box.Volume() - volume
}
