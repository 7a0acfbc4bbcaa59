// Package model defines the core domain entities for the bin packing service.
package model

import "github.com/guttosm/binpack-service/internal/domain/geometry"

// Item is something to be packed: an opaque payload, its dimensions and its
// weight.
type Item[T any] struct {
	Content T
	Box     geometry.Box
	Weight  uint
}

// NewItem returns an item carrying content.
func NewItem[T any](content T, box geometry.Box, weight uint) Item[T] {
	return Item[T]{Content: content, Box: box, Weight: weight}
}

// PlacedItem is an item together with the region it occupies. Position may
// be a rotation of Item.Box.
type PlacedItem[T any] struct {
	Item[T]
	Position geometry.PositionedBox
}

// Rotated reports whether the item was placed in an orientation other than
// the one it was given in.
func (p PlacedItem[T]) Rotated() bool {
	return p.Position.Box() != p.Box
}
