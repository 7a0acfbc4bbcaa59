package geometry

import (
	"errors"
	"fmt"
)

// ErrInvertedCorners is returned when the lower corner of a positioned box
// lies above its upper corner on any axis.
var ErrInvertedCorners = errors.New("positioned box: min corner exceeds max corner")

// PositionedBox is a cuboid anchored in space by its minimum and maximum
// corners. The zero value is a degenerate box at the origin.
type PositionedBox struct {
	min Point
	max Point
}

// NewPositionedBox builds a box spanning from p0 to p1.
func NewPositionedBox(p0, p1 Point) (PositionedBox, error) {
	if p0.X > p1.X || p0.Y > p1.Y || p0.Z > p1.Z {
		return PositionedBox{}, fmt.Errorf("%w: %s > %s", ErrInvertedCorners, p0, p1)
	}
	return PositionedBox{min: p0, max: p1}, nil
}

// Place anchors b with its minimum corner at p.
func Place(p Point, b Box) PositionedBox {
	return PositionedBox{min: p, max: p.Add(b)}
}

// Min returns the lower corner.
func (pb PositionedBox) Min() Point { return pb.min }

// Max returns the upper corner.
func (pb PositionedBox) Max() Point { return pb.max }

// Box returns the dimensions of pb.
func (pb PositionedBox) Box() Box {
	return Box{
		Width:  pb.max.X - pb.min.X,
		Height: pb.max.Y - pb.min.Y,
		Depth:  pb.max.Z - pb.min.Z,
	}
}

// Intersects reports whether pb and other share interior volume. Boxes that
// only touch on a face, edge or corner do not intersect.
func (pb PositionedBox) Intersects(other PositionedBox) bool {
	return pb.min.X < other.max.X && pb.max.X > other.min.X &&
		pb.min.Y < other.max.Y && pb.max.Y > other.min.Y &&
		pb.min.Z < other.max.Z && pb.max.Z > other.min.Z
}

// Contains reports whether other lies within pb, boundaries included.
func (pb PositionedBox) Contains(other PositionedBox) bool {
	return pb.min.X <= other.min.X && other.max.X <= pb.max.X &&
		pb.min.Y <= other.min.Y && other.max.Y <= pb.max.Y &&
		pb.min.Z <= other.min.Z && other.max.Z <= pb.max.Z
}

func (pb PositionedBox) String() string {
	return fmt.Sprintf("[%s-%s]", pb.min, pb.max)
}
