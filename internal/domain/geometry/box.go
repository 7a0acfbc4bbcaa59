package geometry

import "fmt"

// Box is an unpositioned cuboid.
//
// @Description Cuboid dimensions in integer units
type Box struct {
	Width  uint `json:"width" bson:"width" example:"10"`
	Height uint `json:"height" bson:"height" example:"10"`
	Depth  uint `json:"depth" bson:"depth" example:"10"`
}

// NewBox returns a box with the given width, height and depth.
func NewBox(width, height, depth uint) Box {
	return Box{Width: width, Height: height, Depth: depth}
}

// Volume returns width*height*depth.
func (b Box) Volume() uint {
	return b.Width * b.Height * b.Depth
}

// MaxDimension returns the largest of the three edges.
func (b Box) MaxDimension() uint {
	return max(b.Width, b.Height, b.Depth)
}

// RotateX turns the box a quarter around the X axis, swapping height and depth.
func (b Box) RotateX() Box {
	return Box{Width: b.Width, Height: b.Depth, Depth: b.Height}
}

// RotateY turns the box a quarter around the Y axis, swapping width and depth.
func (b Box) RotateY() Box {
	return Box{Width: b.Depth, Height: b.Height, Depth: b.Width}
}

// RotateZ turns the box a quarter around the Z axis, swapping width and height.
func (b Box) RotateZ() Box {
	return Box{Width: b.Height, Height: b.Width, Depth: b.Depth}
}

// Orientations returns the six axis-aligned orientations of b in a fixed
// order: original, X, Y, Z, X then Z, Y then Z. Cubes and boxes with equal
// edges yield duplicates; callers get all six regardless.
func (b Box) Orientations() []Box {
	return []Box{
		b,
		b.RotateX(),
		b.RotateY(),
		b.RotateZ(),
		b.RotateX().RotateZ(),
		b.RotateY().RotateZ(),
	}
}

func (b Box) String() string {
	return fmt.Sprintf("%dx%dx%d", b.Width, b.Height, b.Depth)
}
