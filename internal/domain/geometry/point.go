// Package geometry provides the axis-aligned primitives used by the packer:
// points, boxes and boxes placed in space.
package geometry

import "fmt"

// Point is a location in the container's coordinate space. X runs along the
// width, Y along the height and Z along the depth.
type Point struct {
	X uint `json:"x" bson:"x" example:"0"`
	Y uint `json:"y" bson:"y" example:"0"`
	Z uint `json:"z" bson:"z" example:"0"`
}

// NewPoint returns the point (x, y, z).
func NewPoint(x, y, z uint) Point {
	return Point{X: x, Y: y, Z: z}
}

// Origin is the container corner every placement is measured from.
var Origin = Point{}

// Add offsets p by the dimensions of b.
func (p Point) Add(b Box) Point {
	return Point{X: p.X + b.Width, Y: p.Y + b.Height, Z: p.Z + b.Depth}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}
