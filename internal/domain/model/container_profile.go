package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/binpack-service/internal/domain/geometry"
)

// ContainerProfile is a named container preset, e.g. a standard shipping
// container or a pallet footprint.
type ContainerProfile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id" yaml:"-"`
	Name        string             `bson:"name" json:"name" yaml:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty" yaml:"description"`
	Width       uint               `bson:"width" json:"width" yaml:"width"`
	Height      uint               `bson:"height" json:"height" yaml:"height"`
	Depth       uint               `bson:"depth" json:"depth" yaml:"depth"`
	MaxWeight   uint               `bson:"max_weight" json:"max_weight" yaml:"max_weight"`
	Version     int                `bson:"version" json:"version" yaml:"-"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at" yaml:"-"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at" yaml:"-"`
	UpdatedBy   string             `bson:"updated_by,omitempty" json:"updated_by,omitempty" yaml:"-"`
}

// Box returns the profile's dimensions.
func (p ContainerProfile) Box() geometry.Box {
	return geometry.NewBox(p.Width, p.Height, p.Depth)
}

// Container converts the profile into the container description stored on
// an allocation.
func (p ContainerProfile) Container() Container {
	return Container{
		Profile:   p.Name,
		Width:     p.Width,
		Height:    p.Height,
		Depth:     p.Depth,
		MaxWeight: p.MaxWeight,
	}
}

// Valid reports whether the profile describes a usable container.
func (p ContainerProfile) Valid() bool {
	return strings.TrimSpace(p.Name) != "" && p.Box().Volume() > 0 && p.MaxWeight > 0
}

// DefaultContainerProfiles returns the built-in ISO container presets in
// centimetres and kilograms.
func DefaultContainerProfiles() []ContainerProfile {
	return []ContainerProfile{
		{Name: "20ft", Description: "ISO 20ft dry container", Width: 590, Height: 239, Depth: 235, MaxWeight: 28200},
		{Name: "40ft", Description: "ISO 40ft dry container", Width: 1203, Height: 239, Depth: 235, MaxWeight: 26700},
		{Name: "40hc", Description: "ISO 40ft high cube container", Width: 1203, Height: 269, Depth: 235, MaxWeight: 26500},
		{Name: "euro-pallet", Description: "EUR-pallet load, 1.8m stacking height", Width: 120, Height: 180, Depth: 80, MaxWeight: 1500},
	}
}
