package model

import (
	"slices"
	"time"

	"github.com/guttosm/binpack-service/internal/domain/geometry"
)

// Container describes the bin an allocation was computed for.
//
// @Description Container dimensions and weight limit
type Container struct {
	// Profile is the name of the container profile used, if any
	Profile   string `json:"profile,omitempty" bson:"profile,omitempty" example:"20ft"`
	Width     uint   `json:"width" bson:"width" example:"590"`
	Height    uint   `json:"height" bson:"height" example:"239"`
	Depth     uint   `json:"depth" bson:"depth" example:"235"`
	MaxWeight uint   `json:"max_weight" bson:"max_weight" example:"28200"`
}

// Box returns the container's dimensions.
func (c Container) Box() geometry.Box {
	return geometry.NewBox(c.Width, c.Height, c.Depth)
}

// Placement is the serialisable form of a placed item.
//
// @Description A packed item and the region it occupies
type Placement struct {
	ItemID  string         `json:"item_id" bson:"item_id" example:"crate-1"`
	Label   string         `json:"label,omitempty" bson:"label,omitempty" example:"Crate"`
	Weight  uint           `json:"weight" bson:"weight" example:"12"`
	Min     geometry.Point `json:"min" bson:"min"`
	Max     geometry.Point `json:"max" bson:"max"`
	Rotated bool           `json:"rotated" bson:"rotated"`
}

// Size returns the placed dimensions.
func (p Placement) Size() geometry.Box {
	return geometry.NewBox(p.Max.X-p.Min.X, p.Max.Y-p.Min.Y, p.Max.Z-p.Min.Z)
}

// Allocation is the result of packing a batch of items into a container.
//
// @Description Allocation result containing every placement and the container aggregates
type Allocation struct {
	ID                 string      `json:"id" bson:"_id" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
	Container          Container   `json:"container" bson:"container"`
	Placements         []Placement `json:"placements" bson:"placements"`
	ItemsWeight        uint        `json:"items_weight" bson:"items_weight" example:"48"`
	WeightCapacityLeft uint        `json:"weight_capacity_left" bson:"weight_capacity_left" example:"28152"`
	ItemsVolume        uint        `json:"items_volume" bson:"items_volume" example:"4000"`
	VolumeCapacityLeft uint        `json:"volume_capacity_left" bson:"volume_capacity_left" example:"33131650"`
	CreatedAt          time.Time   `json:"created_at" bson:"created_at"`
}

// VolumeUtilization returns the packed fraction of the container volume.
func (a Allocation) VolumeUtilization() float64 {
	total := a.ItemsVolume + a.VolumeCapacityLeft
	if total == 0 {
		return 0
	}
	return float64(a.ItemsVolume) / float64(total)
}

// Levels returns the distinct Y values at which placements start, ascending.
func (a Allocation) Levels() []uint {
	seen := make(map[uint]struct{}, len(a.Placements))
	levels := make([]uint, 0)
	for _, p := range a.Placements {
		if _, ok := seen[p.Min.Y]; ok {
			continue
		}
		seen[p.Min.Y] = struct{}{}
		levels = append(levels, p.Min.Y)
	}
	slices.Sort(levels)
	return levels
}

// AllocationSummary is a lightweight listing entry.
type AllocationSummary struct {
	ID          string    `json:"id" bson:"_id"`
	Container   Container `json:"container" bson:"container"`
	ItemCount   int       `json:"item_count" bson:"item_count"`
	ItemsWeight uint      `json:"items_weight" bson:"items_weight"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Summary returns the listing entry for a.
func (a Allocation) Summary() AllocationSummary {
	return AllocationSummary{
		ID:          a.ID,
		Container:   a.Container,
		ItemCount:   len(a.Placements),
		ItemsWeight: a.ItemsWeight,
		CreatedAt:   a.CreatedAt,
	}
}
