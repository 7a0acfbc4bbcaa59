package model

import (
	"strconv"

	"github.com/guttosm/binpack-service/internal/domain/geometry"
)

// ItemRef identifies one physical item inside a packing run.
type ItemRef struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// ItemSpec describes a line of an allocation request. Quantity 0 means 1.
type ItemSpec struct {
	ID       string `json:"id"`
	Label    string `json:"label,omitempty"`
	Width    uint   `json:"width"`
	Height   uint   `json:"height"`
	Depth    uint   `json:"depth"`
	Weight   uint   `json:"weight"`
	Quantity uint   `json:"quantity,omitempty"`
}

// Box returns the item's dimensions.
func (s ItemSpec) Box() geometry.Box {
	return geometry.NewBox(s.Width, s.Height, s.Depth)
}

// Count returns the effective quantity.
func (s ItemSpec) Count() uint {
	if s.Quantity == 0 {
		return 1
	}
	return s.Quantity
}

// Valid reports whether the spec has an id and a positive size.
func (s ItemSpec) Valid() bool {
	return s.ID != "" && s.Width > 0 && s.Height > 0 && s.Depth > 0
}

// Expand returns one packing item per unit. Copies are named id#1..id#n
// when the quantity is above one.
func (s ItemSpec) Expand() []Item[ItemRef] {
	n := s.Count()
	items := make([]Item[ItemRef], 0, n)
	for k := uint(1); k <= n; k++ {
		id := s.ID
		if n > 1 {
			id = s.ID + "#" + strconv.FormatUint(uint64(k), 10)
		}
		items = append(items, NewItem(ItemRef{ID: id, Label: s.Label}, s.Box(), s.Weight))
	}
	return items
}

// AllocationRequest asks for items to be packed into one container.
// When Profile is set the named profile replaces Container.
type AllocationRequest struct {
	Profile   string     `json:"profile,omitempty"`
	Container Container  `json:"container"`
	Items     []ItemSpec `json:"items"`
}

// TotalUnits returns the number of items after quantity expansion.
func (r AllocationRequest) TotalUnits() uint {
	var total uint
	for _, s := range r.Items {
		total += s.Count()
	}
	return total
}
