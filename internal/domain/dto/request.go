// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"strings"

	"github.com/guttosm/binpack-service/internal/domain/model"
)

// ContainerRequest describes an explicit container.
//
// @Description Container dimensions and weight limit
type ContainerRequest struct {
	Width     uint `json:"width" form:"width" example:"590"`
	Height    uint `json:"height" form:"height" example:"239"`
	Depth     uint `json:"depth" form:"depth" example:"235"`
	MaxWeight uint `json:"max_weight" form:"max_weight" example:"28200"`
} // @name ContainerRequest

// ItemRequest is one item line. Quantity 0 or omitted means 1.
//
// @Description Item line; quantity expands into id#1..id#n
type ItemRequest struct {
	ID       string `json:"id" example:"crate"`
	Label    string `json:"label,omitempty" example:"Wooden crate"`
	Width    uint   `json:"width" example:"120"`
	Height   uint   `json:"height" example:"80"`
	Depth    uint   `json:"depth" example:"100"`
	Weight   uint   `json:"weight" example:"35"`
	Quantity uint   `json:"quantity,omitempty" example:"4"`
} // @name ItemRequest

// AllocateRequest represents the JSON request body for the allocate endpoint.
//
// Either Profile or Container must be given. Profile wins when both are set.
//
// @Description Request to pack items into one container
// @Example {"profile": "20ft", "items": [{"id": "crate", "width": 120, "height": 80, "depth": 100, "weight": 35, "quantity": 4}]}
type AllocateRequest struct {
	Profile   string            `json:"profile,omitempty" example:"20ft"`
	Container *ContainerRequest `json:"container,omitempty"`
	Items     []ItemRequest     `json:"items"`
} // @name AllocateRequest

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrContainerRequired is returned when neither profile nor container is set.
	ErrContainerRequired = &ValidationError{
		Field:   "container",
		Message: "either profile or container is required",
	}
	// ErrItemsRequired is returned when the items field is missing.
	ErrItemsRequired = &ValidationError{
		Field:   "items",
		Message: "is required",
	}
)

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate performs the structural checks; dimension rules are enforced
// by the allocator.
func (r *AllocateRequest) Validate() error {
	if strings.TrimSpace(r.Profile) == "" && r.Container == nil {
		return ErrContainerRequired
	}
	if r.Items == nil {
		return ErrItemsRequired
	}
	return nil
}

// ToModel converts the request into the allocator's input.
func (r *AllocateRequest) ToModel() model.AllocationRequest {
	req := model.AllocationRequest{
		Profile: strings.TrimSpace(r.Profile),
		Items:   ItemSpecs(r.Items),
	}
	if r.Container != nil {
		req.Container = r.Container.ToModel()
	}
	return req
}

// ToModel converts the container description.
func (c ContainerRequest) ToModel() model.Container {
	return model.Container{Width: c.Width, Height: c.Height, Depth: c.Depth, MaxWeight: c.MaxWeight}
}

// ItemSpecs converts item lines into model specs.
func ItemSpecs(items []ItemRequest) []model.ItemSpec {
	specs := make([]model.ItemSpec, len(items))
	for i, it := range items {
		specs[i] = model.ItemSpec(it)
	}
	return specs
}

// ImportForm holds the non-file fields of the multipart import endpoint.
type ImportForm struct {
	Profile string `form:"profile"`
	ContainerRequest
}

// Validate checks that the form names a container.
func (f *ImportForm) Validate() error {
	if strings.TrimSpace(f.Profile) == "" && f.ContainerRequest == (ContainerRequest{}) {
		return ErrContainerRequired
	}
	return nil
}

// ToModel builds an allocation request around imported items.
func (f *ImportForm) ToModel(items []model.ItemSpec) model.AllocationRequest {
	return model.AllocationRequest{
		Profile:   strings.TrimSpace(f.Profile),
		Container: f.ContainerRequest.ToModel(),
		Items:     items,
	}
}

// UpsertProfileRequest represents the JSON body for PUT /api/profiles/:name.
// The name comes from the path.
//
// @Description Container profile definition
type UpsertProfileRequest struct {
	Description string `json:"description,omitempty" example:"Refrigerated 20ft container"`
	Width       uint   `json:"width" binding:"required,gt=0" example:"545"`
	Height      uint   `json:"height" binding:"required,gt=0" example:"226"`
	Depth       uint   `json:"depth" binding:"required,gt=0" example:"229"`
	MaxWeight   uint   `json:"max_weight" binding:"required,gt=0" example:"27400"`
} // @name UpsertProfileRequest

// ToModel converts the request into a profile named name.
func (r *UpsertProfileRequest) ToModel(name string) model.ContainerProfile {
	return model.ContainerProfile{
		Name:        name,
		Description: r.Description,
		Width:       r.Width,
		Height:      r.Height,
		Depth:       r.Depth,
		MaxWeight:   r.MaxWeight,
	}
}
