// Package packing places items into a single container using a greedy,
// layer based search.
package packing

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the parent of every input validation failure.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	// ErrNilBin is returned when Allocate is called without a container.
	ErrNilBin = fmt.Errorf("%w: bin is nil", ErrInvalidArgument)
	// ErrNilItems is returned when Allocate is called without an item list.
	ErrNilItems = fmt.Errorf("%w: items is nil", ErrInvalidArgument)
	// ErrZeroVolume is returned for a container with a zero edge.
	ErrZeroVolume = fmt.Errorf("%w: bin volume must be positive", ErrInvalidArgument)
	// ErrZeroMaxWeight is returned for a container that cannot carry anything.
	ErrZeroMaxWeight = fmt.Errorf("%w: bin max weight must be positive", ErrInvalidArgument)
	// ErrItemsTooHeavy is returned when a single item outweighs the container limit.
	ErrItemsTooHeavy = fmt.Errorf("%w: items too heavy", ErrInvalidArgument)
	// ErrItemsDoNotFit is returned when an item edge exceeds the container's longest edge.
	ErrItemsDoNotFit = fmt.Errorf("%w: items do not fit", ErrInvalidArgument)
)

// ErrInfeasible is returned when the batch passed validation but the search
// could not place every item.
var ErrInfeasible = errors.New("items cannot be allocated to the bin")
