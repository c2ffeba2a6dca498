package packing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCapacity is returned when the bin capacity is not a positive integer.
	ErrInvalidCapacity = errors.New("bin capacity must be a positive integer")
	// ErrInvalidItem is returned when an item size is not a positive integer.
	ErrInvalidItem = errors.New("item size must be a positive integer")
	// ErrItemTooLarge is returned when an item can never fit into an empty bin.
	ErrItemTooLarge = errors.New("item size exceeds bin capacity")
	// ErrUnknownAlgorithm is returned when an algorithm name cannot be resolved.
	ErrUnknownAlgorithm = errors.New("unknown packing algorithm")
)

// ItemError identifies the input item that failed validation.
// Index refers to the position in the caller's sequence, not the sorted one.
type ItemError struct {
	Index    int
	Size     int
	Capacity int
	Err      error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d (size %d, capacity %d): %v", e.Index, e.Size, e.Capacity, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
