package storage

import (
	"errors"
	"sync"
)

// DefaultCapacity is the bin capacity used when none is configured.
const DefaultCapacity = 10

var (
	// ErrInvalidCapacity indicates the provided bin capacity is not a positive integer.
	ErrInvalidCapacity = errors.New("bin capacity must be a positive integer")
)

// Storage provides access to the default bin capacity used by the packers.
type Storage interface {
	GetCapacity() (int, error)
	SetCapacity(capacity int) error
}

// MemoryStorage keeps the bin capacity in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu       sync.RWMutex
	capacity int
}

// NewMemoryStorage initialises storage with DefaultCapacity.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		capacity: DefaultCapacity,
	}
}

// GetCapacity returns the currently configured bin capacity.
func (s *MemoryStorage) GetCapacity() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.capacity, nil
}

// SetCapacity validates and stores the provided bin capacity.
func (s *MemoryStorage) SetCapacity(capacity int) error {
	if capacity <= 0 {
		return ErrInvalidCapacity
	}

	s.mu.Lock()
	s.capacity = capacity
	s.mu.Unlock()

	return nil
}
