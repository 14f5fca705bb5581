package store

import (
	"slices"
	"sync"
)

// inMemory implements ProductStore by keeping a copy of the last saved list.
type inMemory struct {
	mu       sync.RWMutex
	products []Product
}

// NewInMemoryStore creates a new instance of ProductStore seeded with products.
func NewInMemoryStore(products ...Product) ProductStore {
	return &inMemory{
		products: slices.Clone(products),
	}
}

// Load returns a copy of the stored products.
func (s *inMemory) Load() ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, len(s.products))
	copy(list, s.products)
	return list, nil
}

// Save replaces the stored products with a copy of products.
func (s *inMemory) Save(products []Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = slices.Clone(products)
	return nil
}
