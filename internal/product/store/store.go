// Package store provides the product record and its flat-file persistence.
package store

// Product represents a single inventory record.
type Product struct {
	ID       int
	Name     string
	Category string
	Price    float64
	Quantity int
}

// ProductStore is an interface for loading and saving the whole product list.
// It abstracts the underlying medium, allowing for different implementations (e.g., flat file, in-memory).
type ProductStore interface {
	// Load returns every stored product in file order.
	// Returns an empty slice if nothing has been stored yet.
	Load() ([]Product, error)

	// Save replaces the stored list with products.
	Save(products []Product) error
}
