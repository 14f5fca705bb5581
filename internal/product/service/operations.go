package service

import (
	"cmp"
	"slices"
	"strings"

	"github.com/abgdnv/inventory/internal/product/store"
)

const (
	SortByPrice    = "price"
	SortByQuantity = "quantity"
)

// Search returns the products whose name contains keyword, ignoring case.
func Search(products []store.Product, keyword string) []store.Product {
	keyword = strings.ToLower(keyword)
	result := make([]store.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), keyword) {
			result = append(result, p)
		}
	}
	return result
}

// SortBy stably sorts products in place by price or quantity, ascending.
// Any other criterion leaves the list untouched.
func SortBy(products []store.Product, criterion string) {
	switch {
	case strings.EqualFold(criterion, SortByPrice):
		slices.SortStableFunc(products, func(a, b store.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case strings.EqualFold(criterion, SortByQuantity):
		slices.SortStableFunc(products, func(a, b store.Product) int {
			return cmp.Compare(a.Quantity, b.Quantity)
		})
	}
}

// FilterByPriceRange returns the products priced within [minPrice, maxPrice].
func FilterByPriceRange(products []store.Product, minPrice, maxPrice float64) []store.Product {
	result := make([]store.Product, 0)
	for _, p := range products {
		if p.Price >= minPrice && p.Price <= maxPrice {
			result = append(result, p)
		}
	}
	return result
}

// Add appends a new product with the next free id and returns it.
// The values are not validated here.
func Add(products *[]store.Product, name, category string, price float64, quantity int) store.Product {
	product := store.Product{
		ID:       nextID(*products),
		Name:     name,
		Category: category,
		Price:    price,
		Quantity: quantity,
	}
	*products = append(*products, product)
	return product
}

// UpdateQuantity sets the quantity of the first product with the given id.
// It reports whether such a product was found.
func UpdateQuantity(products []store.Product, id, quantity int) bool {
	for i := range products {
		if products[i].ID == id {
			products[i].Quantity = quantity
			return true
		}
	}
	return false
}

// Remove deletes every product with the given id and returns how many were removed.
func Remove(products *[]store.Product, id int) int {
	before := len(*products)
	*products = slices.DeleteFunc(*products, func(p store.Product) bool {
		return p.ID == id
	})
	return before - len(*products)
}

func nextID(products []store.Product) int {
	maxID := 0
	for _, p := range products {
		maxID = max(maxID, p.ID)
	}
	return maxID + 1
}
