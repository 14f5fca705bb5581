// Package service provides the implementation of product-related business logic.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	producterrors "github.com/abgdnv/inventory/internal/product/errors"
	"github.com/abgdnv/inventory/internal/product/store"
	"github.com/go-playground/validator/v10"
)

// ProductService defines the methods for managing the product list of one session.
// It owns the list between Load and Save.
type ProductService interface {
	// Load replaces the session list with the stored products.
	Load() error

	// Save persists the session list, overwriting what was stored before.
	Save() error

	// FindAll returns a copy of the session list in its current order.
	FindAll() []store.Product

	// FindByID retrieves the first product with the given id.
	// Returns ErrProductNotFound if no product has that id.
	FindByID(id int) (*store.Product, error)

	// Create validates and appends a new product with the next free id.
	// Returns ErrInvalidProduct if a field fails validation.
	Create(product ProductCreateDto) (*store.Product, error)

	// UpdateQuantity sets the quantity of the product with the given id.
	// Returns ErrProductNotFound if no product has that id.
	UpdateQuantity(id int, quantity int) (*store.Product, error)

	// DeleteByID removes every product with the given id and returns the count.
	// Returns ErrProductNotFound if nothing was removed.
	DeleteByID(id int) (int, error)

	// Search returns products whose name contains keyword, ignoring case.
	Search(keyword string) []store.Product

	// Sort reorders the session list by "price" or "quantity"; other criteria are ignored.
	Sort(criterion string)

	// FilterByPrice returns products priced within [minPrice, maxPrice].
	FilterByPrice(minPrice, maxPrice float64) []store.Product
}

// ProductCreateDto carries the user-supplied fields of a new product.
type ProductCreateDto struct {
	Name     string  `validate:"required,max=100"`
	Category string  `validate:"max=100"`
	Price    float64 `validate:"gte=0"`
	Quantity int     `validate:"gte=0"`
}

// stockUpdateDto carries a new quantity for an existing product.
type stockUpdateDto struct {
	Quantity int `validate:"gte=0"`
}

// service implements ProductService on top of a ProductStore.
type service struct {
	repository store.ProductStore
	products   []store.Product
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore, logger *slog.Logger) ProductService {
	return &service{
		repository: repo,
		products:   []store.Product{},
		validate:   validator.New(),
		logger:     logger.With("component", "service"),
	}
}

// Load reads the stored products into the session.
func (s *service) Load() error {
	products, err := s.repository.Load()
	if err != nil {
		s.logger.Error("Error loading products", "error", err)
		return fmt.Errorf("failed to load products: %w", err)
	}
	s.products = products
	s.logger.Info("Products loaded", "count", len(products))
	return nil
}

// Save writes the session list back to the store.
func (s *service) Save() error {
	if err := s.repository.Save(s.products); err != nil {
		s.logger.Error("Error saving products", "error", err)
		return fmt.Errorf("failed to save products: %w", err)
	}
	s.logger.Info("Products saved", "count", len(s.products))
	return nil
}

func (s *service) FindAll() []store.Product {
	return slices.Clone(s.products)
}

func (s *service) FindByID(id int) (*store.Product, error) {
	i := slices.IndexFunc(s.products, func(p store.Product) bool { return p.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("failed to find product by ID %d: %w", id, producterrors.ErrProductNotFound)
	}
	found := s.products[i]
	return &found, nil
}

func (s *service) Create(product ProductCreateDto) (*store.Product, error) {
	if err := s.validateStruct(product); err != nil {
		s.logger.Warn("Rejected new product", "name", product.Name, "error", err)
		return nil, err
	}

	created := Add(&s.products, product.Name, product.Category, product.Price, product.Quantity)
	s.logger.Info("Product created", "ID", created.ID, "Name", created.Name)
	return &created, nil
}

func (s *service) UpdateQuantity(id int, quantity int) (*store.Product, error) {
	if err := s.validateStruct(stockUpdateDto{Quantity: quantity}); err != nil {
		s.logger.Warn("Rejected stock update", "ID", id, "error", err)
		return nil, err
	}
	if !UpdateQuantity(s.products, id, quantity) {
		s.logger.Warn("Product not found for stock update", "ID", id)
		return nil, fmt.Errorf("failed to update stock for product %d: %w", id, producterrors.ErrProductNotFound)
	}
	s.logger.Info("Stock updated", "ID", id, "NewQuantity", quantity)
	return s.FindByID(id)
}

func (s *service) DeleteByID(id int) (int, error) {
	removed := Remove(&s.products, id)
	if removed == 0 {
		s.logger.Warn("Product not found for deletion", "ID", id)
		return 0, fmt.Errorf("failed to delete product %d: %w", id, producterrors.ErrProductNotFound)
	}
	s.logger.Info("Product deleted", "ID", id, "removed", removed)
	return removed, nil
}

func (s *service) Search(keyword string) []store.Product {
	found := Search(s.products, keyword)
	s.logger.Debug("Search finished", "keyword", keyword, "count", len(found))
	return found
}

func (s *service) Sort(criterion string) {
	SortBy(s.products, criterion)
	s.logger.Debug("Products sorted", "criterion", criterion)
}

func (s *service) FilterByPrice(minPrice, maxPrice float64) []store.Product {
	found := FilterByPriceRange(s.products, minPrice, maxPrice)
	s.logger.Debug("Price filter finished", "min", minPrice, "max", maxPrice, "count", len(found))
	return found
}

// validateStruct runs the validator and flattens field errors into ErrInvalidProduct.
func (s *service) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %w", producterrors.ErrInvalidProduct, err)
	}
	rules := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		rules = append(rules, fieldErr.Field()+" failed on rule: "+fieldErr.Tag())
	}
	return fmt.Errorf("%w: %s", producterrors.ErrInvalidProduct, strings.Join(rules, ", "))
}
