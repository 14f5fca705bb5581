package handler

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/abgdnv/inventory/internal/product/service"
	"github.com/abgdnv/inventory/internal/product/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingProductService overrides Create to simulate an unexpected service error.
type failingProductService struct {
	service.ProductService
	error error
}

func (m failingProductService) Create(_ service.ProductCreateDto) (*store.Product, error) {
	return nil, m.error
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) service.ProductService {
	t.Helper()
	svc := service.NewService(store.NewInMemoryStore(
		store.Product{ID: 1, Name: "Widget", Category: "Hardware", Price: 19.50, Quantity: 100},
		store.Product{ID: 2, Name: "Gadget", Category: "Electronics", Price: 9.99, Quantity: 42},
	), discardLogger())
	require.NoError(t, svc.Load())
	return svc
}

func runShell(t *testing.T, svc service.ProductService, input ...string) string {
	t.Helper()
	var out bytes.Buffer
	shell := NewShell(svc, strings.NewReader(strings.Join(input, "\n")+"\n"), &out, "Rp", discardLogger())
	require.NoError(t, shell.Run())
	return out.String()
}

func Test_Shell_Actions(t *testing.T) {
	testCases := []struct {
		name     string
		input    []string
		contains []string
		absent   []string
	}{
		{
			name:  "list all",
			input: []string{"1", "8"},
			contains: []string{
				"=== INVENTORY MANAGER ===",
				"ID: 1 | Widget | Hardware | Rp19.50 | Stock: 100",
				"ID: 2 | Gadget | Electronics | Rp9.99 | Stock: 42",
			},
		},
		{
			name:     "add product",
			input:    []string{"2", "Gizmo", "Toys", "4.5", "3", "1", "8"},
			contains: []string{"Product added with ID 3.", "ID: 3 | Gizmo | Toys | Rp4.50 | Stock: 3"},
		},
		{
			name:     "add rejects negative price",
			input:    []string{"2", "Gizmo", "Toys", "-1", "3", "1", "8"},
			contains: []string{"Rejected: invalid product: Price failed on rule: gte"},
			absent:   []string{"Gizmo |"},
		},
		{
			name:     "add with malformed price keeps the session alive",
			input:    []string{"2", "Gizmo", "Toys", "cheap", "1", "8"},
			contains: []string{`Invalid number: "cheap"`, "ID: 1 | Widget"},
			absent:   []string{"Gizmo |"},
		},
		{
			name:     "update stock",
			input:    []string{"3", "2", "7", "1", "8"},
			contains: []string{"Stock updated.", "ID: 2 | Gadget | Electronics | Rp9.99 | Stock: 7"},
		},
		{
			name:     "update stock of unknown id does not ask for quantity",
			input:    []string{"3", "99", "8"},
			contains: []string{"Product not found."},
			absent:   []string{"New stock: "},
		},
		{
			name:     "delete product",
			input:    []string{"4", "1", "1", "8"},
			contains: []string{"Product deleted."},
			absent:   []string{"ID: 1 | Widget"},
		},
		{
			name:     "delete unknown id",
			input:    []string{"4", "99", "8"},
			contains: []string{"Product not found."},
		},
		{
			name:     "search is case-insensitive",
			input:    []string{"5", "WID", "8"},
			contains: []string{"ID: 1 | Widget"},
			absent:   []string{"ID: 2 | Gadget"},
		},
		{
			name:     "search without match",
			input:    []string{"5", "sprocket", "8"},
			contains: []string{"No products found."},
		},
		{
			name:     "sort by price",
			input:    []string{"6", "price", "8"},
			contains: []string{"ID: 2 | Gadget | Electronics | Rp9.99 | Stock: 42\nID: 1 | Widget"},
		},
		{
			name:     "filter by price",
			input:    []string{"7", "10", "20", "8"},
			contains: []string{"ID: 1 | Widget"},
			absent:   []string{"ID: 2 | Gadget"},
		},
		{
			name:     "filter with inverted range",
			input:    []string{"7", "20", "10", "8"},
			contains: []string{"No products found."},
		},
		{
			name:     "invalid choice",
			input:    []string{"9", "8"},
			contains: []string{"Invalid choice."},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			svc := newTestService(t)
			// when
			out := runShell(t, svc, tc.input...)
			// then
			for _, want := range tc.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tc.absent {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func Test_Shell_EndOfInput(t *testing.T) {
	t.Run("at the menu", func(t *testing.T) {
		var out bytes.Buffer
		shell := NewShell(newTestService(t), strings.NewReader(""), &out, "", discardLogger())

		assert.NoError(t, shell.Run())
	})

	t.Run("in the middle of a dialog", func(t *testing.T) {
		svc := newTestService(t)
		var out bytes.Buffer
		shell := NewShell(svc, strings.NewReader("2\nGizmo\n"), &out, "", discardLogger())

		assert.NoError(t, shell.Run())
		assert.Len(t, svc.FindAll(), 2)
	})
}

func Test_Shell_UnexpectedServiceError(t *testing.T) {
	// given
	svc := failingProductService{error: errors.New("boom")}
	var out bytes.Buffer
	shell := NewShell(svc, strings.NewReader("2\nGizmo\nToys\n1\n1\n8\n"), &out, "", discardLogger())
	// when
	err := shell.Run()
	// then
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Error: boom")
}

func Test_Shell_LongInputLine(t *testing.T) {
	// given
	svc := newTestService(t)
	keyword := strings.Repeat("w", 70000)
	// when
	out := runShell(t, svc, "5", keyword, "3", "1", "5", "8")
	// then
	assert.Contains(t, out, "No products found.")
	assert.Contains(t, out, "Stock updated.")
	found, err := svc.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)
}

func Test_Shell_LastLineWithoutNewline(t *testing.T) {
	// given
	svc := newTestService(t)
	var out bytes.Buffer
	shell := NewShell(svc, strings.NewReader("4\n1"), &out, "", discardLogger())
	// when
	err := shell.Run()
	// then
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Product deleted.")
}
