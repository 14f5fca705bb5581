// Package handler provides the interactive console shell for product operations.
package handler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	producterrors "github.com/abgdnv/inventory/internal/product/errors"
	"github.com/abgdnv/inventory/internal/product/service"
	"github.com/abgdnv/inventory/internal/product/store"
)

const menu = `
=== INVENTORY MANAGER ===
1. List all
2. Add product
3. Update stock
4. Delete product
5. Search products
6. Sort products
7. Filter by price
8. Save & exit
`

// errEndOfInput stops the session when the input is exhausted mid-dialog.
var errEndOfInput = errors.New("end of input")

// Shell is a line-based menu that maps each numbered action to a ProductService call.
type Shell struct {
	service  service.ProductService
	in       *bufio.Reader
	out      io.Writer
	currency string
	logger   *slog.Logger
}

// NewShell creates a Shell reading commands from in and writing to out.
// currency is printed in front of every price.
func NewShell(svc service.ProductService, in io.Reader, out io.Writer, currency string, logger *slog.Logger) *Shell {
	return &Shell{
		service:  svc,
		in:       bufio.NewReader(in),
		out:      out,
		currency: currency,
		logger:   logger.With("component", "shell"),
	}
}

// Run shows the menu until the user picks "Save & exit" or the input ends.
// Saving is left to the caller.
func (s *Shell) Run() error {
	for {
		fmt.Fprint(s.out, menu)
		choice, err := s.prompt("Choose: ")
		if err != nil {
			return s.endOfSession(err)
		}

		s.logger.Debug("Menu choice", "choice", choice)
		switch strings.TrimSpace(choice) {
		case "1":
			s.printProducts(s.service.FindAll())
		case "2":
			err = s.add()
		case "3":
			err = s.updateQuantity()
		case "4":
			err = s.delete()
		case "5":
			err = s.search()
		case "6":
			err = s.sort()
		case "7":
			err = s.filterByPrice()
		case "8":
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice.")
		}
		if err != nil {
			return s.endOfSession(err)
		}
	}
}

func (s *Shell) add() error {
	name, err := s.prompt("Name: ")
	if err != nil {
		return err
	}
	category, err := s.prompt("Category: ")
	if err != nil {
		return err
	}
	price, ok, err := s.promptFloat("Price: ")
	if !ok || err != nil {
		return err
	}
	quantity, ok, err := s.promptInt("Stock: ")
	if !ok || err != nil {
		return err
	}

	created, err := s.service.Create(service.ProductCreateDto{
		Name:     name,
		Category: category,
		Price:    price,
		Quantity: quantity,
	})
	if err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintf(s.out, "Product added with ID %d.\n", created.ID)
	return nil
}

func (s *Shell) updateQuantity() error {
	id, ok, err := s.promptInt("Product ID: ")
	if !ok || err != nil {
		return err
	}
	if _, err := s.service.FindByID(id); err != nil {
		s.report(err)
		return nil
	}
	quantity, ok, err := s.promptInt("New stock: ")
	if !ok || err != nil {
		return err
	}
	if _, err := s.service.UpdateQuantity(id, quantity); err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintln(s.out, "Stock updated.")
	return nil
}

func (s *Shell) delete() error {
	id, ok, err := s.promptInt("Product ID: ")
	if !ok || err != nil {
		return err
	}
	if _, err := s.service.DeleteByID(id); err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintln(s.out, "Product deleted.")
	return nil
}

func (s *Shell) search() error {
	keyword, err := s.prompt("Keyword: ")
	if err != nil {
		return err
	}
	s.printProducts(s.service.Search(keyword))
	return nil
}

func (s *Shell) sort() error {
	criterion, err := s.prompt("Sort by (price/quantity): ")
	if err != nil {
		return err
	}
	s.service.Sort(strings.TrimSpace(criterion))
	s.printProducts(s.service.FindAll())
	return nil
}

func (s *Shell) filterByPrice() error {
	minPrice, ok, err := s.promptFloat("Minimum price: ")
	if !ok || err != nil {
		return err
	}
	maxPrice, ok, err := s.promptFloat("Maximum price: ")
	if !ok || err != nil {
		return err
	}
	s.printProducts(s.service.FilterByPrice(minPrice, maxPrice))
	return nil
}

func (s *Shell) printProducts(products []store.Product) {
	fmt.Fprintln(s.out, "\nProducts:")
	if len(products) == 0 {
		fmt.Fprintln(s.out, "No products found.")
		return
	}
	for _, p := range products {
		fmt.Fprintf(s.out, "ID: %d | %s | %s | %s%.2f | Stock: %d\n",
			p.ID, p.Name, p.Category, s.currency, p.Price, p.Quantity)
	}
}

// report prints a failed action and keeps the session going.
func (s *Shell) report(err error) {
	switch {
	case errors.Is(err, producterrors.ErrProductNotFound):
		fmt.Fprintln(s.out, "Product not found.")
	case errors.Is(err, producterrors.ErrInvalidProduct):
		fmt.Fprintf(s.out, "Rejected: %v\n", err)
	default:
		s.logger.Error("Action failed", "error", err)
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	// ReadString has no line length limit, unlike bufio.Scanner.
	line, err := s.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if err != nil && line == "" {
		return "", errEndOfInput
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// promptInt reads an integer. ok is false when the input was not a number;
// the message has already been printed in that case.
func (s *Shell) promptInt(label string) (value int, ok bool, err error) {
	line, err := s.prompt(label)
	if err != nil {
		return 0, false, err
	}
	value, convErr := strconv.Atoi(strings.TrimSpace(line))
	if convErr != nil {
		fmt.Fprintf(s.out, "Invalid number: %q\n", line)
		return 0, false, nil
	}
	return value, true, nil
}

// promptFloat is promptInt for prices.
func (s *Shell) promptFloat(label string) (value float64, ok bool, err error) {
	line, err := s.prompt(label)
	if err != nil {
		return 0, false, err
	}
	value, convErr := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if convErr != nil {
		fmt.Fprintf(s.out, "Invalid number: %q\n", line)
		return 0, false, nil
	}
	return value, true, nil
}

func (s *Shell) endOfSession(err error) error {
	if errors.Is(err, errEndOfInput) {
		s.logger.Info("Input closed, ending session")
		fmt.Fprintln(s.out)
		return nil
	}
	return err
}
