package store

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	producterrors "github.com/abgdnv/inventory/internal/product/errors"
)

// Header is the first line of every data file.
const Header = "id,name,category,price,quantity"

const (
	delimiter  = ","
	fieldCount = 5
)

// fileStore implements ProductStore on top of a single delimited text file.
type fileStore struct {
	path string
}

// NewFileStore creates a ProductStore backed by the file at path.
func NewFileStore(path string) ProductStore {
	return &fileStore{path: path}
}

func (s *fileStore) Load() ([]Product, error) {
	return Load(s.path)
}

func (s *fileStore) Save(products []Product) error {
	return Save(products, s.path)
}

// Load reads the products stored at path.
// A missing file yields an empty list. The first line is discarded without checking it.
// Trailing blank lines are skipped; any other line must hold exactly five fields.
func Load(path string) ([]Product, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Product{}, nil
		}
		return nil, fmt.Errorf("%w: failed to read %s: %w", producterrors.ErrIO, path, err)
	}

	lines := strings.Split(string(content), "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	products := make([]Product, 0, len(lines))
	if len(lines) < 2 {
		return products, nil
	}
	for i, line := range lines[1:] {
		p, err := parseLine(line)
		if err != nil {
			// line numbers are 1-based and count the header
			return nil, fmt.Errorf("%w: %s line %d: %w", producterrors.ErrParse, path, i+2, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// Save writes the header and one line per product to path, replacing any existing file.
// Text fields are written as-is: a delimiter inside name or category is not escaped.
func Save(products []Product, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %w", producterrors.ErrIO, path, err)
	}

	w := bufio.NewWriter(f)
	// bufio.Writer keeps the first write error and returns it from Flush.
	_, _ = w.WriteString(Header + "\n")
	for _, p := range products {
		_, _ = w.WriteString(formatLine(p) + "\n")
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: failed to write %s: %w", producterrors.ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %w", producterrors.ErrIO, path, err)
	}
	return nil
}

// EnsureDirectory creates path and any missing parents. It is a no-op when the directory exists.
func EnsureDirectory(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %w", producterrors.ErrIO, path, err)
	}
	return nil
}

func parseLine(line string) (Product, error) {
	fields := strings.Split(line, delimiter)
	if len(fields) != fieldCount {
		return Product{}, fmt.Errorf("expected %d fields, got %d", fieldCount, len(fields))
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return Product{}, fmt.Errorf("invalid id %q: %w", fields[0], err)
	}
	price, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return Product{}, fmt.Errorf("invalid price %q: %w", fields[3], err)
	}
	quantity, err := strconv.Atoi(fields[4])
	if err != nil {
		return Product{}, fmt.Errorf("invalid quantity %q: %w", fields[4], err)
	}

	return Product{
		ID:       id,
		Name:     fields[1],
		Category: fields[2],
		Price:    price,
		Quantity: quantity,
	}, nil
}

func formatLine(p Product) string {
	return strings.Join([]string{
		strconv.Itoa(p.ID),
		p.Name,
		p.Category,
		strconv.FormatFloat(p.Price, 'f', 2, 64),
		strconv.Itoa(p.Quantity),
	}, delimiter)
}
