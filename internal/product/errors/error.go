// Package errors provides custom error types for product-related operations.
package errors

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrInvalidProduct = errors.New("invalid product")

// ErrParse marks a data file line that does not decode into a product.
var ErrParse = errors.New("parse error")

// ErrIO marks a failure reading or writing the data file or its directory.
var ErrIO = errors.New("io error")
