package core

// validation.go checks user input before it reaches the database.
//
// A ValidationError names the form field at fault and wraps the domain
// sentinel, so errors.Is(err, ErrInvalidPrice) keeps working while the
// web layer can still highlight the field.

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// maxPrice is the first value that does not fit NUMERIC(12,2).
var maxPrice = decimal.New(1, 10)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field string // Form field name
	Value string // The invalid value
	Err   error  // Domain sentinel or parse error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// normalizeProductName trims the name and rejects an empty result.
func normalizeProductName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", &ValidationError{Field: "nome", Value: name, Err: ErrInvalidName}
	}
	return trimmed, nil
}

// normalizePrice rounds to cents and rejects negative or oversized prices.
func normalizePrice(price decimal.Decimal) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Zero, &ValidationError{Field: "preco", Value: price.String(), Err: ErrInvalidPrice}
	}
	rounded := price.Round(2)
	if rounded.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, &ValidationError{Field: "preco", Value: price.String(), Err: ErrInvalidPrice}
	}
	return rounded, nil
}

// validateQuantity accepts 1..MaxInt32.
func validateQuantity(quantity int) (int32, error) {
	if quantity < 1 || quantity > math.MaxInt32 {
		return 0, &ValidationError{Field: "quantidade", Value: fmt.Sprint(quantity), Err: ErrInvalidQuantity}
	}
	return int32(quantity), nil
}
