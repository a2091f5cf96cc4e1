// Package validation holds the pure input checks for sellers and supplies.
// All functions are side-effect free; failures are reported as the sentinel
// errors below so callers can map them to user-facing messages.
package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidIdentifierFormat means the seller id is not exactly 10 or
	// 12 decimal digits.
	ErrInvalidIdentifierFormat = errors.New("seller identifier must contain exactly 10 or 12 digits")

	ErrNameEmpty    = errors.New("seller name is required")
	ErrNameTooShort = errors.New("seller name must be at least 3 characters")
	ErrNameTooLong  = errors.New("seller name must be at most 33 characters")

	ErrMissingPreorderID = errors.New("preorder_id is required")
)

const (
	minSellerNameLen = 3
	maxSellerNameLen = 33
)

var sellerIDPattern = regexp.MustCompile(`^\d{10}$|^\d{12}$`)

// SellerID validates a seller tax identifier.
func SellerID(id string) error {
	if !sellerIDPattern.MatchString(id) {
		return ErrInvalidIdentifierFormat
	}
	return nil
}

// SellerName validates a seller display name. Length is counted in runes
// after trimming surrounding whitespace.
func SellerName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch n := utf8.RuneCountInString(trimmed); {
	case n == 0:
		return ErrNameEmpty
	case n < minSellerNameLen:
		return ErrNameTooShort
	case n > maxSellerNameLen:
		return ErrNameTooLong
	}
	return nil
}

// PreorderID validates the one supply field that is required at creation.
func PreorderID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingPreorderID
	}
	return nil
}
