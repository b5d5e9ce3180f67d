package asset

import "errors"

var (
	// ErrInsufficientAsset indicates a subtraction would drive a quantity
	// negative. This is an accounting invariant violation, not a user error.
	ErrInsufficientAsset = errors.New("asset: insufficient asset quantity")

	// ErrNegativeQuantity indicates a negative quantity was supplied.
	ErrNegativeQuantity = errors.New("asset: negative quantity")

	// ErrNilQuantity indicates a nil quantity was supplied.
	ErrNilQuantity = errors.New("asset: nil quantity")

	// ErrInvalidClass indicates a malformed asset class identifier.
	ErrInvalidClass = errors.New("asset: invalid asset class")
)
