package book

import "errors"

var (
	// ErrOrderNotFound covers cancellation of an id the tracker does not
	// hold: never issued, already cancelled, or already fully executed.
	// The three cases are indistinguishable on purpose.
	ErrOrderNotFound = errors.New("order not found")

	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("price must be positive")
)
