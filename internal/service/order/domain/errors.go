// internal/service/order/domain/errors.go
package domain

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("requested status transition is not allowed")

	ErrEmptyItems      = errors.New("order must contain at least one item")
	ErrInvalidQuantity = errors.New("item quantity must be at least 1")
	ErrNegativePrice   = errors.New("item price must not be negative")
	ErrNegativeShipping = errors.New("shipping cost must not be negative")
)
