package services

import "errors"

// Validation errors -> order tidak di-commit, tanpa side effect
var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientPayment = errors.New("paid amount is less than order total")
	ErrInsufficientStock   = errors.New("insufficient stock for order")
	ErrInvalidItemType     = errors.New("invalid stock item type")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidTransaction  = errors.New("invalid cash flow transaction")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
)
