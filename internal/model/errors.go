package model

import "errors"

// Domain errors surfaced to the API boundary. Handlers map these to HTTP
// statuses; anything else becomes a 500.
var (
	ErrProductNotFound        = errors.New("product not found")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrWithdrawalNotFound     = errors.New("cash withdrawal not found")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrSKUExists              = errors.New("SKU already exists")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
)
