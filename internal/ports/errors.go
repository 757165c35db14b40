package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// Ledger validation errors. All are recoverable and must be returned
	// without mutating persisted state.
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrInvalidPrice         = errors.New("price must be positive")
	ErrInvalidDate          = errors.New("invalid or missing date")
	ErrInvalidSymbol        = errors.New("stock symbol is required")
	ErrInsufficientQuantity = errors.New("sell quantity exceeds available quantity")
	ErrTradeAlreadyClosed   = errors.New("trade is closed; start a new trade to buy again")
	ErrOversold             = errors.New("sold quantity exceeds bought quantity")

	// General errors
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("resource does not belong to the acting user")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Persistence errors. Repository failures are opaque to callers beyond
	// this sentinel.
	ErrPersistence = errors.New("persistence failure")
)
