package service

import "errors"

// Sentinel errors surfaced to handlers; wrap with fmt.Errorf("...: %w", err)
// when adding context so errors.Is keeps working.
var (
	ErrNotFound           = errors.New("record not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidType        = errors.New("invalid type")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrMissingDestination = errors.New("transfer requires a destination account")
	ErrSameAccount        = errors.New("transfer source and destination must differ")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrDateInFuture       = errors.New("date cannot be in the future")
)
