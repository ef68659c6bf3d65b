package domain

import "errors"

// Failure kinds. Every error returned by the services wraps exactly one of them,
// so callers branch with errors.Is regardless of which layer produced it.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrDuplicate         = errors.New("duplicate request")
)
