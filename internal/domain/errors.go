package domain

import "errors"

// Sentinel errors for the ledger service. Callers classify failures
// with errors.Is and map them to transport status codes; anything that
// does not match one of these is an internal fault.
var (
	// ErrValidation indicates missing or malformed caller input.
	ErrValidation = errors.New("invalid input")

	// ErrConflict indicates a duplicate username on registration.
	ErrConflict = errors.New("username already taken")

	// ErrAuth indicates unknown credentials or a failed password check.
	ErrAuth = errors.New("invalid username or password")

	// ErrNotFound indicates an unknown symbol or missing record.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientFunds indicates a buy costing more than available cash.
	ErrInsufficientFunds = errors.New("not enough cash")

	// ErrInsufficientShares indicates a sell of more shares than held.
	ErrInsufficientShares = errors.New("not enough shares")
)
