package account

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount is returned when a transfer amount is malformed or not positive.
	ErrInvalidAmount = errors.New("invalid transfer amount")

	// ErrAccountNotFound is returned when an account is absent or not owned by the caller.
	ErrAccountNotFound = errors.New("account not found")

	// ErrSameAccount is returned when source and destination are the same account.
	ErrSameAccount = errors.New("cannot transfer to same account")

	// ErrAccountInactive is returned when either side of a transfer is closed.
	ErrAccountInactive = errors.New("account inactive")

	// ErrInsufficientFunds is returned when the source balance does not cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidName is returned when an account name is outside the accepted length.
	ErrInvalidName = errors.New("account name must be between 2 and 80 characters")

	// ErrInvalidKind is returned for an unknown account kind.
	ErrInvalidKind = errors.New("invalid account kind")

	// ErrUnexpected wraps storage failures that are not one of the errors above.
	ErrUnexpected = errors.New("unexpected error")
)

// Unexpected wraps cause with ErrUnexpected, leaving known account errors untouched.
func Unexpected(cause error) error {
	if cause == nil || IsKnown(cause) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrUnexpected, cause)
}

// IsKnown reports whether err is one of the recoverable account errors.
func IsKnown(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount,
		ErrAccountNotFound,
		ErrSameAccount,
		ErrAccountInactive,
		ErrInsufficientFunds,
		ErrInvalidName,
		ErrInvalidKind,
		ErrUnexpected,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
