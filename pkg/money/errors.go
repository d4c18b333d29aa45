package money

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount is returned when a string is not a well-formed positive amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAmountOverflow is returned when an amount does not fit in minor units.
	ErrAmountOverflow = fmt.Errorf("%w: exceeds maximum safe integer value", ErrInvalidAmount)
)
