package common

import (
	"errors"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/iban"
	"github.com/gofiber/fiber/v2"
)

const (
	CodeInvalidAmount    = "INVALID_TRANSFER_AMOUNT"
	CodeAccountNotFound  = "ACCOUNT_NOT_FOUND"
	CodeSameAccount      = "SAME_ACCOUNT_TRANSFER"
	CodeAccountInactive  = "ACCOUNT_INACTIVE"
	CodeInsufficientFund = "INSUFFICIENT_FUNDS"
	CodeInvalidName      = "INVALID_ACCOUNT_NAME"
	CodeInvalidKind      = "INVALID_ACCOUNT_KIND"
	CodeIBANAllocation   = "ACCOUNT_IBAN_ALLOCATION_FAILED"
	CodeUnexpected       = "UNEXPECTED_ERROR"
)

var errorTable = []struct {
	err    error
	status int
	code   string
}{
	{account.ErrInvalidAmount, fiber.StatusBadRequest, CodeInvalidAmount},
	{account.ErrAccountNotFound, fiber.StatusNotFound, CodeAccountNotFound},
	{account.ErrSameAccount, fiber.StatusBadRequest, CodeSameAccount},
	{account.ErrAccountInactive, fiber.StatusConflict, CodeAccountInactive},
	{account.ErrInsufficientFunds, fiber.StatusConflict, CodeInsufficientFund},
	{account.ErrInvalidName, fiber.StatusBadRequest, CodeInvalidName},
	{account.ErrInvalidKind, fiber.StatusBadRequest, CodeInvalidKind},
	{iban.ErrAllocationFailed, fiber.StatusServiceUnavailable, CodeIBANAllocation},
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return fiber.StatusInternalServerError
}

// ErrorCode maps domain errors to their stable code. Errors outside the
// table, including ErrUnexpected, map to UNEXPECTED_ERROR.
func ErrorCode(err error) string {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ""
	}
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return CodeUnexpected
}
