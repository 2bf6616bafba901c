package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryInUse       = errors.New("category has existing transactions")
	ErrSystemCategory      = errors.New("system categories cannot be deleted")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCashflowLinked      = errors.New("transaction is part of an investment cashflow")
	ErrInvestmentNotFound  = errors.New("investment not found")
	ErrInvestmentClosed    = errors.New("investment is already closed")
	ErrOutstandingCapital  = errors.New("investment has unreturned capital")
	ErrInvalidReturnAmount = errors.New("return exceeds remaining capital")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrTypeMismatch        = errors.New("category type does not match transaction type")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
)

// Validation constants
const (
	MaxNameLength = 255
	MaxNoteLength = 1000
)

// OutstandingCapitalError reports how much capital is still unreturned when
// a close is rejected. errors.Is(err, ErrOutstandingCapital) matches it.
type OutstandingCapitalError struct {
	Invested decimal.Decimal
	Returned decimal.Decimal
}

func (e *OutstandingCapitalError) Error() string {
	return fmt.Sprintf("cannot close investment with unreturned capital: invested %s, returned %s",
		e.Invested.String(), e.Returned.String())
}

func (e *OutstandingCapitalError) Is(target error) bool {
	return target == ErrOutstandingCapital
}
