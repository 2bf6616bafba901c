package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction is a single income or expense record. Amount is always a
// positive magnitude; direction is carried by Type. A transaction created by
// the investment engine carries InvestmentProjectID and is referenced by
// exactly one cashflow, which makes it immutable through the plain path.
type Transaction struct {
	ID                  uuid.UUID       `json:"id"`
	OwnerID             uuid.UUID       `json:"ownerId"`
	Date                time.Time       `json:"date"`
	Type                TransactionType `json:"type"`
	CategoryID          uuid.UUID       `json:"categoryId"`
	CategoryName        string          `json:"categoryName,omitempty"`
	Amount              decimal.Decimal `json:"amount"`
	Note                *string         `json:"note,omitempty"`
	InvestmentProjectID *uuid.UUID      `json:"investmentProjectId,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// TransactionFilters narrows List results. Nil fields are ignored; date
// bounds are inclusive.
type TransactionFilters struct {
	Type                *TransactionType
	CategoryID          *uuid.UUID
	InvestmentProjectID *uuid.UUID
	StartDate           *time.Time
	EndDate             *time.Time
}

// UpdateTransactionData holds the replacement values for an update.
type UpdateTransactionData struct {
	Date       time.Time
	Type       TransactionType
	CategoryID uuid.UUID
	Amount     decimal.Decimal
	Note       *string
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(ownerID, id uuid.UUID) (*Transaction, error)
	// List returns the owner's transactions matching filters, date descending.
	List(ownerID uuid.UUID, filters *TransactionFilters) ([]*Transaction, error)
	Update(ownerID, id uuid.UUID, data *UpdateTransactionData) (*Transaction, error)
	Delete(ownerID, id uuid.UUID) error
}
