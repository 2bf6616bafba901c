package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies transactions. System categories have no owner and are
// visible to every user; they can never be deleted through the user path.
type Category struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"ownerId"`
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	IsSystem  bool            `json:"isSystem"`
	CreatedAt time.Time       `json:"createdAt"`
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	// GetVisible returns the category if it is owned by ownerID or is a
	// system category.
	GetVisible(ownerID, id uuid.UUID) (*Category, error)
	// GetOwned returns the category only if ownerID owns it.
	GetOwned(ownerID, id uuid.UUID) (*Category, error)
	// ListVisible returns owned plus system categories, system first, then
	// name ascending. A non-nil txType filters by type.
	ListVisible(ownerID uuid.UUID, txType *TransactionType) ([]*Category, error)
	// CountTransactions reports how many transactions reference the category.
	CountTransactions(categoryID uuid.UUID) (int64, error)
	Delete(id uuid.UUID) error
}
