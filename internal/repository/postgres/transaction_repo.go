package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/akhand08/adibFin/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `
	t.id, t.owner_id, t.date, t.type, t.category_id, c.name, t.amount,
	t.note, t.investment_project_id, t.created_at, t.updated_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	transaction := &domain.Transaction{}
	var amount pgtype.Numeric
	var note pgtype.Text
	var projectID pgtype.UUID
	err := row.Scan(&transaction.ID, &transaction.OwnerID, &transaction.Date,
		&transaction.Type, &transaction.CategoryID, &transaction.CategoryName,
		&amount, &note, &projectID, &transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		return nil, err
	}
	transaction.Amount = pgNumericToDecimal(amount)
	if note.Valid {
		transaction.Note = &note.String
	}
	if projectID.Valid {
		id := uuid.UUID(projectID.Bytes)
		transaction.InvestmentProjectID = &id
	}
	return transaction, nil
}

// Create creates a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO transactions (owner_id, date, type, category_id, amount, note, investment_project_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		transaction.OwnerID, transaction.Date, string(transaction.Type),
		transaction.CategoryID, amount, transaction.Note, transaction.InvestmentProjectID,
	).Scan(&transaction.ID, &transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r.GetByID(transaction.OwnerID, transaction.ID)
}

// GetByID retrieves a transaction by ID within an owner scope
func (r *TransactionRepository) GetByID(ownerID, id uuid.UUID) (*domain.Transaction, error) {
	ctx := context.Background()

	transaction, err := scanTransaction(r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1 AND t.owner_id = $2`,
		id, ownerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// List returns the owner's transactions matching filters, date descending
func (r *TransactionRepository) List(ownerID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	ctx := context.Background()

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.owner_id = $1`
	args := []interface{}{ownerID}

	if filters != nil {
		if filters.Type != nil {
			args = append(args, string(*filters.Type))
			query += fmt.Sprintf(" AND t.type = $%d", len(args))
		}
		if filters.CategoryID != nil {
			args = append(args, *filters.CategoryID)
			query += fmt.Sprintf(" AND t.category_id = $%d", len(args))
		}
		if filters.InvestmentProjectID != nil {
			args = append(args, *filters.InvestmentProjectID)
			query += fmt.Sprintf(" AND t.investment_project_id = $%d", len(args))
		}
		if filters.StartDate != nil {
			args = append(args, *filters.StartDate)
			query += fmt.Sprintf(" AND t.date >= $%d", len(args))
		}
		if filters.EndDate != nil {
			args = append(args, *filters.EndDate)
			query += fmt.Sprintf(" AND t.date <= $%d", len(args))
		}
	}
	query += " ORDER BY t.date DESC, t.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

// Update replaces the mutable fields of a transaction
func (r *TransactionRepository) Update(ownerID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(data.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE transactions
		SET date = $3, type = $4, category_id = $5, amount = $6, note = $7, updated_at = now()
		WHERE id = $1 AND owner_id = $2`,
		id, ownerID, data.Date, string(data.Type), data.CategoryID, amount, data.Note,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	return r.GetByID(ownerID, id)
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(ownerID, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM transactions WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}
