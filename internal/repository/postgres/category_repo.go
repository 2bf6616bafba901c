package postgres

import (
	"context"
	"errors"

	"github.com/akhand08/adibFin/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// System categories carry a NULL owner_id; domain uses the zero UUID.
func scanCategory(row pgx.Row) (*domain.Category, error) {
	category := &domain.Category{}
	var ownerID pgtype.UUID
	err := row.Scan(&category.ID, &ownerID, &category.Name, &category.Type,
		&category.IsSystem, &category.CreatedAt)
	if err != nil {
		return nil, err
	}
	if ownerID.Valid {
		category.OwnerID = uuid.UUID(ownerID.Bytes)
	}
	return category, nil
}

// Create creates a new user-owned category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()

	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (owner_id, name, type, is_system)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		category.OwnerID, category.Name, string(category.Type), category.IsSystem,
	).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return nil, err
	}
	return category, nil
}

// GetVisible retrieves a category owned by ownerID or marked system
func (r *CategoryRepository) GetVisible(ownerID, id uuid.UUID) (*domain.Category, error) {
	ctx := context.Background()

	category, err := scanCategory(r.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, type, is_system, created_at
		FROM categories
		WHERE id = $1 AND (owner_id = $2 OR is_system)`,
		id, ownerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetOwned retrieves a category only if ownerID owns it
func (r *CategoryRepository) GetOwned(ownerID, id uuid.UUID) (*domain.Category, error) {
	ctx := context.Background()

	category, err := scanCategory(r.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, type, is_system, created_at
		FROM categories
		WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// ListVisible returns owned plus system categories, system first then name
func (r *CategoryRepository) ListVisible(ownerID uuid.UUID, txType *domain.TransactionType) ([]*domain.Category, error) {
	ctx := context.Background()

	query := `
		SELECT id, owner_id, name, type, is_system, created_at
		FROM categories
		WHERE (owner_id = $1 OR is_system)`
	args := []interface{}{ownerID}
	if txType != nil {
		query += ` AND type = $2`
		args = append(args, string(*txType))
	}
	query += ` ORDER BY is_system DESC, name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// CountTransactions reports how many transactions reference the category
func (r *CategoryRepository) CountTransactions(categoryID uuid.UUID) (int64, error) {
	ctx := context.Background()

	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM transactions WHERE category_id = $1`,
		categoryID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a category
func (r *CategoryRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
