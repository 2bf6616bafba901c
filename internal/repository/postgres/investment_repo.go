package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akhand08/adibFin/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InvestmentRepository implements domain.InvestmentRepository using
// PostgreSQL. Every write touching both the ledger and the cashflow table
// happens inside one database transaction.
type InvestmentRepository struct {
	pool *pgxpool.Pool
}

// NewInvestmentRepository creates a new InvestmentRepository
func NewInvestmentRepository(pool *pgxpool.Pool) *InvestmentRepository {
	return &InvestmentRepository{pool: pool}
}

func scanProject(row pgx.Row) (*domain.InvestmentProject, error) {
	project := &domain.InvestmentProject{}
	var description pgtype.Text
	var closedDate pgtype.Timestamptz
	err := row.Scan(&project.ID, &project.OwnerID, &project.Name, &description,
		&project.StartDate, &closedDate, &project.Status,
		&project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		project.Description = &description.String
	}
	if closedDate.Valid {
		project.ClosedDate = &closedDate.Time
	}
	return project, nil
}

func scanCashflow(row pgx.Row) (*domain.InvestmentCashflow, error) {
	cashflow := &domain.InvestmentCashflow{}
	var amount pgtype.Numeric
	err := row.Scan(&cashflow.ID, &cashflow.ProjectID, &cashflow.TransactionID,
		&cashflow.FlowType, &amount, &cashflow.CreatedAt)
	if err != nil {
		return nil, err
	}
	cashflow.Amount = pgNumericToDecimal(amount)
	return cashflow, nil
}

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertLinkedTransaction(ctx context.Context, q queryer, transaction *domain.Transaction, cashflow *domain.InvestmentCashflow, projectID uuid.UUID) error {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	err = q.QueryRow(ctx, `
		INSERT INTO transactions (owner_id, date, type, category_id, amount, note, investment_project_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		transaction.OwnerID, transaction.Date, string(transaction.Type),
		transaction.CategoryID, amount, transaction.Note, projectID,
	).Scan(&transaction.ID, &transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		return err
	}
	transaction.InvestmentProjectID = &projectID

	cfAmount, err := decimalToPgNumeric(cashflow.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	err = q.QueryRow(ctx, `
		INSERT INTO investment_cashflows (project_id, transaction_id, flow_type, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		projectID, transaction.ID, string(cashflow.FlowType), cfAmount,
	).Scan(&cashflow.ID, &cashflow.CreatedAt)
	if err != nil {
		return err
	}
	cashflow.ProjectID = projectID
	cashflow.TransactionID = transaction.ID
	return nil
}

// CreateWithPrincipal persists the project with its opening transaction and
// cashflow atomically
func (r *InvestmentRepository) CreateWithPrincipal(project *domain.InvestmentProject, transaction *domain.Transaction, cashflow *domain.InvestmentCashflow) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO investment_projects (owner_id, name, description, start_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		project.OwnerID, project.Name, project.Description, project.StartDate,
		string(project.Status),
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertLinkedTransaction(ctx, tx, transaction, cashflow, project.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a project with its transactions and cashflows attached
func (r *InvestmentRepository) GetByID(ownerID, id uuid.UUID) (*domain.InvestmentProject, error) {
	ctx := context.Background()

	project, err := scanProject(r.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, description, start_date, closed_date, status, created_at, updated_at
		FROM investment_projects
		WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvestmentNotFound
		}
		return nil, err
	}

	if err := r.attachChildren(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// List returns the owner's projects, start date descending, each with
// transactions and cashflows attached
func (r *InvestmentRepository) List(ownerID uuid.UUID, status *domain.ProjectStatus) ([]*domain.InvestmentProject, error) {
	ctx := context.Background()

	query := `
		SELECT id, owner_id, name, description, start_date, closed_date, status, created_at, updated_at
		FROM investment_projects
		WHERE owner_id = $1`
	args := []interface{}{ownerID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY start_date DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*domain.InvestmentProject
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, project := range projects {
		if err := r.attachChildren(ctx, project); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (r *InvestmentRepository) attachChildren(ctx context.Context, project *domain.InvestmentProject) error {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.investment_project_id = $1
		ORDER BY t.created_at ASC`,
		project.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return err
		}
		project.Transactions = append(project.Transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	cfRows, err := r.pool.Query(ctx, `
		SELECT id, project_id, transaction_id, flow_type, amount, created_at
		FROM investment_cashflows
		WHERE project_id = $1
		ORDER BY created_at ASC`,
		project.ID,
	)
	if err != nil {
		return err
	}
	defer cfRows.Close()
	for cfRows.Next() {
		cashflow, err := scanCashflow(cfRows)
		if err != nil {
			return err
		}
		project.Cashflows = append(project.Cashflows, cashflow)
	}
	return cfRows.Err()
}

// AppendReturn writes the return entries atomically. The project row is
// locked and capital conservation re-checked against the stored cashflows, so
// two concurrent returns cannot overdraw the principal between the service's
// read and this write.
func (r *InvestmentRepository) AppendReturn(projectID uuid.UUID, entries []domain.ReturnEntry, closedDate *time.Time) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT id FROM investment_projects WHERE id = $1 FOR UPDATE`,
		projectID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrInvestmentNotFound
		}
		return err
	}

	var invested, returned pgtype.Numeric
	err = tx.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE flow_type = $2), 0),
			COALESCE(SUM(amount) FILTER (WHERE flow_type = $3), 0)
		FROM investment_cashflows
		WHERE project_id = $1`,
		projectID, string(domain.FlowInvestPrincipal), string(domain.FlowReturnOfCapital),
	).Scan(&invested, &returned)
	if err != nil {
		return err
	}

	returnedTotal := pgNumericToDecimal(returned)
	for _, entry := range entries {
		if entry.Cashflow.FlowType == domain.FlowReturnOfCapital {
			returnedTotal = returnedTotal.Add(entry.Cashflow.Amount)
		}
	}
	if returnedTotal.GreaterThan(pgNumericToDecimal(invested)) {
		return domain.ErrInvalidReturnAmount
	}

	for _, entry := range entries {
		if err := insertLinkedTransaction(ctx, tx, entry.Transaction, entry.Cashflow, projectID); err != nil {
			return err
		}
	}

	if closedDate != nil {
		_, err = tx.Exec(ctx, `
			UPDATE investment_projects
			SET status = $2, closed_date = $3, updated_at = now()
			WHERE id = $1`,
			projectID, string(domain.ProjectStatusClosed), *closedDate,
		)
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE investment_projects SET updated_at = now() WHERE id = $1`,
			projectID,
		)
	}
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Close marks a project closed
func (r *InvestmentRepository) Close(ownerID, id uuid.UUID, closedDate time.Time) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE investment_projects
		SET status = $3, closed_date = $4, updated_at = now()
		WHERE id = $1 AND owner_id = $2`,
		id, ownerID, string(domain.ProjectStatusClosed), closedDate,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvestmentNotFound
	}
	return nil
}

// UpdateMeta applies a metadata patch
func (r *InvestmentRepository) UpdateMeta(ownerID, id uuid.UUID, data *domain.UpdateInvestmentData) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE investment_projects
		SET name = COALESCE($3, name),
		    description = COALESCE($4, description),
		    status = COALESCE($5, status),
		    updated_at = now()
		WHERE id = $1 AND owner_id = $2`,
		id, ownerID, data.Name, data.Description, (*string)(data.Status),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvestmentNotFound
	}
	return nil
}

// Delete removes a project and cascades to its transactions and cashflows
func (r *InvestmentRepository) Delete(ownerID, id uuid.UUID) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM investment_cashflows WHERE project_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM transactions WHERE investment_project_id = $1 AND owner_id = $2`,
		id, ownerID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM investment_projects WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvestmentNotFound
	}

	return tx.Commit(ctx)
}

// GetCashflowByTransaction returns the cashflow referencing the transaction
func (r *InvestmentRepository) GetCashflowByTransaction(transactionID uuid.UUID) (*domain.InvestmentCashflow, error) {
	ctx := context.Background()

	cashflow, err := scanCashflow(r.pool.QueryRow(ctx, `
		SELECT id, project_id, transaction_id, flow_type, amount, created_at
		FROM investment_cashflows
		WHERE transaction_id = $1`,
		transactionID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return cashflow, nil
}
