package service

import (
	"errors"
	"strings"
	"time"

	"github.com/akhand08/adibFin/internal/domain"
	"github.com/akhand08/adibFin/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles plain income/expense records. Transactions
// created by the investment engine carry a cashflow back-reference and are
// immutable through this path.
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	investmentRepo  domain.InvestmentRepository
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository, investmentRepo domain.InvestmentRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		investmentRepo:  investmentRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *TransactionService) publishEvent(ownerID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(ownerID, event)
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Date                *time.Time
	Type                domain.TransactionType
	CategoryID          uuid.UUID
	Amount              decimal.Decimal
	Note                *string
	InvestmentProjectID *uuid.UUID
}

// CreateTransaction creates a plain transaction. It never creates cashflows,
// even when the transaction is attached to an investment project.
func (s *TransactionService) CreateTransaction(ownerID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.Type != domain.TransactionTypeIncome && input.Type != domain.TransactionTypeExpense {
		return nil, domain.ErrInvalidType
	}

	category, err := s.categoryRepo.GetVisible(ownerID, input.CategoryID)
	if err != nil {
		return nil, domain.ErrCategoryNotFound
	}
	if category.Type != input.Type {
		return nil, domain.ErrTypeMismatch
	}

	if input.InvestmentProjectID != nil {
		if _, err := s.investmentRepo.GetByID(ownerID, *input.InvestmentProjectID); err != nil {
			return nil, domain.ErrInvestmentNotFound
		}
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	transaction := &domain.Transaction{
		OwnerID:             ownerID,
		Date:                date,
		Type:                input.Type,
		CategoryID:          input.CategoryID,
		Amount:              input.Amount,
		Note:                trimNote(input.Note),
		InvestmentProjectID: input.InvestmentProjectID,
	}

	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ownerID, websocket.TransactionCreated(created))
	return created, nil
}

// GetTransactions retrieves the owner's transactions with optional filters
func (s *TransactionService) GetTransactions(ownerID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	return s.transactionRepo.List(ownerID, filters)
}

// GetTransactionByID retrieves a single transaction
func (s *TransactionService) GetTransactionByID(ownerID, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ownerID, id)
}

// UpdateTransactionInput holds the input for updating a transaction
type UpdateTransactionInput struct {
	Date       time.Time
	Type       domain.TransactionType
	CategoryID uuid.UUID
	Amount     decimal.Decimal
	Note       *string
}

// UpdateTransaction replaces a transaction's fields. Transactions linked to
// an investment cashflow are rejected; those records only change through
// whole-project operations on the investment engine.
func (s *TransactionService) UpdateTransaction(ownerID, id uuid.UUID, input UpdateTransactionInput) (*domain.Transaction, error) {
	if _, err := s.transactionRepo.GetByID(ownerID, id); err != nil {
		return nil, err
	}

	if err := s.ensureUnlinked(id); err != nil {
		return nil, err
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if input.Type != domain.TransactionTypeIncome && input.Type != domain.TransactionTypeExpense {
		return nil, domain.ErrInvalidType
	}

	category, err := s.categoryRepo.GetVisible(ownerID, input.CategoryID)
	if err != nil {
		return nil, domain.ErrCategoryNotFound
	}
	if category.Type != input.Type {
		return nil, domain.ErrTypeMismatch
	}

	updated, err := s.transactionRepo.Update(ownerID, id, &domain.UpdateTransactionData{
		Date:       input.Date,
		Type:       input.Type,
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
		Note:       trimNote(input.Note),
	})
	if err != nil {
		return nil, err
	}
	s.publishEvent(ownerID, websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction deletes a transaction unless a cashflow references it
func (s *TransactionService) DeleteTransaction(ownerID, id uuid.UUID) error {
	if _, err := s.transactionRepo.GetByID(ownerID, id); err != nil {
		return err
	}
	if err := s.ensureUnlinked(id); err != nil {
		return err
	}
	if err := s.transactionRepo.Delete(ownerID, id); err != nil {
		return err
	}
	s.publishEvent(ownerID, websocket.TransactionDeleted(map[string]interface{}{"id": id}))
	return nil
}

// ensureUnlinked fails with ErrCashflowLinked when the transaction is the
// one side of a 1:1 investment cashflow.
func (s *TransactionService) ensureUnlinked(transactionID uuid.UUID) error {
	_, err := s.investmentRepo.GetCashflowByTransaction(transactionID)
	if err == nil {
		return domain.ErrCashflowLinked
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func trimNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
