package service

import (
	"errors"
	"testing"
	"time"

	"github.com/akhand08/adibFin/internal/domain"
	"github.com/akhand08/adibFin/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newLedgerFixture() (*TransactionService, *testutil.MockTransactionRepository, *testutil.MockCategoryRepository, *testutil.MockInvestmentRepository, uuid.UUID) {
	transactionRepo := testutil.NewMockTransactionRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	investmentRepo := testutil.NewMockInvestmentRepository()
	svc := NewTransactionService(transactionRepo, categoryRepo, investmentRepo)
	return svc, transactionRepo, categoryRepo, investmentRepo, uuid.New()
}

func TestCreateTransaction_Success(t *testing.T) {
	svc, _, categoryRepo, _, ownerID := newLedgerFixture()

	category := categoryRepo.AddCategory(&domain.Category{
		OwnerID: ownerID,
		Name:    "Groceries",
		Type:    domain.TransactionTypeExpense,
	})

	tx, err := svc.CreateTransaction(ownerID, CreateTransactionInput{
		Type:       domain.TransactionTypeExpense,
		CategoryID: category.ID,
		Amount:     decimal.NewFromFloat(150.00),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !tx.Amount.Equal(decimal.NewFromFloat(150.00)) {
		t.Errorf("Expected amount 150.00, got %s", tx.Amount.String())
	}

	if tx.Type != domain.TransactionTypeExpense {
		t.Errorf("Expected type 'expense', got %s", tx.Type)
	}

	if tx.OwnerID != ownerID {
		t.Errorf("Expected owner %s, got %s", ownerID, tx.OwnerID)
	}

	if tx.InvestmentProjectID != nil {
		t.Error("Plain transaction should not carry an investment project")
	}
}

func TestCreateTransaction_SystemCategoryVisible(t *testing.T) {
	svc, _, categoryRepo, _, ownerID := newLedgerFixture()

	system := categoryRepo.AddCategory(&domain.Category{
		Name:     "Salary",
		Type:     domain.TransactionTypeIncome,
		IsSystem: true,
	})

	_, err := svc.CreateTransaction(ownerID, CreateTransactionInput{
		Type:       domain.TransactionTypeIncome,
		CategoryID: system.ID,
		Amount:     decimal.NewFromInt(2000),
	})
	if err != nil {
		t.Fatalf("Expected system category to be usable, got %v", err)
	}
}

func TestCreateTransaction_TypeMismatch(t *testing.T) {
	svc, _, categoryRepo, _, ownerID := newLedgerFixture()

	category := categoryRepo.AddCategory(&domain.Category{
		OwnerID: ownerID,
		Name:    "Groceries",
		Type:    domain.TransactionTypeExpense,
	})

	_, err := svc.CreateTransaction(ownerID, CreateTransactionInput{
		Type:       domain.TransactionTypeIncome,
		CategoryID: category.ID,
		Amount:     decimal.NewFromInt(100),
	})
	if !errors.Is(err, domain.ErrTypeMismatch) {
		t.Errorf("Expected ErrTypeMismatch, got %v", err)
	}
}

func TestCreateTransaction_UnknownInvestmentProject(t *testing.T) {
	svc, _, categoryRepo, _, ownerID := newLedgerFixture()

	category := categoryRepo.AddCategory(&domain.Category{
		OwnerID: ownerID,
		Name:    "Groceries",
		Type:    domain.TransactionTypeExpense,
	})

	missing := uuid.New()
	_, err := svc.CreateTransaction(ownerID, CreateTransactionInput{
		Type:                domain.TransactionTypeExpense,
		CategoryID:          category.ID,
		Amount:              decimal.NewFromInt(100),
		InvestmentProjectID: &missing,
	})
	if !errors.Is(err, domain.ErrInvestmentNotFound) {
		t.Errorf("Expected ErrInvestmentNotFound, got %v", err)
	}
}

func TestUpdateTransaction_CashflowLinkedRejected(t *testing.T) {
	svc, transactionRepo, categoryRepo, investmentRepo, ownerID := newLedgerFixture()

	category := categoryRepo.AddCategory(&domain.Category{
		OwnerID: ownerID,
		Name:    "Investments",
		Type:    domain.TransactionTypeExpense,
	})

	// Seed an investment-owned transaction with its cashflow.
	linked := transactionRepo.AddTransaction(&domain.Transaction{
		OwnerID:    ownerID,
		Date:       time.Now(),
		Type:       domain.TransactionTypeExpense,
		CategoryID: category.ID,
		Amount:     decimal.NewFromInt(5000),
	})
	investmentRepo.AddProject(&domain.InvestmentProject{
		OwnerID:   ownerID,
		Name:      "Flat",
		StartDate: time.Now(),
		Status:    domain.ProjectStatusOpen,
		Cashflows: []*domain.InvestmentCashflow{
			{ID: uuid.New(), TransactionID: linked.ID, FlowType: domain.FlowInvestPrincipal, Amount: linked.Amount},
		},
	})

	_, err := svc.UpdateTransaction(ownerID, linked.ID, UpdateTransactionInput{
		Date:       time.Now(),
		Type:       domain.TransactionTypeExpense,
		CategoryID: category.ID,
		Amount:     decimal.NewFromInt(1),
	})
	if !errors.Is(err, domain.ErrCashflowLinked) {
		t.Errorf("Expected ErrCashflowLinked, got %v", err)
	}

	if err := svc.DeleteTransaction(ownerID, linked.ID); !errors.Is(err, domain.ErrCashflowLinked) {
		t.Errorf("Expected ErrCashflowLinked on delete, got %v", err)
	}
}

func TestDeleteTransaction_PlainSucceeds(t *testing.T) {
	svc, _, categoryRepo, _, ownerID := newLedgerFixture()

	category := categoryRepo.AddCategory(&domain.Category{
		OwnerID: ownerID,
		Name:    "Groceries",
		Type:    domain.TransactionTypeExpense,
	})

	tx, err := svc.CreateTransaction(ownerID, CreateTransactionInput{
		Type:       domain.TransactionTypeExpense,
		CategoryID: category.ID,
		Amount:     decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := svc.DeleteTransaction(ownerID, tx.ID); err != nil {
		t.Fatalf("Expected delete to succeed, got %v", err)
	}

	if _, err := svc.GetTransactionByID(ownerID, tx.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound after delete, got %v", err)
	}
}

func TestGetTransactions_Filters(t *testing.T) {
	svc, transactionRepo, categoryRepo, _, ownerID := newLedgerFixture()

	expense := categoryRepo.AddCategory(&domain.Category{
		OwnerID: ownerID,
		Name:    "Groceries",
		Type:    domain.TransactionTypeExpense,
	})
	income := categoryRepo.AddCategory(&domain.Category{
		OwnerID: ownerID,
		Name:    "Salary",
		Type:    domain.TransactionTypeIncome,
	})

	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	transactionRepo.AddTransaction(&domain.Transaction{
		OwnerID: ownerID, Date: jan, Type: domain.TransactionTypeExpense,
		CategoryID: expense.ID, Amount: decimal.NewFromInt(50),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		OwnerID: ownerID, Date: mar, Type: domain.TransactionTypeIncome,
		CategoryID: income.ID, Amount: decimal.NewFromInt(2000),
	})

	incomeType := domain.TransactionTypeIncome
	byType, err := svc.GetTransactions(ownerID, &domain.TransactionFilters{Type: &incomeType})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(byType) != 1 || byType[0].Type != domain.TransactionTypeIncome {
		t.Errorf("Expected one income transaction, got %d", len(byType))
	}

	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	inRange, err := svc.GetTransactions(ownerID, &domain.TransactionFilters{StartDate: &feb})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(inRange) != 1 {
		t.Errorf("Expected one transaction after Feb 1, got %d", len(inRange))
	}

	all, err := svc.GetTransactions(ownerID, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected two transactions, got %d", len(all))
	}
	if len(all) == 2 && !all[0].Date.After(all[1].Date) {
		t.Error("Expected transactions ordered date descending")
	}
}
