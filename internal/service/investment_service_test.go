package service

import (
	"errors"
	"testing"
	"time"

	"github.com/akhand08/adibFin/internal/domain"
	"github.com/akhand08/adibFin/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvestmentFixture(t *testing.T) (*InvestmentService, *testutil.MockInvestmentRepository, *testutil.MockCategoryRepository, uuid.UUID, *domain.Category, *domain.Category) {
	t.Helper()
	investmentRepo := testutil.NewMockInvestmentRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewInvestmentService(investmentRepo, categoryRepo)

	ownerID := uuid.New()
	expenseCat := categoryRepo.AddCategory(&domain.Category{
		OwnerID: ownerID,
		Name:    "Investments",
		Type:    domain.TransactionTypeExpense,
	})
	incomeCat := categoryRepo.AddCategory(&domain.Category{
		OwnerID: ownerID,
		Name:    "Investment Returns",
		Type:    domain.TransactionTypeIncome,
	})
	return svc, investmentRepo, categoryRepo, ownerID, expenseCat, incomeCat
}

func openProject(t *testing.T, svc *InvestmentService, ownerID uuid.UUID, categoryID uuid.UUID, amount int64) *domain.InvestmentProject {
	t.Helper()
	project, err := svc.OpenInvestment(ownerID, OpenInvestmentInput{
		Name:       "Rental flat",
		Amount:     decimal.NewFromInt(amount),
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return project
}

func TestOpenInvestment_Success(t *testing.T) {
	svc, _, _, ownerID, expenseCat, _ := newInvestmentFixture(t)

	desc := "Two-room flat downtown"
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	project, err := svc.OpenInvestment(ownerID, OpenInvestmentInput{
		Name:        "Rental flat",
		Description: &desc,
		Amount:      decimal.NewFromInt(10000),
		CategoryID:  expenseCat.ID,
		StartDate:   &start,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusOpen, project.Status)
	assert.True(t, start.Equal(project.StartDate))
	assert.Nil(t, project.ClosedDate)

	require.Len(t, project.Transactions, 1)
	tx := project.Transactions[0]
	assert.Equal(t, domain.TransactionTypeExpense, tx.Type)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(10000)))
	require.NotNil(t, tx.Note)
	assert.Equal(t, "Investment in Rental flat", *tx.Note)
	require.NotNil(t, tx.InvestmentProjectID)
	assert.Equal(t, project.ID, *tx.InvestmentProjectID)

	require.Len(t, project.Cashflows, 1)
	cf := project.Cashflows[0]
	assert.Equal(t, domain.FlowInvestPrincipal, cf.FlowType)
	assert.True(t, cf.Amount.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, tx.ID, cf.TransactionID)
}

func TestOpenInvestment_CategoryNotFound(t *testing.T) {
	svc, _, _, ownerID, _, _ := newInvestmentFixture(t)

	_, err := svc.OpenInvestment(ownerID, OpenInvestmentInput{
		Name:       "Rental flat",
		Amount:     decimal.NewFromInt(10000),
		CategoryID: uuid.New(),
	})

	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestOpenInvestment_OtherUsersCategory(t *testing.T) {
	svc, _, categoryRepo, ownerID, _, _ := newInvestmentFixture(t)

	foreign := categoryRepo.AddCategory(&domain.Category{
		OwnerID: uuid.New(),
		Name:    "Not yours",
		Type:    domain.TransactionTypeExpense,
	})

	_, err := svc.OpenInvestment(ownerID, OpenInvestmentInput{
		Name:       "Rental flat",
		Amount:     decimal.NewFromInt(10000),
		CategoryID: foreign.ID,
	})

	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestOpenInvestment_IncomeCategoryRejected(t *testing.T) {
	svc, _, _, ownerID, _, incomeCat := newInvestmentFixture(t)

	_, err := svc.OpenInvestment(ownerID, OpenInvestmentInput{
		Name:       "Rental flat",
		Amount:     decimal.NewFromInt(10000),
		CategoryID: incomeCat.ID,
	})

	assert.ErrorIs(t, err, domain.ErrTypeMismatch)
}

func TestOpenInvestment_NonPositiveAmount(t *testing.T) {
	svc, _, _, ownerID, expenseCat, _ := newInvestmentFixture(t)

	_, err := svc.OpenInvestment(ownerID, OpenInvestmentInput{
		Name:       "Rental flat",
		Amount:     decimal.Zero,
		CategoryID: expenseCat.ID,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestAddReturn_PartialCapitalOnly(t *testing.T) {
	svc, _, _, ownerID, expenseCat, incomeCat := newInvestmentFixture(t)
	project := openProject(t, svc, ownerID, expenseCat.ID, 10000)

	updated, err := svc.AddReturn(ownerID, project.ID, AddReturnInput{
		TotalReturned: decimal.NewFromInt(4000),
		CategoryID:    incomeCat.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusOpen, updated.Status)
	assert.Nil(t, updated.ClosedDate)

	assert.True(t, updated.SumFlows(domain.FlowReturnOfCapital).Equal(decimal.NewFromInt(4000)))
	assert.True(t, updated.SumFlows(domain.FlowProfit).IsZero())

	metrics := updated.Metrics(time.Now())
	assert.True(t, metrics.CapitalOutstanding.Equal(decimal.NewFromInt(6000)))

	// one principal entry plus one capital return entry, no profit entry
	require.Len(t, updated.Cashflows, 2)
	require.Len(t, updated.Transactions, 2)
	ret := updated.Transactions[1]
	assert.Equal(t, domain.TransactionTypeIncome, ret.Type)
	require.NotNil(t, ret.Note)
	assert.Equal(t, "Capital return from Rental flat", *ret.Note)
}

func TestAddReturn_OverRemainingCapsAndClosesWithProfit(t *testing.T) {
	svc, _, _, ownerID, expenseCat, incomeCat := newInvestmentFixture(t)
	project := openProject(t, svc, ownerID, expenseCat.ID, 10000)

	_, err := svc.AddReturn(ownerID, project.ID, AddReturnInput{
		TotalReturned: decimal.NewFromInt(4000),
		CategoryID:    incomeCat.ID,
	})
	require.NoError(t, err)

	returnDate := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	updated, err := svc.AddReturn(ownerID, project.ID, AddReturnInput{
		TotalReturned: decimal.NewFromInt(7000),
		CategoryID:    incomeCat.ID,
		Date:          &returnDate,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusClosed, updated.Status)
	require.NotNil(t, updated.ClosedDate)
	assert.True(t, returnDate.Equal(*updated.ClosedDate))

	// capital capped at the remaining 6000, the extra 1000 is profit
	assert.True(t, updated.SumFlows(domain.FlowReturnOfCapital).Equal(decimal.NewFromInt(10000)))
	assert.True(t, updated.SumFlows(domain.FlowProfit).Equal(decimal.NewFromInt(1000)))
	assert.True(t, updated.SumFlows(domain.FlowLoss).IsZero())

	var profitNote string
	for _, tx := range updated.Transactions {
		if tx.Note != nil && *tx.Note == "Profit from Rental flat" {
			profitNote = *tx.Note
			assert.True(t, tx.Amount.Equal(decimal.NewFromInt(1000)))
		}
	}
	assert.NotEmpty(t, profitNote)
}

func TestAddReturn_ExactRemainingClosesWithoutProfit(t *testing.T) {
	svc, _, _, ownerID, expenseCat, incomeCat := newInvestmentFixture(t)
	project := openProject(t, svc, ownerID, expenseCat.ID, 10000)

	updated, err := svc.AddReturn(ownerID, project.ID, AddReturnInput{
		TotalReturned: decimal.NewFromInt(10000),
		CategoryID:    incomeCat.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusClosed, updated.Status)
	assert.True(t, updated.SumFlows(domain.FlowProfit).IsZero())
	require.Len(t, updated.Cashflows, 2)
}

func TestAddReturn_ClosedInvestmentRejected(t *testing.T) {
	svc, _, _, ownerID, expenseCat, incomeCat := newInvestmentFixture(t)
	project := openProject(t, svc, ownerID, expenseCat.ID, 10000)

	_, err := svc.AddReturn(ownerID, project.ID, AddReturnInput{
		TotalReturned: decimal.NewFromInt(10000),
		CategoryID:    incomeCat.ID,
	})
	require.NoError(t, err)

	_, err = svc.AddReturn(ownerID, project.ID, AddReturnInput{
		TotalReturned: decimal.NewFromInt(500),
		CategoryID:    incomeCat.ID,
	})

	assert.ErrorIs(t, err, domain.ErrInvestmentClosed)
}

func TestAddReturn_InvestmentNotFound(t *testing.T) {
	svc, _, _, ownerID, _, incomeCat := newInvestmentFixture(t)

	_, err := svc.AddReturn(ownerID, uuid.New(), AddReturnInput{
		TotalReturned: decimal.NewFromInt(500),
		CategoryID:    incomeCat.ID,
	})

	assert.ErrorIs(t, err, domain.ErrInvestmentNotFound)
}

func TestAddReturn_ExpenseCategoryRejected(t *testing.T) {
	svc, _, _, ownerID, expenseCat, _ := newInvestmentFixture(t)
	project := openProject(t, svc, ownerID, expenseCat.ID, 10000)

	_, err := svc.AddReturn(ownerID, project.ID, AddReturnInput{
		TotalReturned: decimal.NewFromInt(500),
		CategoryID:    expenseCat.ID,
	})

	assert.ErrorIs(t, err, domain.ErrTypeMismatch)
}

func TestAddReturn_CapitalConservationHolds(t *testing.T) {
	svc, _, _, ownerID, expenseCat, incomeCat := newInvestmentFixture(t)
	project := openProject(t, svc, ownerID, expenseCat.ID, 10000)

	amounts := []int64{2500, 2500, 3000, 4000, 1000}
	for _, amount := range amounts {
		updated, err := svc.AddReturn(ownerID, project.ID, AddReturnInput{
			TotalReturned: decimal.NewFromInt(amount),
			CategoryID:    incomeCat.ID,
		})
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInvestmentClosed)
			break
		}
		invested := updated.SumFlows(domain.FlowInvestPrincipal)
		returned := updated.SumFlows(domain.FlowReturnOfCapital)
		assert.True(t, returned.LessThanOrEqual(invested),
			"returned %s exceeds invested %s", returned, invested)
	}
}

func TestCloseInvestment_OutstandingCapital(t *testing.T) {
	svc, _, _, ownerID, expenseCat, incomeCat := newInvestmentFixture(t)
	project := openProject(t, svc, ownerID, expenseCat.ID, 10000)

	_, err := svc.AddReturn(ownerID, project.ID, AddReturnInput{
		TotalReturned: decimal.NewFromInt(4000),
		CategoryID:    incomeCat.ID,
	})
	require.NoError(t, err)

	_, err = svc.CloseInvestment(ownerID, project.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOutstandingCapital)

	var outstanding *domain.OutstandingCapitalError
	require.True(t, errors.As(err, &outstanding))
	assert.True(t, outstanding.Invested.Equal(decimal.NewFromInt(10000)))
	assert.True(t, outstanding.Returned.Equal(decimal.NewFromInt(4000)))
}

func TestCloseInvestment_FullyReturned(t *testing.T) {
	svc, investmentRepo, _, _, _, _ := newInvestmentFixture(t)

	// Seed a fully-returned project still marked open, the only state in
	// which an explicit close is legal.
	ownerID := uuid.New()
	amount := decimal.NewFromInt(5000)
	project := investmentRepo.AddProject(&domain.InvestmentProject{
		OwnerID:   ownerID,
		Name:      "Wound down",
		StartDate: time.Now().AddDate(0, -6, 0),
		Status:    domain.ProjectStatusOpen,
		Cashflows: []*domain.InvestmentCashflow{
			{ID: uuid.New(), FlowType: domain.FlowInvestPrincipal, Amount: amount},
			{ID: uuid.New(), FlowType: domain.FlowReturnOfCapital, Amount: amount},
		},
	})

	closed, err := svc.CloseInvestment(ownerID, project.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedDate)
}

func TestCloseInvestment_AlreadyClosed(t *testing.T) {
	svc, _, _, ownerID, expenseCat, incomeCat := newInvestmentFixture(t)
	project := openProject(t, svc, ownerID, expenseCat.ID, 10000)

	_, err := svc.AddReturn(ownerID, project.ID, AddReturnInput{
		TotalReturned: decimal.NewFromInt(10000),
		CategoryID:    incomeCat.ID,
	})
	require.NoError(t, err)

	_, err = svc.CloseInvestment(ownerID, project.ID)
	assert.ErrorIs(t, err, domain.ErrInvestmentClosed)
}

func TestUpdateInvestment_MetadataOnClosedProject(t *testing.T) {
	svc, _, _, ownerID, expenseCat, incomeCat := newInvestmentFixture(t)
	project := openProject(t, svc, ownerID, expenseCat.ID, 10000)

	_, err := svc.AddReturn(ownerID, project.ID, AddReturnInput{
		TotalReturned: decimal.NewFromInt(10000),
		CategoryID:    incomeCat.ID,
	})
	require.NoError(t, err)

	newName := "Rental flat (sold)"
	updated, err := svc.UpdateInvestment(ownerID, project.ID, UpdateInvestmentInput{
		Name: &newName,
	})

	require.NoError(t, err)
	assert.Equal(t, "Rental flat (sold)", updated.Name)
	assert.Equal(t, domain.ProjectStatusClosed, updated.Status)
}

func TestUpdateInvestment_EmptyNameRejected(t *testing.T) {
	svc, _, _, ownerID, expenseCat, _ := newInvestmentFixture(t)
	project := openProject(t, svc, ownerID, expenseCat.ID, 10000)

	empty := "   "
	_, err := svc.UpdateInvestment(ownerID, project.ID, UpdateInvestmentInput{Name: &empty})

	assert.ErrorIs(t, err, domain.ErrNameRequired)
}

func TestDeleteInvestment_Cascades(t *testing.T) {
	svc, investmentRepo, _, ownerID, expenseCat, incomeCat := newInvestmentFixture(t)
	project := openProject(t, svc, ownerID, expenseCat.ID, 10000)

	_, err := svc.AddReturn(ownerID, project.ID, AddReturnInput{
		TotalReturned: decimal.NewFromInt(4000),
		CategoryID:    incomeCat.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteInvestment(ownerID, project.ID))

	_, err = svc.GetInvestment(ownerID, project.ID)
	assert.ErrorIs(t, err, domain.ErrInvestmentNotFound)
	assert.Empty(t, investmentRepo.Projects)
}

func TestDeleteInvestment_OtherUser(t *testing.T) {
	svc, _, _, ownerID, expenseCat, _ := newInvestmentFixture(t)
	project := openProject(t, svc, ownerID, expenseCat.ID, 10000)

	err := svc.DeleteInvestment(uuid.New(), project.ID)
	assert.ErrorIs(t, err, domain.ErrInvestmentNotFound)
}

func TestGetInvestments_StatusFilter(t *testing.T) {
	svc, _, _, ownerID, expenseCat, incomeCat := newInvestmentFixture(t)
	openProject(t, svc, ownerID, expenseCat.ID, 10000)
	second := openProject(t, svc, ownerID, expenseCat.ID, 5000)

	_, err := svc.AddReturn(ownerID, second.ID, AddReturnInput{
		TotalReturned: decimal.NewFromInt(5000),
		CategoryID:    incomeCat.ID,
	})
	require.NoError(t, err)

	open := domain.ProjectStatusOpen
	openOnly, err := svc.GetInvestments(ownerID, &open)
	require.NoError(t, err)
	assert.Len(t, openOnly, 1)

	all, err := svc.GetInvestments(ownerID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
