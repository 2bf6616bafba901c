package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/akhand08/adibFin/internal/domain"
	"github.com/akhand08/adibFin/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentService turns investment lifecycle events into consistent
// transaction+cashflow writes and keeps the capital-conservation invariant:
// returned capital never exceeds invested principal.
type InvestmentService struct {
	investmentRepo domain.InvestmentRepository
	categoryRepo   domain.CategoryRepository
	eventPublisher websocket.EventPublisher
}

// NewInvestmentService creates a new InvestmentService
func NewInvestmentService(investmentRepo domain.InvestmentRepository, categoryRepo domain.CategoryRepository) *InvestmentService {
	return &InvestmentService{
		investmentRepo: investmentRepo,
		categoryRepo:   categoryRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *InvestmentService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *InvestmentService) publishEvent(ownerID uuid.UUID, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(ownerID, event)
	}
}

// OpenInvestmentInput holds the input for opening an investment
type OpenInvestmentInput struct {
	Name        string
	Description *string
	Amount      decimal.Decimal
	CategoryID  uuid.UUID
	StartDate   *time.Time
}

// OpenInvestment creates a project together with its principal outflow: an
// expense transaction and an INVEST_PRINCIPAL cashflow, written atomically.
func (s *InvestmentService) OpenInvestment(ownerID uuid.UUID, input OpenInvestmentInput) (*domain.InvestmentProject, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	category, err := s.categoryRepo.GetVisible(ownerID, input.CategoryID)
	if err != nil {
		return nil, domain.ErrCategoryNotFound
	}
	if category.Type != domain.TransactionTypeExpense {
		return nil, domain.ErrTypeMismatch
	}

	startDate := time.Now()
	if input.StartDate != nil {
		startDate = *input.StartDate
	}

	project := &domain.InvestmentProject{
		OwnerID:     ownerID,
		Name:        name,
		Description: input.Description,
		StartDate:   startDate,
		Status:      domain.ProjectStatusOpen,
	}

	note := fmt.Sprintf("Investment in %s", name)
	transaction := &domain.Transaction{
		OwnerID:    ownerID,
		Date:       startDate,
		Type:       domain.TransactionTypeExpense,
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
		Note:       &note,
	}

	cashflow := &domain.InvestmentCashflow{
		FlowType: domain.FlowInvestPrincipal,
		Amount:   input.Amount,
	}

	if err := s.investmentRepo.CreateWithPrincipal(project, transaction, cashflow); err != nil {
		return nil, err
	}

	created, err := s.investmentRepo.GetByID(ownerID, project.ID)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ownerID, websocket.InvestmentCreated(created))
	return created, nil
}

// AddReturnInput holds the input for recording a return
type AddReturnInput struct {
	TotalReturned decimal.Decimal
	CategoryID    uuid.UUID
	Date          *time.Time
}

// AddReturn records an inflow against an open project. The total is split
// automatically: capital up to the remaining principal, anything beyond as
// profit. Returning the final slice of principal closes the project.
func (s *InvestmentService) AddReturn(ownerID, projectID uuid.UUID, input AddReturnInput) (*domain.InvestmentProject, error) {
	project, err := s.investmentRepo.GetByID(ownerID, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status == domain.ProjectStatusClosed {
		return nil, domain.ErrInvestmentClosed
	}
	if input.TotalReturned.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	category, err := s.categoryRepo.GetVisible(ownerID, input.CategoryID)
	if err != nil {
		return nil, domain.ErrCategoryNotFound
	}
	if category.Type != domain.TransactionTypeIncome {
		return nil, domain.ErrTypeMismatch
	}

	invested := project.SumFlows(domain.FlowInvestPrincipal)
	returnedSoFar := project.SumFlows(domain.FlowReturnOfCapital)
	remaining := invested.Sub(returnedSoFar)

	capitalPortion := decimal.Min(input.TotalReturned, remaining)
	profit := input.TotalReturned.Sub(capitalPortion)

	// Always true by construction; guards against a concurrent return
	// between the read above and the write below. The repository re-checks
	// inside the write transaction as well.
	if capitalPortion.GreaterThan(remaining) {
		return nil, domain.ErrInvalidReturnAmount
	}

	returnDate := time.Now()
	if input.Date != nil {
		returnDate = *input.Date
	}

	var entries []domain.ReturnEntry
	if capitalPortion.IsPositive() {
		note := fmt.Sprintf("Capital return from %s", project.Name)
		entries = append(entries, domain.ReturnEntry{
			Transaction: &domain.Transaction{
				OwnerID:    ownerID,
				Date:       returnDate,
				Type:       domain.TransactionTypeIncome,
				CategoryID: input.CategoryID,
				Amount:     capitalPortion,
				Note:       &note,
			},
			Cashflow: &domain.InvestmentCashflow{
				FlowType: domain.FlowReturnOfCapital,
				Amount:   capitalPortion,
			},
		})
	}
	if profit.IsPositive() {
		note := fmt.Sprintf("Profit from %s", project.Name)
		entries = append(entries, domain.ReturnEntry{
			Transaction: &domain.Transaction{
				OwnerID:    ownerID,
				Date:       returnDate,
				Type:       domain.TransactionTypeIncome,
				CategoryID: input.CategoryID,
				Amount:     profit,
				Note:       &note,
			},
			Cashflow: &domain.InvestmentCashflow{
				FlowType: domain.FlowProfit,
				Amount:   profit,
			},
		})
	}

	var closedDate *time.Time
	if returnedSoFar.Add(capitalPortion).Equal(invested) {
		closedDate = &returnDate
	}

	if err := s.investmentRepo.AppendReturn(projectID, entries, closedDate); err != nil {
		return nil, err
	}

	updated, err := s.investmentRepo.GetByID(ownerID, projectID)
	if err != nil {
		return nil, err
	}
	if closedDate != nil {
		s.publishEvent(ownerID, websocket.InvestmentClosed(updated))
	} else {
		s.publishEvent(ownerID, websocket.InvestmentReturned(updated))
	}
	return updated, nil
}

// CloseInvestment closes a project explicitly. Every unit of principal must
// already be returned; otherwise the error carries the figures.
func (s *InvestmentService) CloseInvestment(ownerID, projectID uuid.UUID) (*domain.InvestmentProject, error) {
	project, err := s.investmentRepo.GetByID(ownerID, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status == domain.ProjectStatusClosed {
		return nil, domain.ErrInvestmentClosed
	}

	invested := project.SumFlows(domain.FlowInvestPrincipal)
	returned := project.SumFlows(domain.FlowReturnOfCapital)
	if returned.LessThan(invested) {
		return nil, &domain.OutstandingCapitalError{Invested: invested, Returned: returned}
	}

	if err := s.investmentRepo.Close(ownerID, projectID, time.Now()); err != nil {
		return nil, err
	}

	closed, err := s.investmentRepo.GetByID(ownerID, projectID)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ownerID, websocket.InvestmentClosed(closed))
	return closed, nil
}

// UpdateInvestmentInput holds a metadata-only patch
type UpdateInvestmentInput struct {
	Name        *string
	Description *string
	Status      *domain.ProjectStatus
}

// UpdateInvestment patches project metadata. It runs no capital checks and
// is allowed on closed projects.
func (s *InvestmentService) UpdateInvestment(ownerID, projectID uuid.UUID, input UpdateInvestmentInput) (*domain.InvestmentProject, error) {
	if _, err := s.investmentRepo.GetByID(ownerID, projectID); err != nil {
		return nil, err
	}

	data := &domain.UpdateInvestmentData{
		Description: input.Description,
		Status:      input.Status,
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.ErrNameRequired
		}
		if len(name) > domain.MaxNameLength {
			return nil, domain.ErrNameTooLong
		}
		data.Name = &name
	}
	if input.Status != nil &&
		*input.Status != domain.ProjectStatusOpen && *input.Status != domain.ProjectStatusClosed {
		return nil, domain.ErrInvalidType
	}

	if err := s.investmentRepo.UpdateMeta(ownerID, projectID, data); err != nil {
		return nil, err
	}

	updated, err := s.investmentRepo.GetByID(ownerID, projectID)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ownerID, websocket.InvestmentUpdated(updated))
	return updated, nil
}

// DeleteInvestment removes a project and cascades to its transactions and
// cashflows in one atomic write.
func (s *InvestmentService) DeleteInvestment(ownerID, projectID uuid.UUID) error {
	if _, err := s.investmentRepo.GetByID(ownerID, projectID); err != nil {
		return err
	}
	if err := s.investmentRepo.Delete(ownerID, projectID); err != nil {
		return err
	}
	s.publishEvent(ownerID, websocket.InvestmentDeleted(map[string]interface{}{"id": projectID}))
	return nil
}

// GetInvestment returns one project with its transactions and cashflows
func (s *InvestmentService) GetInvestment(ownerID, projectID uuid.UUID) (*domain.InvestmentProject, error) {
	return s.investmentRepo.GetByID(ownerID, projectID)
}

// GetInvestments returns the owner's projects, optionally filtered by status
func (s *InvestmentService) GetInvestments(ownerID uuid.UUID, status *domain.ProjectStatus) ([]*domain.InvestmentProject, error) {
	return s.investmentRepo.List(ownerID, status)
}
