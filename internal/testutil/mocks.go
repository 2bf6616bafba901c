package testutil

import (
	"sort"
	"time"

	"github.com/akhand08/adibFin/internal/domain"
	"github.com/google/uuid"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID    map[uuid.UUID]*domain.User
	ByEmail map[string]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:    make(map[uuid.UUID]*domain.User),
		ByEmail: make(map[string]*domain.User),
	}
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if _, ok := m.ByEmail[user.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	m.ByID[user.ID] = user
	m.ByEmail[user.Email] = user
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if user, ok := m.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[uuid.UUID]*domain.Category
	// Counts overrides the referencing-transaction count per category
	Counts map[uuid.UUID]int64
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[uuid.UUID]*domain.Category),
		Counts:     make(map[uuid.UUID]int64),
	}
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) *domain.Category {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	m.Categories[category.ID] = category
	return category
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	m.Categories[category.ID] = category
	return category, nil
}

// GetVisible retrieves a category owned by ownerID or marked system
func (m *MockCategoryRepository) GetVisible(ownerID, id uuid.UUID) (*domain.Category, error) {
	if c, ok := m.Categories[id]; ok && (c.OwnerID == ownerID || c.IsSystem) {
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetOwned retrieves a category only if ownerID owns it
func (m *MockCategoryRepository) GetOwned(ownerID, id uuid.UUID) (*domain.Category, error) {
	if c, ok := m.Categories[id]; ok && c.OwnerID == ownerID {
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// ListVisible returns owned plus system categories, system first then name
func (m *MockCategoryRepository) ListVisible(ownerID uuid.UUID, txType *domain.TransactionType) ([]*domain.Category, error) {
	var result []*domain.Category
	for _, c := range m.Categories {
		if c.OwnerID != ownerID && !c.IsSystem {
			continue
		}
		if txType != nil && c.Type != *txType {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IsSystem != result[j].IsSystem {
			return result[i].IsSystem
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// CountTransactions reports how many transactions reference the category
func (m *MockCategoryRepository) CountTransactions(categoryID uuid.UUID) (int64, error) {
	return m.Counts[categoryID], nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) *domain.Transaction {
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	m.Transactions[transaction.ID] = transaction
	return transaction
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	transaction.ID = uuid.New()
	now := time.Now()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction by ID within an owner scope
func (m *MockTransactionRepository) GetByID(ownerID, id uuid.UUID) (*domain.Transaction, error) {
	if tx, ok := m.Transactions[id]; ok && tx.OwnerID == ownerID {
		return tx, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// List returns the owner's transactions matching filters, date descending
func (m *MockTransactionRepository) List(ownerID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for _, tx := range m.Transactions {
		if tx.OwnerID != ownerID {
			continue
		}
		if filters != nil {
			if filters.Type != nil && tx.Type != *filters.Type {
				continue
			}
			if filters.CategoryID != nil && tx.CategoryID != *filters.CategoryID {
				continue
			}
			if filters.InvestmentProjectID != nil &&
				(tx.InvestmentProjectID == nil || *tx.InvestmentProjectID != *filters.InvestmentProjectID) {
				continue
			}
			if filters.StartDate != nil && tx.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && tx.Date.After(*filters.EndDate) {
				continue
			}
		}
		result = append(result, tx)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

// Update replaces the mutable fields of a transaction
func (m *MockTransactionRepository) Update(ownerID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	tx, ok := m.Transactions[id]
	if !ok || tx.OwnerID != ownerID {
		return nil, domain.ErrTransactionNotFound
	}
	tx.Date = data.Date
	tx.Type = data.Type
	tx.CategoryID = data.CategoryID
	tx.Amount = data.Amount
	tx.Note = data.Note
	tx.UpdatedAt = time.Now()
	return tx, nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(ownerID, id uuid.UUID) error {
	tx, ok := m.Transactions[id]
	if !ok || tx.OwnerID != ownerID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return nil
}

// MockInvestmentRepository is a mock implementation of domain.InvestmentRepository
type MockInvestmentRepository struct {
	Projects map[uuid.UUID]*domain.InvestmentProject
}

// NewMockInvestmentRepository creates a new MockInvestmentRepository
func NewMockInvestmentRepository() *MockInvestmentRepository {
	return &MockInvestmentRepository{
		Projects: make(map[uuid.UUID]*domain.InvestmentProject),
	}
}

// AddProject adds a project to the mock repository (helper for tests)
func (m *MockInvestmentRepository) AddProject(project *domain.InvestmentProject) *domain.InvestmentProject {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	m.Projects[project.ID] = project
	return project
}

// CreateWithPrincipal persists the project with its opening transaction and cashflow
func (m *MockInvestmentRepository) CreateWithPrincipal(project *domain.InvestmentProject, transaction *domain.Transaction, cashflow *domain.InvestmentCashflow) error {
	project.ID = uuid.New()
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	transaction.ID = uuid.New()
	transaction.InvestmentProjectID = &project.ID
	transaction.CreatedAt = now
	transaction.UpdatedAt = now

	cashflow.ID = uuid.New()
	cashflow.ProjectID = project.ID
	cashflow.TransactionID = transaction.ID
	cashflow.CreatedAt = now

	project.Transactions = []*domain.Transaction{transaction}
	project.Cashflows = []*domain.InvestmentCashflow{cashflow}
	m.Projects[project.ID] = project
	return nil
}

// GetByID retrieves a project with its transactions and cashflows
func (m *MockInvestmentRepository) GetByID(ownerID, id uuid.UUID) (*domain.InvestmentProject, error) {
	if p, ok := m.Projects[id]; ok && p.OwnerID == ownerID {
		return p, nil
	}
	return nil, domain.ErrInvestmentNotFound
}

// List returns the owner's projects, start date descending
func (m *MockInvestmentRepository) List(ownerID uuid.UUID, status *domain.ProjectStatus) ([]*domain.InvestmentProject, error) {
	var result []*domain.InvestmentProject
	for _, p := range m.Projects {
		if p.OwnerID != ownerID {
			continue
		}
		if status != nil && p.Status != *status {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartDate.After(result[j].StartDate)
	})
	return result, nil
}

// AppendReturn appends return entries, re-validating capital conservation
// the way the SQL repository does inside its transaction.
func (m *MockInvestmentRepository) AppendReturn(projectID uuid.UUID, entries []domain.ReturnEntry, closedDate *time.Time) error {
	p, ok := m.Projects[projectID]
	if !ok {
		return domain.ErrInvestmentNotFound
	}

	invested := p.SumFlows(domain.FlowInvestPrincipal)
	returned := p.SumFlows(domain.FlowReturnOfCapital)
	for _, e := range entries {
		if e.Cashflow.FlowType == domain.FlowReturnOfCapital {
			returned = returned.Add(e.Cashflow.Amount)
		}
	}
	if returned.GreaterThan(invested) {
		return domain.ErrInvalidReturnAmount
	}

	now := time.Now()
	for _, e := range entries {
		e.Transaction.ID = uuid.New()
		e.Transaction.InvestmentProjectID = &projectID
		e.Transaction.CreatedAt = now
		e.Transaction.UpdatedAt = now
		e.Cashflow.ID = uuid.New()
		e.Cashflow.ProjectID = projectID
		e.Cashflow.TransactionID = e.Transaction.ID
		e.Cashflow.CreatedAt = now
		p.Transactions = append(p.Transactions, e.Transaction)
		p.Cashflows = append(p.Cashflows, e.Cashflow)
	}

	if closedDate != nil {
		p.Status = domain.ProjectStatusClosed
		p.ClosedDate = closedDate
	}
	p.UpdatedAt = now
	return nil
}

// Close marks a project closed
func (m *MockInvestmentRepository) Close(ownerID, id uuid.UUID, closedDate time.Time) error {
	p, ok := m.Projects[id]
	if !ok || p.OwnerID != ownerID {
		return domain.ErrInvestmentNotFound
	}
	p.Status = domain.ProjectStatusClosed
	p.ClosedDate = &closedDate
	p.UpdatedAt = time.Now()
	return nil
}

// UpdateMeta applies a metadata patch
func (m *MockInvestmentRepository) UpdateMeta(ownerID, id uuid.UUID, data *domain.UpdateInvestmentData) error {
	p, ok := m.Projects[id]
	if !ok || p.OwnerID != ownerID {
		return domain.ErrInvestmentNotFound
	}
	if data.Name != nil {
		p.Name = *data.Name
	}
	if data.Description != nil {
		p.Description = data.Description
	}
	if data.Status != nil {
		p.Status = *data.Status
	}
	p.UpdatedAt = time.Now()
	return nil
}

// Delete removes a project and everything hanging off it
func (m *MockInvestmentRepository) Delete(ownerID, id uuid.UUID) error {
	p, ok := m.Projects[id]
	if !ok || p.OwnerID != ownerID {
		return domain.ErrInvestmentNotFound
	}
	delete(m.Projects, id)
	return nil
}

// GetCashflowByTransaction returns the cashflow linked to a transaction
func (m *MockInvestmentRepository) GetCashflowByTransaction(transactionID uuid.UUID) (*domain.InvestmentCashflow, error) {
	for _, p := range m.Projects {
		for _, cf := range p.Cashflows {
			if cf.TransactionID == transactionID {
				return cf, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}
