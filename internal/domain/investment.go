package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProjectStatus string

const (
	ProjectStatusOpen   ProjectStatus = "open"
	ProjectStatusClosed ProjectStatus = "closed"
)

// FlowType tags the economic role of a cashflow within a project. Amounts
// are positive magnitudes; the sign is implied by the flow type.
type FlowType string

const (
	FlowInvestPrincipal FlowType = "invest_principal"
	FlowReturnOfCapital FlowType = "return_of_capital"
	FlowProfit          FlowType = "profit"
	FlowLoss            FlowType = "loss"
)

// InvestmentProject tracks capital put into a venture and the structured
// cashflows coming back out. It opens with a principal outflow and closes
// exactly when all principal has been returned.
type InvestmentProject struct {
	ID          uuid.UUID     `json:"id"`
	OwnerID     uuid.UUID     `json:"ownerId"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	StartDate   time.Time     `json:"startDate"`
	ClosedDate  *time.Time    `json:"closedDate,omitempty"`
	Status      ProjectStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	Transactions []*Transaction        `json:"transactions,omitempty"`
	Cashflows    []*InvestmentCashflow `json:"cashflows,omitempty"`
}

// InvestmentCashflow links a transaction to its role in a project, 1:1 with
// the transaction. Cashflows are immutable once written.
type InvestmentCashflow struct {
	ID            uuid.UUID       `json:"id"`
	ProjectID     uuid.UUID       `json:"projectId"`
	TransactionID uuid.UUID       `json:"transactionId"`
	FlowType      FlowType        `json:"flowType"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// SumFlows totals the cashflow amounts of the given flow type.
func (p *InvestmentProject) SumFlows(flowType FlowType) decimal.Decimal {
	sum := decimal.Zero
	for _, cf := range p.Cashflows {
		if cf.FlowType == flowType {
			sum = sum.Add(cf.Amount)
		}
	}
	return sum
}

// InvestmentMetrics are the derived figures for one project.
type InvestmentMetrics struct {
	Principal          decimal.Decimal `json:"principal"`
	CapitalReturned    decimal.Decimal `json:"capitalReturned"`
	CapitalOutstanding decimal.Decimal `json:"capitalOutstanding"`
	Profit             decimal.Decimal `json:"profit"`
	Loss               decimal.Decimal `json:"loss"`
	NetProfit          decimal.Decimal `json:"netProfit"`
	ROI                decimal.Decimal `json:"roi"`
	TotalReturn        decimal.Decimal `json:"totalReturn"`
	DurationDays       int             `json:"durationDays"`
}

// Metrics computes the derived figures from the project's cashflows. Open
// projects measure duration up to now, closed ones up to their closed date.
func (p *InvestmentProject) Metrics(now time.Time) InvestmentMetrics {
	principal := p.SumFlows(FlowInvestPrincipal)
	capitalReturned := p.SumFlows(FlowReturnOfCapital)
	profit := p.SumFlows(FlowProfit)
	loss := p.SumFlows(FlowLoss)
	netProfit := profit.Sub(loss)

	roi := decimal.Zero
	if principal.IsPositive() {
		roi = netProfit.Div(principal).Mul(decimal.NewFromInt(100))
	}

	end := now
	if p.ClosedDate != nil {
		end = *p.ClosedDate
	}
	durationDays := int(end.Sub(p.StartDate).Hours() / 24)
	if durationDays < 0 {
		durationDays = 0
	}

	return InvestmentMetrics{
		Principal:          principal,
		CapitalReturned:    capitalReturned,
		CapitalOutstanding: principal.Sub(capitalReturned),
		Profit:             profit,
		Loss:               loss,
		NetProfit:          netProfit,
		ROI:                roi,
		TotalReturn:        capitalReturned.Add(netProfit),
		DurationDays:       durationDays,
	}
}

// ReturnEntry pairs a ledger transaction with the cashflow that tags it.
// AppendReturn persists all entries of one return event together.
type ReturnEntry struct {
	Transaction *Transaction
	Cashflow    *InvestmentCashflow
}

// UpdateInvestmentData holds a metadata-only patch. Nil fields are left
// unchanged.
type UpdateInvestmentData struct {
	Name        *string
	Description *string
	Status      *ProjectStatus
}

type InvestmentRepository interface {
	// CreateWithPrincipal persists the project, its opening expense
	// transaction and the INVEST_PRINCIPAL cashflow as one atomic write.
	CreateWithPrincipal(project *InvestmentProject, transaction *Transaction, cashflow *InvestmentCashflow) error
	// GetByID returns the project with transactions and cashflows attached,
	// cashflows ordered by creation time ascending.
	GetByID(ownerID, id uuid.UUID) (*InvestmentProject, error)
	// List returns the owner's projects, start date descending, each with
	// transactions and cashflows attached.
	List(ownerID uuid.UUID, status *ProjectStatus) ([]*InvestmentProject, error)
	// AppendReturn writes the return entries atomically and closes the
	// project when closedDate is non-nil. The write re-validates capital
	// conservation against the stored cashflows and fails with
	// ErrInvalidReturnAmount if a concurrent return got there first.
	AppendReturn(projectID uuid.UUID, entries []ReturnEntry, closedDate *time.Time) error
	Close(ownerID, id uuid.UUID, closedDate time.Time) error
	UpdateMeta(ownerID, id uuid.UUID, data *UpdateInvestmentData) error
	// Delete removes the project and cascades to its transactions and
	// cashflows in one atomic write.
	Delete(ownerID, id uuid.UUID) error
	// GetCashflowByTransaction returns the cashflow referencing the
	// transaction, or ErrNotFound if the transaction is unlinked.
	GetCashflowByTransaction(transactionID uuid.UUID) (*InvestmentCashflow, error)
}
