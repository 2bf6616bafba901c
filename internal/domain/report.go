package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportSummary is the income/expense rollup shared by all period reports.
type ReportSummary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetSavings   decimal.Decimal `json:"netSavings"`
}

// MonthlyReport covers one calendar month in local time.
type MonthlyReport struct {
	Year              int                        `json:"year"`
	Month             int                        `json:"month"`
	StartDate         time.Time                  `json:"startDate"`
	EndDate           time.Time                  `json:"endDate"`
	Summary           ReportSummary              `json:"summary"`
	ExpenseByCategory map[string]decimal.Decimal `json:"expenseByCategory"`
	IncomeByCategory  map[string]decimal.Decimal `json:"incomeByCategory"`
}

// MonthTotals is one entry of the yearly per-month breakdown.
type MonthTotals struct {
	Month        int             `json:"month"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetSavings   decimal.Decimal `json:"netSavings"`
}

// YearlyReport covers a calendar year, with twelve per-month entries
// (index 0 = January) alongside the whole-year category rollups.
type YearlyReport struct {
	Year              int                        `json:"year"`
	Summary           ReportSummary              `json:"summary"`
	MonthlyData       []MonthTotals              `json:"monthlyData"`
	ExpenseByCategory map[string]decimal.Decimal `json:"expenseByCategory"`
	IncomeByCategory  map[string]decimal.Decimal `json:"incomeByCategory"`
}

// DateRangeReport covers a caller-supplied inclusive window.
type DateRangeReport struct {
	StartDate         time.Time                  `json:"startDate"`
	EndDate           time.Time                  `json:"endDate"`
	Summary           ReportSummary              `json:"summary"`
	TransactionCount  int                        `json:"transactionCount"`
	ExpenseByCategory map[string]decimal.Decimal `json:"expenseByCategory"`
	IncomeByCategory  map[string]decimal.Decimal `json:"incomeByCategory"`
}

// InvestmentSummary is one project's derived metrics for the portfolio view.
type InvestmentSummary struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	StartDate   time.Time     `json:"startDate"`
	ClosedDate  *time.Time    `json:"closedDate,omitempty"`
	InvestmentMetrics
}

// PortfolioSummary aggregates across every project of a user.
type PortfolioSummary struct {
	TotalInvestments        int             `json:"totalInvestments"`
	OpenInvestments         int             `json:"openInvestments"`
	ClosedInvestments       int             `json:"closedInvestments"`
	TotalPrincipal          decimal.Decimal `json:"totalPrincipal"`
	TotalCapitalReturned    decimal.Decimal `json:"totalCapitalReturned"`
	TotalCapitalOutstanding decimal.Decimal `json:"totalCapitalOutstanding"`
	TotalNetProfit          decimal.Decimal `json:"totalNetProfit"`
	OverallROI              decimal.Decimal `json:"overallRoi"`
}

// InvestmentReport is the portfolio rollup plus per-project summaries.
type InvestmentReport struct {
	Summary     PortfolioSummary    `json:"summary"`
	Investments []InvestmentSummary `json:"investments"`
}
