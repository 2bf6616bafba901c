package service

import (
	"time"

	"github.com/akhand08/adibFin/internal/domain"
	"github.com/akhand08/adibFin/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportService computes read-side rollups by grouping and summing records
// already fetched. It never mutates anything.
type ReportService struct {
	transactionRepo domain.TransactionRepository
	investmentRepo  domain.InvestmentRepository
}

// NewReportService creates a new ReportService
func NewReportService(transactionRepo domain.TransactionRepository, investmentRepo domain.InvestmentRepository) *ReportService {
	return &ReportService{
		transactionRepo: transactionRepo,
		investmentRepo:  investmentRepo,
	}
}

// GetMonthlyReport rolls up one calendar month of transactions
func (s *ReportService) GetMonthlyReport(ownerID uuid.UUID, year, month int) (*domain.MonthlyReport, error) {
	start, end := util.MonthWindow(year, month)

	transactions, err := s.transactionRepo.List(ownerID, &domain.TransactionFilters{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, err
	}

	summary, expenseByCategory, incomeByCategory := rollup(transactions)

	return &domain.MonthlyReport{
		Year:              year,
		Month:             month,
		StartDate:         start,
		EndDate:           end,
		Summary:           summary,
		ExpenseByCategory: expenseByCategory,
		IncomeByCategory:  incomeByCategory,
	}, nil
}

// GetYearlyReport rolls up a calendar year. The twelve per-month entries are
// computed by filtering the single fetched set by month index, not by
// running twelve queries.
func (s *ReportService) GetYearlyReport(ownerID uuid.UUID, year int) (*domain.YearlyReport, error) {
	start, end := util.YearWindow(year)

	transactions, err := s.transactionRepo.List(ownerID, &domain.TransactionFilters{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, err
	}

	monthlyData := make([]domain.MonthTotals, 12)
	for i := range monthlyData {
		totals := domain.MonthTotals{
			Month:        i + 1,
			TotalIncome:  decimal.Zero,
			TotalExpense: decimal.Zero,
		}
		for _, tx := range transactions {
			if int(tx.Date.Month()) != i+1 {
				continue
			}
			switch tx.Type {
			case domain.TransactionTypeIncome:
				totals.TotalIncome = totals.TotalIncome.Add(tx.Amount)
			case domain.TransactionTypeExpense:
				totals.TotalExpense = totals.TotalExpense.Add(tx.Amount)
			}
		}
		totals.NetSavings = totals.TotalIncome.Sub(totals.TotalExpense)
		monthlyData[i] = totals
	}

	summary, expenseByCategory, incomeByCategory := rollup(transactions)

	return &domain.YearlyReport{
		Year:              year,
		Summary:           summary,
		MonthlyData:       monthlyData,
		ExpenseByCategory: expenseByCategory,
		IncomeByCategory:  incomeByCategory,
	}, nil
}

// GetDateRangeReport rolls up a caller-supplied inclusive window
func (s *ReportService) GetDateRangeReport(ownerID uuid.UUID, startDate, endDate time.Time) (*domain.DateRangeReport, error) {
	end := util.EndOfDay(endDate)

	transactions, err := s.transactionRepo.List(ownerID, &domain.TransactionFilters{
		StartDate: &startDate,
		EndDate:   &end,
	})
	if err != nil {
		return nil, err
	}

	summary, expenseByCategory, incomeByCategory := rollup(transactions)

	return &domain.DateRangeReport{
		StartDate:         startDate,
		EndDate:           endDate,
		Summary:           summary,
		TransactionCount:  len(transactions),
		ExpenseByCategory: expenseByCategory,
		IncomeByCategory:  incomeByCategory,
	}, nil
}

// GetInvestmentReport computes per-project metrics for every project the
// user owns plus the aggregate portfolio summary.
func (s *ReportService) GetInvestmentReport(ownerID uuid.UUID) (*domain.InvestmentReport, error) {
	projects, err := s.investmentRepo.List(ownerID, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	summary := domain.PortfolioSummary{
		TotalInvestments:        len(projects),
		TotalPrincipal:          decimal.Zero,
		TotalCapitalReturned:    decimal.Zero,
		TotalCapitalOutstanding: decimal.Zero,
		TotalNetProfit:          decimal.Zero,
		OverallROI:              decimal.Zero,
	}

	investments := make([]domain.InvestmentSummary, len(projects))
	for i, p := range projects {
		metrics := p.Metrics(now)
		investments[i] = domain.InvestmentSummary{
			ID:                p.ID,
			Name:              p.Name,
			Description:       p.Description,
			Status:            p.Status,
			StartDate:         p.StartDate,
			ClosedDate:        p.ClosedDate,
			InvestmentMetrics: metrics,
		}

		switch p.Status {
		case domain.ProjectStatusOpen:
			summary.OpenInvestments++
		case domain.ProjectStatusClosed:
			summary.ClosedInvestments++
		}
		summary.TotalPrincipal = summary.TotalPrincipal.Add(metrics.Principal)
		summary.TotalCapitalReturned = summary.TotalCapitalReturned.Add(metrics.CapitalReturned)
		summary.TotalNetProfit = summary.TotalNetProfit.Add(metrics.NetProfit)
	}

	summary.TotalCapitalOutstanding = summary.TotalPrincipal.Sub(summary.TotalCapitalReturned)
	if summary.TotalPrincipal.IsPositive() {
		summary.OverallROI = summary.TotalNetProfit.Div(summary.TotalPrincipal).Mul(decimal.NewFromInt(100))
	}

	return &domain.InvestmentReport{
		Summary:     summary,
		Investments: investments,
	}, nil
}

// rollup groups transactions by type and category name and sums amounts
func rollup(transactions []*domain.Transaction) (domain.ReportSummary, map[string]decimal.Decimal, map[string]decimal.Decimal) {
	summary := domain.ReportSummary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	expenseByCategory := make(map[string]decimal.Decimal)
	incomeByCategory := make(map[string]decimal.Decimal)

	for _, tx := range transactions {
		switch tx.Type {
		case domain.TransactionTypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
			incomeByCategory[tx.CategoryName] = incomeByCategory[tx.CategoryName].Add(tx.Amount)
		case domain.TransactionTypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(tx.Amount)
			expenseByCategory[tx.CategoryName] = expenseByCategory[tx.CategoryName].Add(tx.Amount)
		}
	}

	summary.NetSavings = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary, expenseByCategory, incomeByCategory
}
