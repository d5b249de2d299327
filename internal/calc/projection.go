package calc

import (
	"fmt"

	"github.com/ebitner/pennyplan/internal/finance"
)

const (
	// DefaultIncomeGrowthPercent and DefaultExpenseGrowthPercent are the
	// per-month growth assumptions when the caller supplies none.
	DefaultIncomeGrowthPercent  = 1.5
	DefaultExpenseGrowthPercent = 2.0
)

// ProjectionInput drives a forward income/expense projection from
// historical transactions.
type ProjectionInput struct {
	Transactions []finance.Transaction
	PeriodMonths int
	// Growth rates are percentages applied per month; nil picks the
	// defaults above.
	IncomeGrowthRatePercent  *float64
	ExpenseGrowthRatePercent *float64
}

// ProjectionPoint is one projected month.
type ProjectionPoint struct {
	MonthIndex           int     `json:"month_index"`
	ProjectedIncome      float64 `json:"projected_income"`
	ProjectedExpenses    float64 `json:"projected_expenses"`
	ProjectedNetCashFlow float64 `json:"projected_net_cash_flow"`
}

// ProjectionAssumptions echoes the growth rates the projection used.
type ProjectionAssumptions struct {
	IncomeGrowthRatePercent  float64 `json:"income_growth_rate_percent"`
	ExpenseGrowthRatePercent float64 `json:"expense_growth_rate_percent"`
}

// ProjectionResult is the full projection output.
type ProjectionResult struct {
	PeriodMonths              int                   `json:"period_months"`
	AverageHistoricalIncome   float64               `json:"average_historical_income"`
	AverageHistoricalExpenses float64               `json:"average_historical_expenses"`
	MonthlyProjections        []ProjectionPoint     `json:"monthly_projections"`
	Assumptions               ProjectionAssumptions `json:"assumptions"`
}

// Project extrapolates the historical monthly income and expense
// averages forward. Month 1 is the bare average; every later month
// compounds income and expenses independently. An empty transaction set
// is ErrInsufficientData.
func Project(in ProjectionInput) (ProjectionResult, error) {
	if len(in.Transactions) == 0 {
		return ProjectionResult{}, fmt.Errorf("projecting cash flow: %w", ErrInsufficientData)
	}

	avgIncome, avgExpenses := monthlyAverages(in.Transactions)

	incomeGrowth := DefaultIncomeGrowthPercent
	if in.IncomeGrowthRatePercent != nil {
		incomeGrowth = *in.IncomeGrowthRatePercent
	}

	expenseGrowth := DefaultExpenseGrowthPercent
	if in.ExpenseGrowthRatePercent != nil {
		expenseGrowth = *in.ExpenseGrowthRatePercent
	}

	var (
		income   = avgIncome
		expenses = avgExpenses
		points   = make([]ProjectionPoint, 0, max(in.PeriodMonths, 0))
	)

	for month := 1; month <= in.PeriodMonths; month++ {
		if month > 1 {
			income *= 1 + incomeGrowth/100
			expenses *= 1 + expenseGrowth/100
		}

		points = append(points, ProjectionPoint{
			MonthIndex:           month,
			ProjectedIncome:      round2(income),
			ProjectedExpenses:    round2(expenses),
			ProjectedNetCashFlow: round2(income - expenses),
		})
	}

	return ProjectionResult{
		PeriodMonths:              in.PeriodMonths,
		AverageHistoricalIncome:   round2(avgIncome),
		AverageHistoricalExpenses: round2(avgExpenses),
		MonthlyProjections:        points,
		Assumptions: ProjectionAssumptions{
			IncomeGrowthRatePercent:  incomeGrowth,
			ExpenseGrowthRatePercent: expenseGrowth,
		},
	}, nil
}

// monthlyAverages groups transactions by calendar month and averages
// per-type sums across the months present. A month with transactions of
// only one type still counts toward the other type's denominator.
func monthlyAverages(transactions []finance.Transaction) (avgIncome, avgExpenses float64) {
	type monthTotals struct {
		income   float64
		expenses float64
	}

	months := make(map[string]*monthTotals)

	for _, tx := range transactions {
		key := fmt.Sprintf("%d-%d", tx.Date.Year(), int(tx.Date.Month()))

		totals, ok := months[key]
		if !ok {
			totals = &monthTotals{}
			months[key] = totals
		}

		switch tx.Type {
		case finance.TypeIncome:
			totals.income += tx.Amount
		case finance.TypeExpense:
			totals.expenses += tx.Amount
		}
	}

	if len(months) == 0 {
		return 0, 0
	}

	var totalIncome, totalExpenses float64
	for _, totals := range months {
		totalIncome += totals.income
		totalExpenses += totals.expenses
	}

	count := float64(len(months))

	return totalIncome / count, totalExpenses / count
}
