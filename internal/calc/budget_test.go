package calc_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebitner/pennyplan/internal/calc"
	"github.com/ebitner/pennyplan/internal/finance"
)

var testNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func expense(amount float64, daysAgo int, categoryID *uuid.UUID) finance.Transaction {
	return finance.Transaction{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Amount:     amount,
		Type:       finance.TypeExpense,
		Date:       testNow.AddDate(0, 0, -daysAgo),
	}
}

func income(amount float64, daysAgo int) finance.Transaction {
	return finance.Transaction{
		ID:     uuid.New(),
		Amount: amount,
		Type:   finance.TypeIncome,
		Date:   testNow.AddDate(0, 0, -daysAgo),
	}
}

func TestClampTimeframe(t *testing.T) {
	tests := []struct {
		name string
		days int
		want int
	}{
		{name: "Zero", days: 0, want: 30},
		{name: "Negative", days: -10, want: 30},
		{name: "BelowMin", days: 3, want: 7},
		{name: "AtMin", days: 7, want: 7},
		{name: "InRange", days: 90, want: 90},
		{name: "AtMax", days: 180, want: 180},
		{name: "AboveMax", days: 365, want: 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.ClampTimeframe(tt.days))
		})
	}
}

func TestSummarize_FixedExpensesAndEmergencyGoal(t *testing.T) {
	in := calc.BudgetInput{
		Profile: finance.Profile{
			MonthlyIncome:   4600,
			MonthlyExpenses: 2800,
			FixedExpenses:   map[string]float64{"rent": 1200, "utilities": 200},
		},
		Goals: []finance.Goal{
			{
				ID:            uuid.New(),
				Type:          finance.GoalEmergencyFund,
				TargetAmount:  2000,
				CurrentAmount: 600,
			},
		},
		TimeframeDays: 30,
	}

	got := calc.Summarize(in, testNow)

	assert.InDelta(t, 1400.0, got.Expenses.FixedMonthly, 0.001)
	assert.InDelta(t, 2000.0, got.EmergencyFund.TargetAmount, 0.001)
	assert.InDelta(t, 600.0, got.EmergencyFund.CurrentAmount, 0.001)
	assert.InDelta(t, 30.0, got.EmergencyFund.CompletionPercentage, 0.001)

	// Disposable income 1800/month closes the 1400 gap in under a month.
	require.NotNil(t, got.EmergencyFund.MonthsToTarget)
	assert.InDelta(t, 0.8, *got.EmergencyFund.MonthsToTarget, 0.001)
}

func TestSummarize_SynthesizedEmergencyFund(t *testing.T) {
	in := calc.BudgetInput{
		Profile: finance.Profile{
			BankAccountBalance: 1000,
			MonthlyIncome:      4600,
			MonthlyExpenses:    2000,
			FixedExpenses:      map[string]float64{"rent": 1200, "utilities": 200},
		},
		TimeframeDays: 30,
	}

	got := calc.Summarize(in, testNow)

	// No emergency-fund goal: target is three months of effective
	// expenses, current is the bank balance.
	assert.InDelta(t, 6000.0, got.EmergencyFund.TargetAmount, 0.001)
	assert.InDelta(t, 1000.0, got.EmergencyFund.CurrentAmount, 0.001)
	assert.InDelta(t, 16.67, got.EmergencyFund.CompletionPercentage, 0.001)
}

func TestSummarize_VariableExpenseWindow(t *testing.T) {
	catID := uuid.New()

	in := calc.BudgetInput{
		Profile: finance.Profile{
			MonthlyIncome:   5000,
			MonthlyExpenses: 100,
		},
		Transactions: []finance.Transaction{
			expense(300, 5, &catID),
			expense(150, 10, nil),
			income(5000, 3),
			// Outside the 15-day window, must be ignored.
			expense(9999, 40, nil),
		},
		TimeframeDays: 15,
	}

	got := calc.Summarize(in, testNow)

	// 450 spent over 15 days scales to 900/month.
	assert.InDelta(t, 900.0, got.Expenses.VariableMonthly, 0.001)
	assert.InDelta(t, 225.0, got.Expenses.AverageTransaction, 0.001)
	assert.Equal(t, "15d", got.Expenses.Timeframe)
	assert.Equal(t, 3, got.Meta.TransactionsConsidered)
	assert.Equal(t, 15, got.Meta.TimeframeDays)

	// Computed 0+900 beats the reported 100.
	assert.InDelta(t, 5000-900, got.CashFlow.DisposableIncome, 0.001)
	assert.InDelta(t, 82.0, got.CashFlow.SavingsRate, 0.001)
	assert.InDelta(t, 4100*12, got.CashFlow.ProjectedAnnualSavings, 0.001)
}

func TestSummarize_ZeroIncomeAndExpenses(t *testing.T) {
	got := calc.Summarize(calc.BudgetInput{}, testNow)

	assert.Zero(t, got.CashFlow.SavingsRate)
	assert.Zero(t, got.EmergencyFund.CompletionPercentage)
	assert.Nil(t, got.EmergencyFund.MonthsToTarget)

	// Zero effective expenses means the balance never burns down.
	assert.Nil(t, got.CashFlow.RunwayMonths)
}

func TestSummarize_RunwayMonths(t *testing.T) {
	in := calc.BudgetInput{
		Profile: finance.Profile{
			BankAccountBalance: 10000,
			MonthlyIncome:      3000,
			MonthlyExpenses:    2500,
		},
	}

	got := calc.Summarize(in, testNow)

	require.NotNil(t, got.CashFlow.RunwayMonths)
	assert.InDelta(t, 4.0, *got.CashFlow.RunwayMonths, 0.001)
}

func TestSummarize_CategoryBreakdown(t *testing.T) {
	groceries := uuid.New()
	travel := uuid.New()
	unused := uuid.New()

	in := calc.BudgetInput{
		Categories: []finance.Category{
			{ID: groceries, Name: finance.CategoryFamily, BudgetAllocated: 400, SpentAmount: 300},
			{ID: travel, Name: finance.CategoryVacation, BudgetAllocated: 0, SpentAmount: 50},
			{ID: unused, Name: finance.CategoryFriends, BudgetAllocated: 100},
		},
		Transactions: []finance.Transaction{
			expense(120, 2, &groceries),
			expense(180, 9, &groceries),
			expense(50, 4, &travel),
		},
		TimeframeDays: 30,
	}

	got := calc.Summarize(in, testNow)
	require.Len(t, got.Expenses.ByCategory, 3)

	byID := make(map[uuid.UUID]calc.CategoryBreakdown)
	for _, c := range got.Expenses.ByCategory {
		byID[c.ID] = c
	}

	assert.InDelta(t, 75.0, byID[groceries].Utilization, 0.001)
	assert.InDelta(t, 100.0, byID[groceries].RemainingBudget, 0.001)
	require.NotNil(t, byID[groceries].LastTransactionDate)
	assert.Equal(t, testNow.AddDate(0, 0, -2), *byID[groceries].LastTransactionDate)

	// Zero allocation never divides: utilization is exactly 0.
	assert.Zero(t, byID[travel].Utilization)

	assert.Nil(t, byID[unused].LastTransactionDate)

	// Top categories are ordered by spend.
	require.Len(t, got.Expenses.TopCategories, 3)
	assert.Equal(t, groceries, got.Expenses.TopCategories[0].ID)
	assert.Equal(t, travel, got.Expenses.TopCategories[1].ID)
}

func TestSummarize_TopCategoriesCapped(t *testing.T) {
	var categories []finance.Category
	for i := range 5 {
		categories = append(categories, finance.Category{
			ID:          uuid.New(),
			SpentAmount: float64(i * 10),
		})
	}

	got := calc.Summarize(calc.BudgetInput{Categories: categories, TimeframeDays: 30}, testNow)

	assert.Len(t, got.Expenses.ByCategory, 5)
	require.Len(t, got.Expenses.TopCategories, 3)
	assert.InDelta(t, 40.0, got.Expenses.TopCategories[0].SpentAmount, 0.001)
}
