package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebitner/pennyplan/internal/calc"
	"github.com/ebitner/pennyplan/internal/category"
	"github.com/ebitner/pennyplan/internal/finance"
	"github.com/ebitner/pennyplan/internal/transaction"
)

type stubCalculator struct {
	budget calc.BudgetSummary
	goals  []calc.GoalProgress
}

func (s *stubCalculator) BudgetSummary(ctx context.Context, userID uuid.UUID, opts calc.BudgetOptions) (calc.BudgetSummary, error) {
	return s.budget, nil
}

func (s *stubCalculator) GoalProgressAll(ctx context.Context, userID uuid.UUID) ([]calc.GoalProgress, error) {
	return s.goals, nil
}

type stubCategories struct {
	overview *category.Overview
}

func (s *stubCategories) Overview(ctx context.Context, userID uuid.UUID) (*category.Overview, error) {
	return s.overview, nil
}

type stubTransactions struct {
	listFunc func(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*finance.Transaction, error)
}

func (s *stubTransactions) List(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*finance.Transaction, error) {
	if s.listFunc != nil {
		return s.listFunc(ctx, userID, filter)
	}

	return nil, nil
}

func tx(txType finance.TransactionType, amount float64, date time.Time) *finance.Transaction {
	return &finance.Transaction{
		ID:     uuid.New(),
		Amount: amount,
		Type:   txType,
		Date:   date,
	}
}

func TestService_Overview(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	var txs []*finance.Transaction
	for range 15 {
		txs = append(txs, tx(finance.TypeExpense, 5, now.AddDate(0, 0, -1)))
	}

	service := NewService(
		&stubCalculator{
			budget: calc.BudgetSummary{Income: calc.IncomeSummary{Monthly: 4600}},
			goals:  []calc.GoalProgress{{Name: "Emergency fund"}},
		},
		&stubCategories{overview: &category.Overview{TotalAllocated: 700}},
		&stubTransactions{
			listFunc: func(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*finance.Transaction, error) {
				require.NotNil(t, filter.StartDate)
				return txs, nil
			},
		},
	)
	service.nowFunc = func() time.Time { return now }

	overview, err := service.Overview(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 4600.0, overview.Budget.Income.Monthly)
	assert.Equal(t, 700.0, overview.Categories.TotalAllocated)
	assert.Len(t, overview.Goals, 1)
	assert.Len(t, overview.RecentTransactions, recentTransactionLimit)
}

func TestClampTrendMonths(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name   string
		months int
		want   int
	}

	tests := []testCase{
		{name: "zero selects default", months: 0, want: 6},
		{name: "negative selects default", months: -3, want: 6},
		{name: "in range passes through", months: 12, want: 12},
		{name: "above max clamps", months: 99, want: 24},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, ClampTrendMonths(tc.months))
		})
	}
}

func TestService_Trends(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	txs := []*finance.Transaction{
		tx(finance.TypeIncome, 4000, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)),
		tx(finance.TypeExpense, 2500, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)),
		tx(finance.TypeIncome, 4000, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)),
		// Outside any requested month; ignored.
		tx(finance.TypeExpense, 999, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	service := NewService(
		&stubCalculator{},
		&stubCategories{},
		&stubTransactions{
			listFunc: func(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*finance.Transaction, error) {
				return txs, nil
			},
		},
	)
	service.nowFunc = func() time.Time { return now }

	points, err := service.Trends(context.Background(), userID, 3)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, "2026-06", points[0].Month)
	assert.Zero(t, points[0].Income, "empty month stays a zero point")

	assert.Equal(t, "2026-07", points[1].Month)
	assert.Equal(t, 4000.0, points[1].Income)
	assert.Equal(t, 4000.0, points[1].Net)

	assert.Equal(t, "2026-08", points[2].Month)
	assert.Equal(t, 4000.0, points[2].Income)
	assert.Equal(t, 2500.0, points[2].Expenses)
	assert.Equal(t, 1500.0, points[2].Net)
}

func TestService_Breakdown(t *testing.T) {
	t.Parallel()

	service := NewService(
		&stubCalculator{},
		&stubCategories{overview: &category.Overview{
			Categories: []*finance.Category{
				{Name: finance.CategoryFinance, BudgetAllocated: 500, SpentAmount: 100},
				{Name: finance.CategoryVacation, BudgetAllocated: 200, SpentAmount: 300},
			},
			TotalSpent: 400,
		}},
		&stubTransactions{},
	)

	entries, err := service.Breakdown(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, finance.CategoryVacation, entries[0].Category, "largest spend first")
	assert.Equal(t, 75.0, entries[0].ShareOfSpendPct)
	assert.Equal(t, 25.0, entries[1].ShareOfSpendPct)
}
