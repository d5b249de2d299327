// Package dashboard aggregates the calculators and CRUD services into
// the read-only views the dashboard screens render.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ebitner/pennyplan/internal/calc"
	"github.com/ebitner/pennyplan/internal/category"
	"github.com/ebitner/pennyplan/internal/finance"
	"github.com/ebitner/pennyplan/internal/transaction"
)

const (
	defaultTrendMonths = 6
	maxTrendMonths     = 24

	recentTransactionLimit = 10
)

// Calculator is the slice of the calculation service the dashboard needs.
type Calculator interface {
	BudgetSummary(ctx context.Context, userID uuid.UUID, opts calc.BudgetOptions) (calc.BudgetSummary, error)
	GoalProgressAll(ctx context.Context, userID uuid.UUID) ([]calc.GoalProgress, error)
}

// CategoryReader supplies the per-envelope totals.
type CategoryReader interface {
	Overview(ctx context.Context, userID uuid.UUID) (*category.Overview, error)
}

// TransactionReader supplies raw transaction history.
type TransactionReader interface {
	List(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*finance.Transaction, error)
}

type Service struct {
	calculator   Calculator
	categories   CategoryReader
	transactions TransactionReader
	nowFunc      func() time.Time
}

func NewService(calculator Calculator, categories CategoryReader, transactions TransactionReader) *Service {
	return &Service{
		calculator:   calculator,
		categories:   categories,
		transactions: transactions,
		nowFunc:      time.Now,
	}
}

// Overview is the landing view: current budget posture, envelope
// totals, goal completion and the latest activity.
type Overview struct {
	Budget             calc.BudgetSummary
	Categories         *category.Overview
	Goals              []calc.GoalProgress
	RecentTransactions []*finance.Transaction
}

func (s *Service) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	budget, err := s.calculator.BudgetSummary(ctx, userID, calc.BudgetOptions{})
	if err != nil {
		return nil, fmt.Errorf("budget summary: %w", err)
	}

	categories, err := s.categories.Overview(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("category overview: %w", err)
	}

	goals, err := s.calculator.GoalProgressAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("goal progress: %w", err)
	}

	since := s.nowFunc().AddDate(0, 0, -30)

	recent, err := s.transactions.List(ctx, userID, transaction.ListFilter{StartDate: &since})
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}

	if len(recent) > recentTransactionLimit {
		recent = recent[:recentTransactionLimit]
	}

	return &Overview{
		Budget:             budget,
		Categories:         categories,
		Goals:              goals,
		RecentTransactions: recent,
	}, nil
}

// TrendPoint is one calendar month of income versus spending.
type TrendPoint struct {
	Month    string
	Income   float64
	Expenses float64
	Net      float64
}

// ClampTrendMonths bounds the trends window. Zero or negative selects
// the default.
func ClampTrendMonths(months int) int {
	if months <= 0 {
		return defaultTrendMonths
	}
	if months > maxTrendMonths {
		return maxTrendMonths
	}

	return months
}

// Trends returns per-month income/expense/net points for the trailing
// window, oldest first. Months without activity appear as zero points
// so chart axes stay continuous.
func (s *Service) Trends(ctx context.Context, userID uuid.UUID, months int) ([]TrendPoint, error) {
	months = ClampTrendMonths(months)

	now := s.nowFunc()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	txs, err := s.transactions.List(ctx, userID, transaction.ListFilter{StartDate: &start})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	byMonth := make(map[string]*TrendPoint, months)

	for i := range months {
		month := start.AddDate(0, i, 0).Format("2006-01")
		byMonth[month] = &TrendPoint{Month: month}
	}

	for _, tx := range txs {
		point, ok := byMonth[tx.Date.Format("2006-01")]
		if !ok {
			continue
		}

		switch tx.Type {
		case finance.TypeIncome:
			point.Income += tx.Amount
		case finance.TypeExpense:
			point.Expenses += tx.Amount
		}
	}

	points := make([]TrendPoint, 0, months)
	for _, point := range byMonth {
		point.Net = point.Income - point.Expenses
		points = append(points, *point)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })

	return points, nil
}

// BreakdownEntry is one category's share of total spending.
type BreakdownEntry struct {
	Category        finance.CategoryName
	Allocated       float64
	Spent           float64
	ShareOfSpendPct float64
}

// Breakdown returns each category's spending share, largest first.
func (s *Service) Breakdown(ctx context.Context, userID uuid.UUID) ([]BreakdownEntry, error) {
	overview, err := s.categories.Overview(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("category overview: %w", err)
	}

	entries := make([]BreakdownEntry, 0, len(overview.Categories))

	for _, c := range overview.Categories {
		entry := BreakdownEntry{
			Category:  c.Name,
			Allocated: c.BudgetAllocated,
			Spent:     c.SpentAmount,
		}

		if overview.TotalSpent > 0 {
			entry.ShareOfSpendPct = c.SpentAmount / overview.TotalSpent * 100
		}

		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Spent > entries[j].Spent })

	return entries, nil
}
