package calc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ebitner/pennyplan/internal/cache"
	"github.com/ebitner/pennyplan/internal/finance"
)

// ErrUserNotFound indicates the snapshot owner does not exist.
var ErrUserNotFound = errors.New("user not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=calc
type Repository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (finance.Profile, error)
	ListCategories(ctx context.Context, userID uuid.UUID) ([]finance.Category, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, since time.Time) ([]finance.Transaction, error)
	ListGoals(ctx context.Context, userID uuid.UUID) ([]finance.Goal, error)
}

// Service orchestrates the calculators: it fetches snapshots, invokes
// the pure engine functions and memoizes results in the shared cache.
type Service struct {
	repo    Repository
	cache   cache.Cache
	nowFunc func() time.Time
}

func NewService(repo Repository, c cache.Cache) *Service {
	return &Service{
		repo:    repo,
		cache:   c,
		nowFunc: time.Now,
	}
}

// BudgetOptions tunes a budget summary request.
type BudgetOptions struct {
	TimeframeDays int
}

// BudgetSummary produces (or replays) the user's budget summary.
func (s *Service) BudgetSummary(ctx context.Context, userID uuid.UUID, opts BudgetOptions) (BudgetSummary, error) {
	timeframeDays := ClampTimeframe(opts.TimeframeDays)
	key := cache.CalculationKey(userID, "budget", fmt.Sprintf("%d", timeframeDays))

	var cached BudgetSummary
	if s.cacheGet(key, &cached) {
		return cached, nil
	}

	now := s.nowFunc()

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return BudgetSummary{}, fmt.Errorf("fetching profile: %w", err)
	}

	var (
		categories   []finance.Category
		transactions []finance.Transaction
		goals        []finance.Goal
	)

	// The three snapshots are independent; fetch them in parallel.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		categories, err = s.repo.ListCategories(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = s.repo.ListTransactions(gctx, userID, now.AddDate(0, 0, -timeframeDays))
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.repo.ListGoals(gctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return BudgetSummary{}, fmt.Errorf("fetching snapshots: %w", err)
	}

	summary := Summarize(BudgetInput{
		Profile:       profile,
		Categories:    categories,
		Transactions:  transactions,
		Goals:         goals,
		TimeframeDays: timeframeDays,
	}, now)

	s.cacheSet(key, summary)

	return summary, nil
}

// RunScenario evaluates a what-if scenario against the user's current
// budget context. The raw payload shape depends on the scenario type.
func (s *Service) RunScenario(ctx context.Context, userID uuid.UUID, typ ScenarioType, raw json.RawMessage) (ScenarioResult, error) {
	data, err := ParseScenarioData(typ, raw)
	if err != nil {
		return ScenarioResult{}, err
	}

	key, err := cache.PayloadKey(userID, string(typ), data)
	if err != nil {
		return ScenarioResult{}, err
	}

	var cached ScenarioResult
	if s.cacheGet(key, &cached) {
		return cached, nil
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return ScenarioResult{}, fmt.Errorf("fetching profile: %w", err)
	}

	summary, err := s.BudgetSummary(ctx, userID, BudgetOptions{})
	if err != nil {
		return ScenarioResult{}, err
	}

	result, err := EvaluateScenario(data, ScenarioContext{
		MonthlyIncome:    summary.Income.Monthly,
		MonthlyExpenses:  summary.Expenses.FixedMonthly + summary.Expenses.VariableMonthly,
		DisposableIncome: summary.CashFlow.DisposableIncome,
		BankBalance:      profile.BankAccountBalance,
		Profile:          &profile,
	})
	if err != nil {
		return ScenarioResult{}, err
	}

	s.cacheSet(key, result)

	return result, nil
}

const (
	// projectionHistoryDays is the sampling window for projections.
	projectionHistoryDays = 180

	defaultProjectionMonths = 6
	maxProjectionMonths     = 24
)

// ProjectionOptions tunes a cash-flow projection request.
type ProjectionOptions struct {
	PeriodMonths             int
	IncomeGrowthRatePercent  *float64
	ExpenseGrowthRatePercent *float64
}

// Projections extrapolates the user's cash flow from the last 180 days
// of history. PeriodMonths is clamped to [1, 24] with a default of 6.
func (s *Service) Projections(ctx context.Context, userID uuid.UUID, opts ProjectionOptions) (ProjectionResult, error) {
	periodMonths := opts.PeriodMonths
	if periodMonths <= 0 {
		periodMonths = defaultProjectionMonths
	}

	periodMonths = min(periodMonths, maxProjectionMonths)

	key := cache.CalculationKey(userID, "projection", fmt.Sprintf("%d:%s:%s",
		periodMonths, growthParam(opts.IncomeGrowthRatePercent), growthParam(opts.ExpenseGrowthRatePercent)))

	var cached ProjectionResult
	if s.cacheGet(key, &cached) {
		return cached, nil
	}

	since := s.nowFunc().AddDate(0, 0, -projectionHistoryDays)

	transactions, err := s.repo.ListTransactions(ctx, userID, since)
	if err != nil {
		return ProjectionResult{}, fmt.Errorf("fetching transactions: %w", err)
	}

	result, err := Project(ProjectionInput{
		Transactions:             transactions,
		PeriodMonths:             periodMonths,
		IncomeGrowthRatePercent:  opts.IncomeGrowthRatePercent,
		ExpenseGrowthRatePercent: opts.ExpenseGrowthRatePercent,
	})
	if err != nil {
		return ProjectionResult{}, err
	}

	s.cacheSet(key, result)

	return result, nil
}

// GoalProgressAll converts every stored goal into its progress view.
func (s *Service) GoalProgressAll(ctx context.Context, userID uuid.UUID) ([]GoalProgress, error) {
	goals, err := s.repo.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching goals: %w", err)
	}

	now := s.nowFunc()

	progress := make([]GoalProgress, len(goals))
	for i, goal := range goals {
		progress[i] = BuildGoalProgress(goal, now)
	}

	return progress, nil
}

func growthParam(v *float64) string {
	if v == nil {
		return "d"
	}

	return fmt.Sprintf("%g", *v)
}

func (s *Service) cacheGet(key string, dst any) bool {
	if s.cache == nil {
		return false
	}

	raw, ok := s.cache.Get(key)
	if !ok {
		return false
	}

	return json.Unmarshal(raw, dst) == nil
}

func (s *Service) cacheSet(key string, value any) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	s.cache.Set(key, raw, cache.DefaultTTL)
}
