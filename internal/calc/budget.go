package calc

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ebitner/pennyplan/internal/finance"
)

const (
	// DefaultTimeframeDays is used when the caller supplies no window.
	DefaultTimeframeDays = 30
	// MinTimeframeDays and MaxTimeframeDays bound the sampling window.
	MinTimeframeDays = 7
	MaxTimeframeDays = 180
)

// ClampTimeframe normalizes a caller-supplied window to [7, 180] days.
// Zero or negative input collapses to the default of 30.
func ClampTimeframe(days int) int {
	if days <= 0 {
		return DefaultTimeframeDays
	}

	return min(max(days, MinTimeframeDays), MaxTimeframeDays)
}

// BudgetInput carries the snapshots the summarizer works over.
type BudgetInput struct {
	Profile      finance.Profile
	Categories   []finance.Category
	Transactions []finance.Transaction
	Goals        []finance.Goal
	// TimeframeDays is clamped via ClampTimeframe before use.
	TimeframeDays int
}

// CategoryBreakdown is the per-category slice of a budget summary.
type CategoryBreakdown struct {
	ID              uuid.UUID            `json:"id"`
	Name            finance.CategoryName `json:"name"`
	BudgetAllocated float64              `json:"budget_allocated"`
	SpentAmount     float64              `json:"spent_amount"`
	RemainingBudget float64              `json:"remaining_budget"`
	Utilization     float64              `json:"utilization"`
	// LastTransactionDate is the most recent expense in the category,
	// nil when it has never been spent against.
	LastTransactionDate *time.Time `json:"last_transaction_date"`
}

// IncomeSummary reports declared income on monthly and annual bases.
type IncomeSummary struct {
	Monthly float64 `json:"monthly"`
	Annual  float64 `json:"annual"`
}

// ExpenseSummary breaks monthly expenses into reported, fixed and
// variable components.
type ExpenseSummary struct {
	ReportedMonthly    float64             `json:"reported_monthly"`
	FixedMonthly       float64             `json:"fixed_monthly"`
	VariableMonthly    float64             `json:"variable_monthly"`
	AverageTransaction float64             `json:"average_transaction"`
	Timeframe          string              `json:"timeframe"`
	ByCategory         []CategoryBreakdown `json:"by_category"`
	TopCategories      []CategoryBreakdown `json:"top_categories"`
}

// CashFlowSummary reports disposable income and savings posture.
type CashFlowSummary struct {
	DisposableIncome       float64 `json:"disposable_income"`
	SavingsRate            float64 `json:"savings_rate"`
	ProjectedAnnualSavings float64 `json:"projected_annual_savings"`
	// RunwayMonths is nil when effective expenses are zero: the balance
	// never burns down.
	RunwayMonths *float64 `json:"runway_months"`
}

// EmergencyFundSummary reports progress toward the emergency fund,
// either the user's own goal or a synthesized 3-month target.
type EmergencyFundSummary struct {
	TargetAmount         float64  `json:"target_amount"`
	CurrentAmount        float64  `json:"current_amount"`
	CompletionPercentage float64  `json:"completion_percentage"`
	MonthsToTarget       *float64 `json:"months_to_target"`
}

// BudgetMeta records what the summarizer actually looked at.
type BudgetMeta struct {
	TimeframeDays          int       `json:"timeframe_days"`
	TransactionsConsidered int       `json:"transactions_considered"`
	GeneratedAt            time.Time `json:"generated_at"`
}

// BudgetSummary is the point-in-time budget picture for one user.
type BudgetSummary struct {
	Income        IncomeSummary        `json:"income"`
	Expenses      ExpenseSummary       `json:"expenses"`
	CashFlow      CashFlowSummary      `json:"cash_flow"`
	EmergencyFund EmergencyFundSummary `json:"emergency_fund"`
	Meta          BudgetMeta           `json:"metadata"`
}

// Summarize combines profile, categories, transactions and goals into a
// budget summary as of now. Variable expenses are sampled from the
// trailing timeframe window and scaled to a 30-day month; the effective
// monthly expense figure is the conservative maximum of the reported
// total and fixed+variable.
func Summarize(in BudgetInput, now time.Time) BudgetSummary {
	timeframeDays := ClampTimeframe(in.TimeframeDays)
	boundary := now.AddDate(0, 0, -timeframeDays)

	monthlyIncome := in.Profile.MonthlyIncome
	reportedMonthly := in.Profile.MonthlyExpenses
	fixedMonthly := in.Profile.FixedMonthlyTotal()

	var (
		recentCount           int
		totalVariableExpenses float64
		expenseCount          int
	)

	for _, tx := range in.Transactions {
		if tx.Date.Before(boundary) {
			continue
		}

		recentCount++

		if tx.Type == finance.TypeExpense {
			totalVariableExpenses += tx.Amount
			expenseCount++
		}
	}

	var averageExpense float64
	if expenseCount > 0 {
		averageExpense = totalVariableExpenses / float64(expenseCount)
	}

	variableMonthly := totalVariableExpenses * (30.0 / float64(timeframeDays))

	effectiveMonthly := max(reportedMonthly, fixedMonthly+variableMonthly)

	disposable := monthlyIncome - effectiveMonthly

	var savingsRate float64
	if monthlyIncome > 0 {
		savingsRate = disposable / monthlyIncome * 100
	}

	projectedAnnualSavings := max(disposable, 0) * 12

	bankBalance := in.Profile.BankAccountBalance

	var runway *float64
	if effectiveMonthly > 0 {
		runway = new(round1(bankBalance / effectiveMonthly))
	}

	breakdown := categoryBreakdown(in.Categories, in.Transactions)

	top := make([]CategoryBreakdown, len(breakdown))
	copy(top, breakdown)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].SpentAmount > top[j].SpentAmount
	})

	if len(top) > 3 {
		top = top[:3]
	}

	return BudgetSummary{
		Income: IncomeSummary{
			Monthly: round2(monthlyIncome),
			Annual:  round2(monthlyIncome * 12),
		},
		Expenses: ExpenseSummary{
			ReportedMonthly:    round2(reportedMonthly),
			FixedMonthly:       round2(fixedMonthly),
			VariableMonthly:    round2(variableMonthly),
			AverageTransaction: round2(averageExpense),
			Timeframe:          fmt.Sprintf("%dd", timeframeDays),
			ByCategory:         breakdown,
			TopCategories:      top,
		},
		CashFlow: CashFlowSummary{
			DisposableIncome:       round2(disposable),
			SavingsRate:            round2(savingsRate),
			ProjectedAnnualSavings: round2(projectedAnnualSavings),
			RunwayMonths:           runway,
		},
		EmergencyFund: emergencyFund(in.Goals, effectiveMonthly, bankBalance, disposable),
		Meta: BudgetMeta{
			TimeframeDays:          timeframeDays,
			TransactionsConsidered: recentCount,
			GeneratedAt:            now,
		},
	}
}

func categoryBreakdown(categories []finance.Category, transactions []finance.Transaction) []CategoryBreakdown {
	breakdown := make([]CategoryBreakdown, 0, len(categories))

	for _, cat := range categories {
		var last *time.Time

		for _, tx := range transactions {
			if tx.CategoryID == nil || *tx.CategoryID != cat.ID || tx.Type != finance.TypeExpense {
				continue
			}

			if last == nil || tx.Date.After(*last) {
				d := tx.Date
				last = &d
			}
		}

		var utilization float64
		if cat.BudgetAllocated > 0 {
			utilization = cat.SpentAmount / cat.BudgetAllocated * 100
		}

		breakdown = append(breakdown, CategoryBreakdown{
			ID:                  cat.ID,
			Name:                cat.Name,
			BudgetAllocated:     round2(cat.BudgetAllocated),
			SpentAmount:         round2(cat.SpentAmount),
			RemainingBudget:     round2(cat.BudgetAllocated - cat.SpentAmount),
			Utilization:         round2(utilization),
			LastTransactionDate: last,
		})
	}

	return breakdown
}

func emergencyFund(goals []finance.Goal, effectiveMonthly, bankBalance, disposable float64) EmergencyFundSummary {
	target := max(effectiveMonthly*3, 0) // default to 3 months of expenses
	current := bankBalance

	for _, g := range goals {
		if g.Type == finance.GoalEmergencyFund {
			target = g.TargetAmount
			current = g.CurrentAmount

			break
		}
	}

	var completion float64

	switch {
	case target > 0:
		completion = current / target * 100
	case current > 0:
		completion = 100
	}

	monthlySavings := max(disposable, 0)

	var monthsToTarget *float64
	if monthlySavings > 0 && target > current {
		monthsToTarget = new(round1((target - current) / monthlySavings))
	}

	return EmergencyFundSummary{
		TargetAmount:         round2(target),
		CurrentAmount:        round2(current),
		CompletionPercentage: round2(completion),
		MonthsToTarget:       monthsToTarget,
	}
}
