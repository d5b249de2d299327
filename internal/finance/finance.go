// Package finance holds the domain types shared by the calculation
// engine, the stores, and the HTTP layer. All snapshot types are plain
// values; the engine never mutates them.
package finance

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the direction of a transaction.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Transaction is a single dated income or expense record.
// Date carries no time component; Metadata is opaque and passed through
// unused by the engine.
type Transaction struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CategoryID *uuid.UUID // nil means uncategorized
	Amount     float64
	Type       TransactionType
	Date       time.Time
	Metadata   map[string]any
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// CategoryName is one of the fixed set of category display names.
type CategoryName string

const (
	CategoryFinance   CategoryName = "Finance"
	CategoryEducation CategoryName = "Education"
	CategoryFamily    CategoryName = "Family"
	CategoryFriends   CategoryName = "Friends"
	CategoryVacation  CategoryName = "Weekend Activities/Vacation"
)

// Category is a budget envelope. SpentAmount is maintained by the
// transaction service but the summarizer recomputes window-sensitive
// figures from transactions directly.
type Category struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Name            CategoryName
	BudgetAllocated float64
	SpentAmount     float64
	Description     string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// GoalType classifies a financial goal. EmergencyFund goals feed the
// budget summarizer's emergency-fund posture; Education goals (or any
// goal measured in hours) take the study-plan branch of goal progress.
type GoalType string

const (
	GoalEmergencyFund    GoalType = "Emergency Fund"
	GoalHouseDownPayment GoalType = "House Down Payment"
	GoalDebtPayoff       GoalType = "Debt Payoff"
	GoalSavings          GoalType = "General Savings"
	GoalInvestment       GoalType = "Investment"
	GoalEducation        GoalType = "Education"
	GoalVacation         GoalType = "Vacation"
	GoalOther            GoalType = "Other"
)

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"
)

// MetricUnit is the unit in which a goal's target and current amounts
// are expressed.
type MetricUnit string

const (
	UnitCurrency MetricUnit = "currency"
	UnitHours    MetricUnit = "hours"
	UnitPoints   MetricUnit = "points"
	UnitTasks    MetricUnit = "tasks"
	UnitPercent  MetricUnit = "percent"
	UnitNone     MetricUnit = "none"
)

// Goal is a savings or behavioral target. Metadata is a free-form
// document; education goals may carry a studyPlan, examDate and
// milestone entries that the progress calculator reads opportunistically.
type Goal struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Type          GoalType
	Name          string
	TargetAmount  float64
	CurrentAmount float64
	Deadline      *time.Time
	Status        GoalStatus
	Description   string
	MetricUnit    MetricUnit
	Metadata      map[string]any
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// Profile is the user's self-declared financial profile. FixedExpenses
// is an open-ended label -> monthly amount map; unknown labels are fine.
// JobTitle and EmploymentStatus are display-only.
type Profile struct {
	BankAccountBalance float64            `json:"bankAccountBalance"`
	MonthlyIncome      float64            `json:"monthlyIncome"`
	MonthlyExpenses    float64            `json:"monthlyExpenses"`
	FixedExpenses      map[string]float64 `json:"fixedExpenses"`
	JobTitle           string             `json:"jobTitle,omitempty"`
	EmploymentStatus   string             `json:"employmentStatus,omitempty"`
}

// FixedMonthlyTotal sums the fixed-expense map. Missing map is 0.
func (p Profile) FixedMonthlyTotal() float64 {
	var total float64
	for _, v := range p.FixedExpenses {
		total += v
	}

	return total
}
