package calc

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/ebitner/pennyplan/internal/finance"
)

// ScenarioType identifies a what-if question the evaluator can answer.
type ScenarioType string

const (
	ScenarioCanIAfford           ScenarioType = "can_i_afford"
	ScenarioExpenseProjection    ScenarioType = "expense_projection"
	ScenarioHousingAffordability ScenarioType = "housing_affordability"
	ScenarioDebtPayoff           ScenarioType = "debt_payoff"
	ScenarioSavingsGoal          ScenarioType = "savings_goal"
)

// ScenarioContext is the budget context a scenario is evaluated
// against, derived from a prior budget summary.
type ScenarioContext struct {
	MonthlyIncome    float64
	MonthlyExpenses  float64
	DisposableIncome float64
	BankBalance      float64
	Profile          *finance.Profile
}

// ScenarioData is the sealed union of per-scenario parameter sets.
// Each variant carries only the fields its evaluator reads; optional
// fields are pointers so absence can fall back to the documented
// defaults.
type ScenarioData interface {
	scenarioType() ScenarioType
}

// AffordabilityData asks whether a one-off purchase fits the savings plan.
type AffordabilityData struct {
	ItemCost            float64  `json:"itemCost"`
	MonthsToSave        *float64 `json:"monthsToSave,omitempty"`        // default 6
	UpfrontContribution float64  `json:"upfrontContribution,omitempty"` // default 0
	MonthlyContribution *float64 `json:"monthlyContribution,omitempty"` // default max(disposable, 0)
}

// ExpenseProjectionData compounds a single expense forward.
type ExpenseProjectionData struct {
	CurrentMonthlyExpense float64  `json:"currentMonthlyExpense"`
	GrowthRatePercent     *float64 `json:"growthRatePercent,omitempty"` // default 2
	PeriodMonths          *int     `json:"periodMonths,omitempty"`      // default 12
}

// HousingAffordabilityData checks a housing cost against the
// percentage-of-income guideline.
type HousingAffordabilityData struct {
	HousingCost             float64  `json:"housingCost"`
	HousingBudgetPercentage *float64 `json:"housingBudgetPercentage,omitempty"` // default 30
}

// DebtPayoffData amortizes a debt with monthly compounding.
type DebtPayoffData struct {
	CurrentDebt         float64 `json:"currentDebt"`
	InterestRatePercent float64 `json:"interestRatePercent"`
	MonthlyPayment      float64 `json:"monthlyPayment"`
}

// SavingsGoalData estimates the timeline toward a savings target.
type SavingsGoalData struct {
	TargetAmount        float64  `json:"targetAmount"`
	CurrentAmount       *float64 `json:"currentAmount,omitempty"`       // default bank balance
	MonthlyContribution *float64 `json:"monthlyContribution,omitempty"` // default max(disposable, 0)
}

func (AffordabilityData) scenarioType() ScenarioType        { return ScenarioCanIAfford }
func (ExpenseProjectionData) scenarioType() ScenarioType    { return ScenarioExpenseProjection }
func (HousingAffordabilityData) scenarioType() ScenarioType { return ScenarioHousingAffordability }
func (DebtPayoffData) scenarioType() ScenarioType           { return ScenarioDebtPayoff }
func (SavingsGoalData) scenarioType() ScenarioType          { return ScenarioSavingsGoal }

// ParseScenarioData decodes the free-form data payload for the given
// scenario type into its typed variant. Unknown types fail with
// ErrUnsupportedScenario.
func ParseScenarioData(typ ScenarioType, raw json.RawMessage) (ScenarioData, error) {
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}

	switch typ {
	case ScenarioCanIAfford:
		return decodeScenario[AffordabilityData](typ, raw)
	case ScenarioExpenseProjection:
		return decodeScenario[ExpenseProjectionData](typ, raw)
	case ScenarioHousingAffordability:
		return decodeScenario[HousingAffordabilityData](typ, raw)
	case ScenarioDebtPayoff:
		return decodeScenario[DebtPayoffData](typ, raw)
	case ScenarioSavingsGoal:
		return decodeScenario[SavingsGoalData](typ, raw)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScenario, typ)
	}
}

func decodeScenario[T ScenarioData](typ ScenarioType, raw json.RawMessage) (ScenarioData, error) {
	var d T
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decoding %s data: %w", typ, err)
	}

	return d, nil
}

// ScenarioResult is the outcome of one scenario evaluation.
type ScenarioResult struct {
	Type            ScenarioType `json:"type"`
	Summary         string       `json:"summary"`
	Details         any          `json:"details"`
	Recommendations []string     `json:"recommendations"`
}

// EvaluateScenario dispatches on the scenario variant. The zoo of
// variants is closed; anything else is an ErrUnsupportedScenario.
func EvaluateScenario(data ScenarioData, sctx ScenarioContext) (ScenarioResult, error) {
	switch d := data.(type) {
	case AffordabilityData:
		return evaluateAffordability(d, sctx), nil
	case ExpenseProjectionData:
		return evaluateExpenseProjection(d), nil
	case HousingAffordabilityData:
		return evaluateHousing(d, sctx), nil
	case DebtPayoffData:
		return evaluateDebtPayoff(d), nil
	case SavingsGoalData:
		return evaluateSavingsGoal(d, sctx), nil
	default:
		return ScenarioResult{}, fmt.Errorf("%w: %T", ErrUnsupportedScenario, data)
	}
}

// AffordabilityDetails is the details payload for can_i_afford.
type AffordabilityDetails struct {
	ItemCost                 float64  `json:"item_cost"`
	UpfrontContribution      float64  `json:"upfront_contribution"`
	RemainingCost            float64  `json:"remaining_cost"`
	MonthlyContribution      float64  `json:"monthly_contribution"`
	MonthsNeeded             *float64 `json:"months_needed"`
	TargetMonths             float64  `json:"target_months"`
	CanAffordWithinTimeframe bool     `json:"can_afford_within_timeframe"`
}

func evaluateAffordability(d AffordabilityData, sctx ScenarioContext) ScenarioResult {
	monthsToSave := 6.0
	if d.MonthsToSave != nil {
		monthsToSave = *d.MonthsToSave
	}

	contribution := max(sctx.DisposableIncome, 0)
	if d.MonthlyContribution != nil {
		contribution = *d.MonthlyContribution
	}

	remainingCost := max(d.ItemCost-(sctx.BankBalance+d.UpfrontContribution), 0)

	monthsNeeded := math.Inf(1)
	if contribution > 0 {
		monthsNeeded = remainingCost / contribution
	}

	affordable := monthsNeeded <= monthsToSave

	var summary string
	if affordable {
		summary = fmt.Sprintf(
			"You can afford this purchase in approximately %.0f month(s) with your current savings plan.",
			math.Ceil(monthsNeeded))
	} else {
		summary = fmt.Sprintf(
			"At your current savings rate it will take about %.0f month(s) to afford this purchase.",
			math.Ceil(monthsNeeded))
	}

	var recommendations []string
	if !affordable {
		recommendations = append(recommendations, "Increase monthly contributions or extend your savings timeline.")
	}

	if sctx.DisposableIncome < 0 {
		recommendations = append(recommendations, "Focus on reducing expenses first so you are not going further into debt.")
	}

	return ScenarioResult{
		Type:    ScenarioCanIAfford,
		Summary: summary,
		Details: AffordabilityDetails{
			ItemCost:                 round2(d.ItemCost),
			UpfrontContribution:      round2(d.UpfrontContribution),
			RemainingCost:            round2(remainingCost),
			MonthlyContribution:      round2(contribution),
			MonthsNeeded:             roundMonths(monthsNeeded),
			TargetMonths:             round2(monthsToSave),
			CanAffordWithinTimeframe: affordable,
		},
		Recommendations: recommendations,
	}
}

// ExpensePoint is one month of a compounded expense projection.
type ExpensePoint struct {
	Month            int     `json:"month"`
	ProjectedExpense float64 `json:"projected_expense"`
}

// ExpenseProjectionDetails is the details payload for expense_projection.
type ExpenseProjectionDetails struct {
	StartingExpense   float64        `json:"starting_expense"`
	GrowthRatePercent float64        `json:"growth_rate_percent"`
	PeriodMonths      int            `json:"period_months"`
	Projections       []ExpensePoint `json:"projections"`
}

func evaluateExpenseProjection(d ExpenseProjectionData) ScenarioResult {
	growthPercent := 2.0
	if d.GrowthRatePercent != nil {
		growthPercent = *d.GrowthRatePercent
	}

	periodMonths := 12
	if d.PeriodMonths != nil {
		periodMonths = *d.PeriodMonths
	}

	growth := growthPercent / 100
	expense := d.CurrentMonthlyExpense
	points := make([]ExpensePoint, 0, max(periodMonths, 0))

	for month := 1; month <= periodMonths; month++ {
		expense *= 1 + growth
		points = append(points, ExpensePoint{Month: month, ProjectedExpense: round2(expense)})
	}

	var finalExpense float64
	if len(points) > 0 {
		finalExpense = points[len(points)-1].ProjectedExpense
	}

	summary := fmt.Sprintf("Your expense could grow from $%.2f to ~$%.2f over %d month(s) with a %.4g%% growth rate.",
		round2(d.CurrentMonthlyExpense), finalExpense, periodMonths, growthPercent)

	return ScenarioResult{
		Type:    ScenarioExpenseProjection,
		Summary: summary,
		Details: ExpenseProjectionDetails{
			StartingExpense:   round2(d.CurrentMonthlyExpense),
			GrowthRatePercent: round2(growthPercent),
			PeriodMonths:      periodMonths,
			Projections:       points,
		},
		Recommendations: []string{
			"Compare projected expenses against your income to ensure your budget stays balanced.",
			"Look for opportunities to cap or reduce variable costs if projections exceed comfort levels.",
		},
	}
}

// HousingDetails is the details payload for housing_affordability.
type HousingDetails struct {
	HousingCost             float64 `json:"housing_cost"`
	RecommendedBudget       float64 `json:"recommended_housing_budget"`
	HousingBudgetPercentage float64 `json:"housing_budget_percentage"`
	AffordabilityRatio      float64 `json:"affordability_ratio"`
	WithinGuideline         bool    `json:"within_guideline"`
}

func evaluateHousing(d HousingAffordabilityData, sctx ScenarioContext) ScenarioResult {
	pct := 30.0
	if d.HousingBudgetPercentage != nil {
		pct = *d.HousingBudgetPercentage
	}

	recommended := pct / 100 * sctx.MonthlyIncome

	income := sctx.MonthlyIncome
	if income == 0 {
		income = 1
	}

	ratio := d.HousingCost / income * 100
	within := d.HousingCost <= recommended

	var (
		summary         string
		recommendations []string
	)

	if within {
		summary = fmt.Sprintf("This housing cost keeps you within the %.4g%% guideline of your monthly income.", pct)
		recommendations = []string{"Great job keeping housing within healthy limits—protect that disposable income!"}
	} else {
		summary = fmt.Sprintf("This housing cost is above the %.4g%% guideline and may stress your budget.", pct)
		recommendations = []string{
			"Aim to keep housing at or below 30% of take-home pay for flexibility.",
			"Consider negotiating rent, finding roommates, or increasing income before committing.",
		}
	}

	return ScenarioResult{
		Type:    ScenarioHousingAffordability,
		Summary: summary,
		Details: HousingDetails{
			HousingCost:             round2(d.HousingCost),
			RecommendedBudget:       round2(recommended),
			HousingBudgetPercentage: round2(pct),
			AffordabilityRatio:      round2(ratio),
			WithinGuideline:         within,
		},
		Recommendations: recommendations,
	}
}

// DebtPayoffDetails is the details payload for debt_payoff.
type DebtPayoffDetails struct {
	CurrentDebt         float64 `json:"current_debt"`
	InterestRatePercent float64 `json:"interest_rate_percent"`
	MonthlyPayment      float64 `json:"monthly_payment"`
	// MonthsToPayoff is nil when the payment does not cover interest or
	// the payoff would run past 50 years.
	MonthsToPayoff    *int    `json:"months_to_payoff"`
	TotalInterestPaid float64 `json:"total_interest_paid"`
}

// maxPayoffMonths caps the amortization loop at 50 years.
const maxPayoffMonths = 600

func evaluateDebtPayoff(d DebtPayoffData) ScenarioResult {
	monthlyRate := d.InterestRatePercent / 100 / 12

	// A payment that cannot beat the first month's interest never
	// reduces the balance, so skip the loop entirely.
	if d.MonthlyPayment <= d.CurrentDebt*monthlyRate {
		return ScenarioResult{
			Type:    ScenarioDebtPayoff,
			Summary: "Monthly payment is too low to cover interest—consider increasing it to make progress.",
			Details: DebtPayoffDetails{
				CurrentDebt:         round2(d.CurrentDebt),
				InterestRatePercent: round2(d.InterestRatePercent),
				MonthlyPayment:      round2(d.MonthlyPayment),
				MonthsToPayoff:      nil,
				TotalInterestPaid:   0,
			},
			Recommendations: []string{
				"Increase monthly payments so they exceed the interest charged each month.",
				"Explore refinancing options to secure a lower interest rate.",
			},
		}
	}

	var (
		balance       = d.CurrentDebt
		months        int
		totalInterest float64
	)

	for balance > 0 && months < maxPayoffMonths {
		interest := balance * monthlyRate
		totalInterest += interest
		balance = max(balance+interest-d.MonthlyPayment, 0)
		months++
	}

	var (
		payoffMonths *int
		summary      string
	)

	if balance > 0 {
		summary = "With these inputs the debt payoff extends beyond 50 years—consider increasing your monthly payment."
	} else {
		payoffMonths = &months
		summary = fmt.Sprintf("You can pay off this debt in about %d month(s) by contributing $%.2f monthly.",
			months, round2(d.MonthlyPayment))
	}

	return ScenarioResult{
		Type:    ScenarioDebtPayoff,
		Summary: summary,
		Details: DebtPayoffDetails{
			CurrentDebt:         round2(d.CurrentDebt),
			InterestRatePercent: round2(d.InterestRatePercent),
			MonthlyPayment:      round2(d.MonthlyPayment),
			MonthsToPayoff:      payoffMonths,
			TotalInterestPaid:   round2(totalInterest),
		},
		Recommendations: []string{
			"Automate payments so you never miss a due date.",
			"If extra cash appears (bonus, tax refund), throw it at the principal to shorten the payoff timeline.",
		},
	}
}

// SavingsGoalDetails is the details payload for savings_goal.
type SavingsGoalDetails struct {
	TargetAmount         float64  `json:"target_amount"`
	CurrentAmount        float64  `json:"current_amount"`
	MonthlyContribution  float64  `json:"monthly_contribution"`
	MonthsToGoal         *float64 `json:"months_to_goal"`
	CompletionPercentage float64  `json:"completion_percentage"`
}

func evaluateSavingsGoal(d SavingsGoalData, sctx ScenarioContext) ScenarioResult {
	current := sctx.BankBalance
	if d.CurrentAmount != nil {
		current = *d.CurrentAmount
	}

	contribution := max(sctx.DisposableIncome, 0)
	if d.MonthlyContribution != nil {
		contribution = *d.MonthlyContribution
	}

	remaining := max(d.TargetAmount-current, 0)

	monthsToGoal := math.Inf(1)
	if contribution > 0 {
		monthsToGoal = remaining / contribution
	}

	var completion float64
	if d.TargetAmount > 0 {
		completion = current / d.TargetAmount * 100
	}

	var summary string
	if contribution > 0 {
		summary = fmt.Sprintf(
			"You are about %.0f month(s) away from this savings goal if you keep contributing $%.2f each month.",
			math.Ceil(monthsToGoal), round2(contribution))
	} else {
		summary = "Add a monthly contribution to start making progress on this savings goal."
	}

	var recommendations []string

	switch {
	case math.IsInf(monthsToGoal, 1):
		recommendations = append(recommendations, "Set a realistic monthly contribution so you can reach the goal.")
	case monthsToGoal > 12:
		recommendations = append(recommendations, "Consider boosting monthly contributions or extending the timeline.")
	default:
		recommendations = append(recommendations, "You are on track—keep depositing consistently to hit the goal.")
	}

	return ScenarioResult{
		Type:    ScenarioSavingsGoal,
		Summary: summary,
		Details: SavingsGoalDetails{
			TargetAmount:         round2(d.TargetAmount),
			CurrentAmount:        round2(current),
			MonthlyContribution:  round2(contribution),
			MonthsToGoal:         roundMonths(monthsToGoal),
			CompletionPercentage: round2(completion),
		},
		Recommendations: recommendations,
	}
}
