package calc_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebitner/pennyplan/internal/calc"
)

func ptr[T any](v T) *T { return &v }

func testContext() calc.ScenarioContext {
	return calc.ScenarioContext{
		MonthlyIncome:    4600,
		MonthlyExpenses:  2800,
		DisposableIncome: 1800,
		BankBalance:      2000,
	}
}

func TestParseScenarioData(t *testing.T) {
	tests := []struct {
		name    string
		typ     calc.ScenarioType
		raw     string
		want    calc.ScenarioData
		wantErr error
	}{
		{
			name: "Affordability",
			typ:  calc.ScenarioCanIAfford,
			raw:  `{"itemCost":3000,"upfrontContribution":500}`,
			want: calc.AffordabilityData{ItemCost: 3000, UpfrontContribution: 500},
		},
		{
			name: "EmptyPayloadDefaults",
			typ:  calc.ScenarioDebtPayoff,
			raw:  "",
			want: calc.DebtPayoffData{},
		},
		{
			name:    "UnknownType",
			typ:     calc.ScenarioType("crystal_ball"),
			raw:     `{}`,
			wantErr: calc.ErrUnsupportedScenario,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.ParseScenarioData(tt.typ, json.RawMessage(tt.raw))

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateScenario_Unsupported(t *testing.T) {
	_, err := calc.EvaluateScenario(nil, testContext())
	assert.ErrorIs(t, err, calc.ErrUnsupportedScenario)
}

func TestEvaluateScenario_Affordability(t *testing.T) {
	data := calc.AffordabilityData{
		ItemCost:            3000,
		UpfrontContribution: 500,
		MonthlyContribution: ptr(833.33),
	}

	got, err := calc.EvaluateScenario(data, testContext())
	require.NoError(t, err)

	details, ok := got.Details.(calc.AffordabilityDetails)
	require.True(t, ok)

	assert.InDelta(t, 500.0, details.RemainingCost, 0.001)
	require.NotNil(t, details.MonthsNeeded)
	assert.InDelta(t, 0.6, *details.MonthsNeeded, 0.001)
	assert.True(t, details.CanAffordWithinTimeframe)
	assert.Empty(t, got.Recommendations)
}

func TestEvaluateScenario_AffordabilityZeroContribution(t *testing.T) {
	sctx := testContext()
	sctx.DisposableIncome = -200

	got, err := calc.EvaluateScenario(calc.AffordabilityData{ItemCost: 10000}, sctx)
	require.NoError(t, err)

	details := got.Details.(calc.AffordabilityDetails)

	// Negative disposable income defaults the contribution to 0, so the
	// timeline is infinite and reported as nil.
	assert.Nil(t, details.MonthsNeeded)
	assert.False(t, details.CanAffordWithinTimeframe)
	assert.Contains(t, got.Recommendations, "Focus on reducing expenses first so you are not going further into debt.")
}

func TestEvaluateScenario_ExpenseProjection(t *testing.T) {
	data := calc.ExpenseProjectionData{
		CurrentMonthlyExpense: 1000,
		GrowthRatePercent:     ptr(10.0),
		PeriodMonths:          ptr(3),
	}

	got, err := calc.EvaluateScenario(data, testContext())
	require.NoError(t, err)

	details := got.Details.(calc.ExpenseProjectionDetails)
	require.Len(t, details.Projections, 3)

	// Compounding starts on the first recorded month.
	assert.InDelta(t, 1100.0, details.Projections[0].ProjectedExpense, 0.001)
	assert.InDelta(t, 1210.0, details.Projections[1].ProjectedExpense, 0.001)
	assert.InDelta(t, 1331.0, details.Projections[2].ProjectedExpense, 0.001)
}

func TestEvaluateScenario_Housing(t *testing.T) {
	tests := []struct {
		name            string
		data            calc.HousingAffordabilityData
		wantWithin      bool
		wantRecommended float64
		wantRatio       float64
	}{
		{
			name:            "WithinGuideline",
			data:            calc.HousingAffordabilityData{HousingCost: 1200},
			wantWithin:      true,
			wantRecommended: 1380,
			wantRatio:       26.09,
		},
		{
			name:            "AboveGuideline",
			data:            calc.HousingAffordabilityData{HousingCost: 2000, HousingBudgetPercentage: ptr(25.0)},
			wantWithin:      false,
			wantRecommended: 1150,
			wantRatio:       43.48,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.EvaluateScenario(tt.data, testContext())
			require.NoError(t, err)

			details := got.Details.(calc.HousingDetails)
			assert.Equal(t, tt.wantWithin, details.WithinGuideline)
			assert.InDelta(t, tt.wantRecommended, details.RecommendedBudget, 0.001)
			assert.InDelta(t, tt.wantRatio, details.AffordabilityRatio, 0.001)
		})
	}
}

func TestEvaluateScenario_DebtPayoff(t *testing.T) {
	got, err := calc.EvaluateScenario(calc.DebtPayoffData{
		CurrentDebt:         1200,
		InterestRatePercent: 12,
		MonthlyPayment:      110,
	}, testContext())
	require.NoError(t, err)

	details := got.Details.(calc.DebtPayoffDetails)
	require.NotNil(t, details.MonthsToPayoff)
	assert.Equal(t, 12, *details.MonthsToPayoff)
	assert.Greater(t, details.TotalInterestPaid, 0.0)
}

func TestEvaluateScenario_DebtPayoffPaymentBelowInterest(t *testing.T) {
	// 1% monthly interest on 10k is 100; a payment of 100 never touches
	// the principal and must short-circuit before the loop.
	got, err := calc.EvaluateScenario(calc.DebtPayoffData{
		CurrentDebt:         10000,
		InterestRatePercent: 12,
		MonthlyPayment:      100,
	}, testContext())
	require.NoError(t, err)

	details := got.Details.(calc.DebtPayoffDetails)
	assert.Nil(t, details.MonthsToPayoff)
	assert.Zero(t, details.TotalInterestPaid)
	assert.Contains(t, got.Summary, "too low to cover interest")
}

func TestEvaluateScenario_DebtPayoffLoopCap(t *testing.T) {
	// Payment barely beats first-month interest; the balance shrinks so
	// slowly the 600-month cap fires.
	got, err := calc.EvaluateScenario(calc.DebtPayoffData{
		CurrentDebt:         1000000,
		InterestRatePercent: 12,
		MonthlyPayment:      10001,
	}, testContext())
	require.NoError(t, err)

	details := got.Details.(calc.DebtPayoffDetails)
	assert.Nil(t, details.MonthsToPayoff)
	assert.Contains(t, got.Summary, "beyond 50 years")
}

func TestEvaluateScenario_SavingsGoal(t *testing.T) {
	tests := []struct {
		name           string
		data           calc.SavingsGoalData
		wantMonths     *float64
		wantCompletion float64
	}{
		{
			name:           "ContextDefaults",
			data:           calc.SavingsGoalData{TargetAmount: 5600},
			wantMonths:     ptr(2.0), // (5600-2000)/1800
			wantCompletion: 35.71,
		},
		{
			name: "ExplicitAmounts",
			data: calc.SavingsGoalData{
				TargetAmount:        1000,
				CurrentAmount:       ptr(250.0),
				MonthlyContribution: ptr(150.0),
			},
			wantMonths:     ptr(5.0),
			wantCompletion: 25.0,
		},
		{
			name: "ZeroContribution",
			data: calc.SavingsGoalData{
				TargetAmount:        1000,
				CurrentAmount:       ptr(0.0),
				MonthlyContribution: ptr(0.0),
			},
			wantMonths:     nil,
			wantCompletion: 0,
		},
		{
			name: "ZeroTarget",
			data: calc.SavingsGoalData{
				TargetAmount:        0,
				CurrentAmount:       ptr(100.0),
				MonthlyContribution: ptr(50.0),
			},
			wantMonths:     ptr(0.0),
			wantCompletion: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.EvaluateScenario(tt.data, testContext())
			require.NoError(t, err)

			details := got.Details.(calc.SavingsGoalDetails)

			if tt.wantMonths == nil {
				assert.Nil(t, details.MonthsToGoal)
			} else {
				require.NotNil(t, details.MonthsToGoal)
				assert.InDelta(t, *tt.wantMonths, *details.MonthsToGoal, 0.001)
			}

			assert.InDelta(t, tt.wantCompletion, details.CompletionPercentage, 0.001)
		})
	}
}
