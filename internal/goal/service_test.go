package goal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ebitner/pennyplan/internal/cache"
	"github.com/ebitner/pennyplan/internal/finance"
)

func TestService_Create(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	type args struct {
		params CreateParams
	}

	type testCase struct {
		name      string
		args      args
		mockSetup func(repo *MockRepository)
		wantErr   bool
		wantUnit  finance.MetricUnit
	}

	tests := []testCase{
		{
			name: "creates goal with default metric unit",
			args: args{
				params: CreateParams{
					Type:         finance.GoalEmergencyFund,
					Name:         "Emergency fund",
					TargetAmount: 6000,
				},
			},
			mockSetup: func(repo *MockRepository) {
				repo.EXPECT().
					CreateGoal(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantUnit: finance.UnitCurrency,
		},
		{
			name: "keeps explicit metric unit",
			args: args{
				params: CreateParams{
					Type:         finance.GoalEducation,
					Name:         "Certification",
					TargetAmount: 120,
					MetricUnit:   finance.UnitHours,
				},
			},
			mockSetup: func(repo *MockRepository) {
				repo.EXPECT().
					CreateGoal(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantUnit: finance.UnitHours,
		},
		{
			name:      "rejects empty name",
			args:      args{params: CreateParams{TargetAmount: 100}},
			mockSetup: func(repo *MockRepository) {},
			wantErr:   true,
		},
		{
			name: "rejects negative target",
			args: args{
				params: CreateParams{Name: "Bad", TargetAmount: -1},
			},
			mockSetup: func(repo *MockRepository) {},
			wantErr:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			repo := NewMockRepository(ctrl)
			tc.mockSetup(repo)

			service := NewService(repo, cache.NewMemory())

			goal, err := service.Create(context.Background(), userID, tc.args.params)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, finance.GoalActive, goal.Status)
			assert.Equal(t, tc.wantUnit, goal.MetricUnit)
		})
	}
}

func TestService_RecordProgress(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	goalID := uuid.New()

	type args struct {
		currentAmount float64
	}

	type testCase struct {
		name       string
		args       args
		goal       *finance.Goal
		wantStatus finance.GoalStatus
	}

	tests := []testCase{
		{
			name: "partial progress keeps goal active",
			args: args{currentAmount: 900},
			goal: &finance.Goal{
				ID: goalID, UserID: userID,
				TargetAmount: 2000,
				Status:       finance.GoalActive,
			},
			wantStatus: finance.GoalActive,
		},
		{
			name: "reaching the target completes the goal",
			args: args{currentAmount: 2000},
			goal: &finance.Goal{
				ID: goalID, UserID: userID,
				TargetAmount: 2000,
				Status:       finance.GoalActive,
			},
			wantStatus: finance.GoalCompleted,
		},
		{
			name: "dropping below the target reactivates a completed goal",
			args: args{currentAmount: 1500},
			goal: &finance.Goal{
				ID: goalID, UserID: userID,
				TargetAmount: 2000,
				Status:       finance.GoalCompleted,
			},
			wantStatus: finance.GoalActive,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			repo := NewMockRepository(ctrl)
			repo.EXPECT().
				GetGoal(gomock.Any(), userID, goalID).
				Return(tc.goal, nil)
			repo.EXPECT().
				UpdateGoal(gomock.Any(), gomock.Any()).
				Return(nil)

			service := NewService(repo, cache.NewMemory())

			goal, err := service.RecordProgress(context.Background(), userID, goalID, tc.args.currentAmount)
			require.NoError(t, err)

			assert.Equal(t, tc.args.currentAmount, goal.CurrentAmount)
			assert.Equal(t, tc.wantStatus, goal.Status)
		})
	}
}

func TestService_RecordProgress_Negative(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)

	service := NewService(repo, cache.NewMemory())

	_, err := service.RecordProgress(context.Background(), uuid.New(), uuid.New(), -5)
	require.Error(t, err)
}

func TestService_Progress(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	goalID := uuid.New()
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	repo.EXPECT().
		GetGoal(gomock.Any(), userID, goalID).
		Return(&finance.Goal{
			ID: goalID, UserID: userID,
			Type:          finance.GoalSavings,
			Name:          "Trip",
			TargetAmount:  1000,
			CurrentAmount: 400,
			Deadline:      &deadline,
			Status:        finance.GoalActive,
			MetricUnit:    finance.UnitCurrency,
		}, nil)

	service := NewService(repo, cache.NewMemory())
	service.nowFunc = func() time.Time { return now }

	progress, err := service.Progress(context.Background(), userID, goalID)
	require.NoError(t, err)

	assert.Equal(t, 40.0, progress.CompletionPercentage)
	assert.Equal(t, 600.0, progress.RemainingAmount)
	require.NotNil(t, progress.TimeRemainingDays)
	assert.Equal(t, 46, *progress.TimeRemainingDays)
}

func TestService_Update_InvalidatesCache(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	goalID := uuid.New()

	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	repo.EXPECT().
		GetGoal(gomock.Any(), userID, goalID).
		Return(&finance.Goal{ID: goalID, UserID: userID, Name: "Trip", TargetAmount: 100}, nil)
	repo.EXPECT().
		UpdateGoal(gomock.Any(), gomock.Any()).
		Return(nil)

	c := cache.NewMemory()
	key := cache.CalculationKey(userID, "budget", "30")
	c.Set(key, []byte(`{}`), cache.DefaultTTL)

	service := NewService(repo, c)

	_, err := service.Update(context.Background(), userID, goalID, UpdateParams{
		Name: new("Big trip"),
	})
	require.NoError(t, err)

	_, ok := c.Get(key)
	assert.False(t, ok)
}
