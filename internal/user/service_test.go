package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ebitner/pennyplan/internal/cache"
	"github.com/ebitner/pennyplan/internal/finance"
)

func TestService_UpdateProfile(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	type args struct {
		profile finance.Profile
	}

	type testCase struct {
		name      string
		args      args
		mockSetup func(repo *MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "saves profile and drops cached calculations",
			args: args{
				profile: finance.Profile{
					BankAccountBalance: 8000,
					MonthlyIncome:      4600,
					MonthlyExpenses:    2800,
					FixedExpenses:      map[string]float64{"rent": 1200},
				},
			},
			mockSetup: func(repo *MockRepository) {
				repo.EXPECT().
					UpdateProfile(gomock.Any(), userID, gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "rejects negative monthly income",
			args: args{
				profile: finance.Profile{MonthlyIncome: -1},
			},
			mockSetup: func(repo *MockRepository) {},
			wantErr:   true,
		},
		{
			name: "rejects negative fixed expense",
			args: args{
				profile: finance.Profile{
					FixedExpenses: map[string]float64{"rent": -100},
				},
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

			c := cache.NewMemory()
			key := cache.CalculationKey(userID, "budget", "30")
			c.Set(key, []byte(`{}`), cache.DefaultTTL)

			service := NewService(repo, c)

			saved, err := service.UpdateProfile(context.Background(), userID, tc.args.profile)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.args.profile, saved)

			_, ok := c.Get(key)
			assert.False(t, ok, "profile changes must drop cached calculator results")
		})
	}
}

func TestService_Profile(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	repo.EXPECT().
		GetUser(gomock.Any(), userID).
		Return(&Account{
			ID:    userID,
			Email: "ana@example.com",
			Profile: finance.Profile{
				MonthlyIncome: 3200,
			},
		}, nil)

	service := NewService(repo, cache.NewMemory())

	profile, err := service.Profile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 3200.0, profile.MonthlyIncome)
}

func TestService_Profile_NotFound(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	repo.EXPECT().
		GetUser(gomock.Any(), userID).
		Return(nil, ErrNotFound)

	service := NewService(repo, cache.NewMemory())

	_, err := service.Profile(context.Background(), userID)
	require.ErrorIs(t, err, ErrNotFound)
}
