package category

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

func TestService_Create(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	type args struct {
		params CreateParams
	}

	type testCase struct {
		name       string
		args       args
		mockSetup  func(repo *MockRepository)
		wantErr    error
		wantAnyErr bool
	}

	tests := []testCase{
		{
			name: "creates category",
			args: args{
				params: CreateParams{
					Name:            finance.CategoryEducation,
					BudgetAllocated: 300,
					Description:     "Courses and books",
				},
			},
			mockSetup: func(repo *MockRepository) {
				repo.EXPECT().
					GetCategoryByName(gomock.Any(), userID, finance.CategoryEducation).
					Return(nil, ErrNotFound)
				repo.EXPECT().
					CreateCategory(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "rejects duplicate name",
			args: args{
				params: CreateParams{
					Name:            finance.CategoryFinance,
					BudgetAllocated: 100,
				},
			},
			mockSetup: func(repo *MockRepository) {
				repo.EXPECT().
					GetCategoryByName(gomock.Any(), userID, finance.CategoryFinance).
					Return(&finance.Category{Name: finance.CategoryFinance}, nil)
			},
			wantErr: ErrDuplicateName,
		},
		{
			name: "rejects negative allocation",
			args: args{
				params: CreateParams{
					Name:            finance.CategoryFamily,
					BudgetAllocated: -50,
				},
			},
			mockSetup:  func(repo *MockRepository) {},
			wantAnyErr: true,
		},
		{
			name:       "rejects empty name",
			args:       args{params: CreateParams{BudgetAllocated: 50}},
			mockSetup:  func(repo *MockRepository) {},
			wantAnyErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			repo := NewMockRepository(ctrl)
			tc.mockSetup(repo)

			service := NewService(repo, cache.NewMemory())

			category, err := service.Create(context.Background(), userID, tc.args.params)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			if tc.wantAnyErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, userID, category.UserID)
			assert.Equal(t, tc.args.params.Name, category.Name)
			assert.Equal(t, tc.args.params.BudgetAllocated, category.BudgetAllocated)
		})
	}
}

func TestService_Update(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	categoryID := uuid.New()

	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	repo.EXPECT().
		GetCategory(gomock.Any(), userID, categoryID).
		Return(&finance.Category{
			ID:              categoryID,
			UserID:          userID,
			Name:            finance.CategoryFriends,
			BudgetAllocated: 100,
			Description:     "old",
		}, nil)
	repo.EXPECT().
		UpdateCategory(gomock.Any(), gomock.Any()).
		Return(nil)

	service := NewService(repo, cache.NewMemory())

	category, err := service.Update(context.Background(), userID, categoryID, UpdateParams{
		BudgetAllocated: new(float64(250)),
	})
	require.NoError(t, err)

	assert.Equal(t, 250.0, category.BudgetAllocated)
	assert.Equal(t, "old", category.Description, "unset fields are untouched")
}

func TestService_Update_NotFound(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	categoryID := uuid.New()

	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	repo.EXPECT().
		GetCategory(gomock.Any(), userID, categoryID).
		Return(nil, ErrNotFound)

	service := NewService(repo, cache.NewMemory())

	_, err := service.Update(context.Background(), userID, categoryID, UpdateParams{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_Delete_InvalidatesCache(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	categoryID := uuid.New()

	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	repo.EXPECT().
		DeleteCategory(gomock.Any(), userID, categoryID).
		Return(nil)

	c := cache.NewMemory()
	key := cache.CalculationKey(userID, "budget", "30")
	c.Set(key, []byte(`{}`), cache.DefaultTTL)

	service := NewService(repo, c)

	err := service.Delete(context.Background(), userID, categoryID)
	require.NoError(t, err)

	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestService_Overview(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	repo.EXPECT().
		ListCategories(gomock.Any(), userID).
		Return([]*finance.Category{
			{Name: finance.CategoryFinance, BudgetAllocated: 500, SpentAmount: 320},
			{Name: finance.CategoryVacation, BudgetAllocated: 200, SpentAmount: 260},
		}, nil)

	service := NewService(repo, cache.NewMemory())

	overview, err := service.Overview(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 700.0, overview.TotalAllocated)
	assert.Equal(t, 580.0, overview.TotalSpent)
	assert.Equal(t, 120.0, overview.TotalRemaining)
	assert.Len(t, overview.Categories, 2)
}
