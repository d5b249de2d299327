package matching

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	findFunc func(ctx context.Context, userID uuid.UUID, description string) (*uuid.UUID, error)
	learned  map[string]uuid.UUID
}

func (s *stubRepo) FindCategory(ctx context.Context, userID uuid.UUID, description string) (*uuid.UUID, error) {
	if s.findFunc != nil {
		return s.findFunc(ctx, userID, description)
	}

	return nil, nil
}

func (s *stubRepo) CreateRule(ctx context.Context, userID uuid.UUID, pattern string, categoryID uuid.UUID) error {
	if s.learned == nil {
		s.learned = make(map[string]uuid.UUID)
	}

	s.learned[pattern] = categoryID

	return nil
}

func TestService_SuggestCategory(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	categoryID := uuid.New()

	repo := &stubRepo{
		findFunc: func(ctx context.Context, uid uuid.UUID, description string) (*uuid.UUID, error) {
			assert.Equal(t, userID, uid)
			assert.Equal(t, "GROCERY MART 042", description)
			return &categoryID, nil
		},
	}

	service := NewService(repo)

	got, err := service.SuggestCategory(context.Background(), userID, "  GROCERY MART 042  ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, categoryID, *got)
}

func TestService_SuggestCategory_EmptyDescription(t *testing.T) {
	t.Parallel()

	called := false
	repo := &stubRepo{
		findFunc: func(ctx context.Context, userID uuid.UUID, description string) (*uuid.UUID, error) {
			called = true
			return nil, nil
		},
	}

	service := NewService(repo)

	got, err := service.SuggestCategory(context.Background(), uuid.New(), "   ")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, called, "blank descriptions never hit the store")
}

func TestService_Learn(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	service := NewService(repo)

	categoryID := uuid.New()

	err := service.Learn(context.Background(), uuid.New(), " GROCERY ", categoryID)
	require.NoError(t, err)
	assert.Equal(t, categoryID, repo.learned["GROCERY"])
}
