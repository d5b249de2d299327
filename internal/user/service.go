// Package user manages the account's financial profile. The profile is
// a single jsonb document; changing it shifts every calculator result,
// so writes invalidate the user's cached calculations.
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ebitner/pennyplan/internal/cache"
	"github.com/ebitner/pennyplan/internal/finance"
)

// ErrNotFound indicates no active user exists for the id or email.
var ErrNotFound = errors.New("user not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	GetUser(ctx context.Context, id uuid.UUID) (*Account, error)
	GetUserByEmail(ctx context.Context, email string) (*Account, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, profile finance.Profile) error
}

// Account is the user record minus credentials.
type Account struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Profile   finance.Profile
}

type Service struct {
	repo  Repository
	cache cache.Cache
}

func NewService(repo Repository, c cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return s.repo.GetUserByEmail(ctx, email)
}

func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (finance.Profile, error) {
	account, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return finance.Profile{}, err
	}

	return account.Profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, profile finance.Profile) (finance.Profile, error) {
	if profile.MonthlyIncome < 0 || profile.MonthlyExpenses < 0 {
		return finance.Profile{}, fmt.Errorf("monthly figures must not be negative")
	}
	for label, amount := range profile.FixedExpenses {
		if amount < 0 {
			return finance.Profile{}, fmt.Errorf("fixed expense %q must not be negative, got %v", label, amount)
		}
	}

	if err := s.repo.UpdateProfile(ctx, userID, profile); err != nil {
		return finance.Profile{}, err
	}

	if s.cache != nil {
		s.cache.InvalidateUser(userID)
	}

	return profile, nil
}
