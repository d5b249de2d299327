// Package category manages the user's budget envelopes. Budgets are
// allocated per category; spend totals are maintained by the
// transaction service and surfaced here for the dashboard.
package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ebitner/pennyplan/internal/cache"
	"github.com/ebitner/pennyplan/internal/finance"
)

// ErrNotFound indicates the category does not exist for this user.
var ErrNotFound = errors.New("category not found")

// ErrDuplicateName indicates the user already has a category with the
// requested name.
var ErrDuplicateName = errors.New("category name already in use")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	CreateCategory(ctx context.Context, category *finance.Category) error
	GetCategory(ctx context.Context, userID, id uuid.UUID) (*finance.Category, error)
	GetCategoryByName(ctx context.Context, userID uuid.UUID, name finance.CategoryName) (*finance.Category, error)
	UpdateCategory(ctx context.Context, category *finance.Category) error
	DeleteCategory(ctx context.Context, userID, id uuid.UUID) error
	ListCategories(ctx context.Context, userID uuid.UUID) ([]*finance.Category, error)
}

type Service struct {
	repo  Repository
	cache cache.Cache
}

func NewService(repo Repository, c cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

type CreateParams struct {
	Name            finance.CategoryName
	BudgetAllocated float64
	Description     string
}

type UpdateParams struct {
	BudgetAllocated *float64
	Description     *string
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*finance.Category, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	if params.BudgetAllocated < 0 {
		return nil, fmt.Errorf("budget allocation must not be negative, got %v", params.BudgetAllocated)
	}

	existing, err := s.repo.GetCategoryByName(ctx, userID, params.Name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, params.Name)
	}

	category := &finance.Category{
		UserID:          userID,
		Name:            params.Name,
		BudgetAllocated: params.BudgetAllocated,
		Description:     params.Description,
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	s.invalidate(userID)

	return category, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*finance.Category, error) {
	return s.repo.GetCategory(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*finance.Category, error) {
	return s.repo.ListCategories(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*finance.Category, error) {
	category, err := s.repo.GetCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.BudgetAllocated != nil {
		if *params.BudgetAllocated < 0 {
			return nil, fmt.Errorf("budget allocation must not be negative, got %v", *params.BudgetAllocated)
		}
		category.BudgetAllocated = *params.BudgetAllocated
	}
	if params.Description != nil {
		category.Description = *params.Description
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}

	s.invalidate(userID)

	return category, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, userID, id); err != nil {
		return err
	}

	s.invalidate(userID)

	return nil
}

// Overview aggregates all envelopes into the totals the dashboard
// shows next to the per-category table.
type Overview struct {
	Categories     []*finance.Category
	TotalAllocated float64
	TotalSpent     float64
	TotalRemaining float64
}

func (s *Service) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	categories, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := &Overview{Categories: categories}
	for _, c := range categories {
		overview.TotalAllocated += c.BudgetAllocated
		overview.TotalSpent += c.SpentAmount
	}
	overview.TotalRemaining = overview.TotalAllocated - overview.TotalSpent

	return overview, nil
}

func (s *Service) invalidate(userID uuid.UUID) {
	if s.cache != nil {
		s.cache.InvalidateUser(userID)
	}
}
