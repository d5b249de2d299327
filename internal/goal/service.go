// Package goal manages financial goals and exposes their progress
// through the goal progress calculator.
package goal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ebitner/pennyplan/internal/cache"
	"github.com/ebitner/pennyplan/internal/calc"
	"github.com/ebitner/pennyplan/internal/finance"
)

// ErrNotFound indicates the goal does not exist for this user.
var ErrNotFound = errors.New("goal not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	CreateGoal(ctx context.Context, goal *finance.Goal) error
	GetGoal(ctx context.Context, userID, id uuid.UUID) (*finance.Goal, error)
	UpdateGoal(ctx context.Context, goal *finance.Goal) error
	DeleteGoal(ctx context.Context, userID, id uuid.UUID) error
	ListGoals(ctx context.Context, userID uuid.UUID) ([]*finance.Goal, error)
}

type Service struct {
	repo    Repository
	cache   cache.Cache
	nowFunc func() time.Time
}

func NewService(repo Repository, c cache.Cache) *Service {
	return &Service{repo: repo, cache: c, nowFunc: time.Now}
}

type CreateParams struct {
	Type         finance.GoalType
	Name         string
	TargetAmount float64
	Deadline     *time.Time
	Description  string
	MetricUnit   finance.MetricUnit
	Metadata     map[string]any
}

type UpdateParams struct {
	Name         *string
	TargetAmount *float64
	Deadline     *time.Time
	Status       *finance.GoalStatus
	Description  *string
	Metadata     map[string]any
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*finance.Goal, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("goal name is required")
	}
	if params.TargetAmount < 0 {
		return nil, fmt.Errorf("target amount must not be negative, got %v", params.TargetAmount)
	}

	unit := params.MetricUnit
	if unit == "" {
		unit = finance.UnitCurrency
	}

	goal := &finance.Goal{
		UserID:       userID,
		Type:         params.Type,
		Name:         params.Name,
		TargetAmount: params.TargetAmount,
		Deadline:     params.Deadline,
		Status:       finance.GoalActive,
		Description:  params.Description,
		MetricUnit:   unit,
		Metadata:     params.Metadata,
	}

	if err := s.repo.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}

	s.invalidate(userID)

	return goal, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*finance.Goal, error) {
	return s.repo.GetGoal(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*finance.Goal, error) {
	return s.repo.ListGoals(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*finance.Goal, error) {
	goal, err := s.repo.GetGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		goal.Name = *params.Name
	}
	if params.TargetAmount != nil {
		if *params.TargetAmount < 0 {
			return nil, fmt.Errorf("target amount must not be negative, got %v", *params.TargetAmount)
		}
		goal.TargetAmount = *params.TargetAmount
	}
	if params.Deadline != nil {
		goal.Deadline = params.Deadline
	}
	if params.Status != nil {
		goal.Status = *params.Status
	}
	if params.Description != nil {
		goal.Description = *params.Description
	}
	if params.Metadata != nil {
		goal.Metadata = params.Metadata
	}

	if err := s.repo.UpdateGoal(ctx, goal); err != nil {
		return nil, err
	}

	s.invalidate(userID)

	return goal, nil
}

// RecordProgress sets the goal's current amount. Reaching the target
// completes the goal; moving back below it reactivates a completed one.
func (s *Service) RecordProgress(ctx context.Context, userID, id uuid.UUID, currentAmount float64) (*finance.Goal, error) {
	if currentAmount < 0 {
		return nil, fmt.Errorf("current amount must not be negative, got %v", currentAmount)
	}

	goal, err := s.repo.GetGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	goal.CurrentAmount = currentAmount

	switch {
	case goal.TargetAmount > 0 && currentAmount >= goal.TargetAmount:
		goal.Status = finance.GoalCompleted
	case goal.Status == finance.GoalCompleted:
		goal.Status = finance.GoalActive
	}

	if err := s.repo.UpdateGoal(ctx, goal); err != nil {
		return nil, err
	}

	s.invalidate(userID)

	return goal, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.DeleteGoal(ctx, userID, id); err != nil {
		return err
	}

	s.invalidate(userID)

	return nil
}

// Progress runs the goal progress calculator for one goal.
func (s *Service) Progress(ctx context.Context, userID, id uuid.UUID) (*calc.GoalProgress, error) {
	goal, err := s.repo.GetGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	progress := calc.BuildGoalProgress(*goal, s.nowFunc())

	return &progress, nil
}

func (s *Service) invalidate(userID uuid.UUID) {
	if s.cache != nil {
		s.cache.InvalidateUser(userID)
	}
}
