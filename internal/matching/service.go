// Package matching learns which category a transaction description
// belongs to, so imported statements arrive pre-categorized.
package matching

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type Repository interface {
	FindCategory(ctx context.Context, userID uuid.UUID, description string) (*uuid.UUID, error)
	CreateRule(ctx context.Context, userID uuid.UUID, pattern string, categoryID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SuggestCategory returns the category whose rule best matches the
// description, or nil when no rule applies.
func (s *Service) SuggestCategory(ctx context.Context, userID uuid.UUID, description string) (*uuid.UUID, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, nil
	}

	return s.repo.FindCategory(ctx, userID, description)
}

// Learn remembers that descriptions containing pattern belong to the
// category.
func (s *Service) Learn(ctx context.Context, userID uuid.UUID, pattern string, categoryID uuid.UUID) error {
	return s.repo.CreateRule(ctx, userID, strings.TrimSpace(pattern), categoryID)
}
