// Package transaction manages a user's income and expense records and
// keeps the dependent state (category spend totals, cached calculator
// results) consistent on every write.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ebitner/pennyplan/internal/cache"
	"github.com/ebitner/pennyplan/internal/finance"
)

// ErrNotFound indicates the transaction does not exist for this user.
var ErrNotFound = errors.New("transaction not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *finance.Transaction) error
	CreateTransactions(ctx context.Context, txs []*finance.Transaction) error
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*finance.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *finance.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error
	ListTransactions(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*finance.Transaction, error)

	// RecalculateSpent rewrites the category's spent_amount from its
	// expense transactions.
	RecalculateSpent(ctx context.Context, categoryID uuid.UUID) error
}

type Service struct {
	repo  Repository
	cache cache.Cache
}

func NewService(repo Repository, c cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

type CreateParams struct {
	CategoryID *uuid.UUID
	Amount     float64
	Type       finance.TransactionType
	Date       time.Time
	Metadata   map[string]any
}

type ListFilter struct {
	Type       *finance.TransactionType
	CategoryID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*finance.Transaction, error) {
	if params.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %v", params.Amount)
	}

	tx := &finance.Transaction{
		UserID:     userID,
		CategoryID: params.CategoryID,
		Amount:     params.Amount,
		Type:       params.Type,
		Date:       params.Date,
		Metadata:   params.Metadata,
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.syncCategory(ctx, tx)
	s.invalidate(userID)

	return tx, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*finance.Transaction, error) {
	return s.repo.GetTransaction(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*finance.Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, filter)
}

func (s *Service) Update(ctx context.Context, tx *finance.Transaction) error {
	// The previous category may need its total rebuilt too.
	previous, err := s.repo.GetTransaction(ctx, tx.UserID, tx.ID)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return err
	}

	s.syncCategory(ctx, previous)
	s.syncCategory(ctx, tx)
	s.invalidate(tx.UserID)

	return nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tx, err := s.repo.GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}

	s.syncCategory(ctx, tx)
	s.invalidate(userID)

	return nil
}

// CreateBatch inserts a set of imported transactions in one go.
func (s *Service) CreateBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) ([]*finance.Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	txs := make([]*finance.Transaction, len(params))
	for i, p := range params {
		if p.Amount <= 0 {
			return nil, fmt.Errorf("amount must be positive, got %v", p.Amount)
		}

		txs[i] = &finance.Transaction{
			UserID:     userID,
			CategoryID: p.CategoryID,
			Amount:     p.Amount,
			Type:       p.Type,
			Date:       p.Date,
			Metadata:   p.Metadata,
		}
	}

	if err := s.repo.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("creating transactions: %w", err)
	}

	seen := make(map[uuid.UUID]bool)

	for _, tx := range txs {
		if tx.CategoryID == nil || seen[*tx.CategoryID] {
			continue
		}

		seen[*tx.CategoryID] = true
		s.syncCategory(ctx, tx)
	}

	s.invalidate(userID)

	return txs, nil
}

// syncCategory rebuilds the spend total for the transaction's category.
// A rebuild failure never fails the write that triggered it; the total
// self-heals on the next categorized write.
func (s *Service) syncCategory(ctx context.Context, tx *finance.Transaction) {
	if tx == nil || tx.CategoryID == nil || tx.Type != finance.TypeExpense {
		return
	}

	_ = s.repo.RecalculateSpent(ctx, *tx.CategoryID)
}

func (s *Service) invalidate(userID uuid.UUID) {
	if s.cache != nil {
		s.cache.InvalidateUser(userID)
	}
}
