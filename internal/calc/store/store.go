package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ebitner/pennyplan/internal/calc"
	"github.com/ebitner/pennyplan/internal/finance"
)

// Store reads the calculation snapshots from Postgres. All queries are
// user-scoped; authorization happens before we get here.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (finance.Profile, error) {
	query := `SELECT profile_data FROM users WHERE id = $1 AND is_active`

	var raw []byte

	err := s.db.QueryRowContext(ctx, query, userID).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return finance.Profile{}, calc.ErrUserNotFound
		}

		return finance.Profile{}, fmt.Errorf("getting profile: %w", err)
	}

	// A user without a saved profile calculates against zero values.
	var profile finance.Profile
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &profile); err != nil {
			return finance.Profile{}, fmt.Errorf("decoding profile: %w", err)
		}
	}

	return profile, nil
}

func (s *Store) ListCategories(ctx context.Context, userID uuid.UUID) ([]finance.Category, error) {
	query := `
		SELECT id, user_id, name, budget_allocated, spent_amount, COALESCE(description, ''), created_at, updated_at
		FROM categories
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []finance.Category

	for rows.Next() {
		var (
			cat  finance.Category
			name string
		)

		if err := rows.Scan(
			&cat.ID, &cat.UserID, &name, &cat.BudgetAllocated, &cat.SpentAmount,
			&cat.Description, &cat.CreatedAt, &cat.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		cat.Name = finance.CategoryName(name)
		categories = append(categories, cat)
	}

	return categories, rows.Err()
}

func (s *Store) ListTransactions(ctx context.Context, userID uuid.UUID, since time.Time) ([]finance.Transaction, error) {
	query := `
		SELECT id, user_id, category_id, amount, type, date, metadata, created_at, updated_at
		FROM transactions
		WHERE user_id = $1 AND date >= $2
		ORDER BY date DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var transactions []finance.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		transactions = append(transactions, *tx)
	}

	return transactions, rows.Err()
}

func (s *Store) ListGoals(ctx context.Context, userID uuid.UUID) ([]finance.Goal, error) {
	query := `
		SELECT id, user_id, goal_type, name, target_amount, current_amount, deadline, status,
			COALESCE(description, ''), metric_unit, metadata, created_at, updated_at
		FROM financial_goals
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []finance.Goal

	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}

		goals = append(goals, *goal)
	}

	return goals, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*finance.Transaction, error) {
	var (
		tx      finance.Transaction
		typeStr string
		rawMeta []byte
	)

	if err := s.Scan(
		&tx.ID, &tx.UserID, &tx.CategoryID, &tx.Amount, &typeStr, &tx.Date,
		&rawMeta, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = finance.TransactionType(typeStr)

	if len(rawMeta) > 0 {
		if err := json.Unmarshal(rawMeta, &tx.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata: %w", err)
		}
	}

	return &tx, nil
}

func scanGoal(s scanner) (*finance.Goal, error) {
	var (
		goal               finance.Goal
		typeStr, statusStr string
		unitStr            string
		rawMeta            []byte
	)

	if err := s.Scan(
		&goal.ID, &goal.UserID, &typeStr, &goal.Name, &goal.TargetAmount, &goal.CurrentAmount,
		&goal.Deadline, &statusStr, &goal.Description, &unitStr, &rawMeta,
		&goal.CreatedAt, &goal.UpdatedAt,
	); err != nil {
		return nil, err
	}

	goal.Type = finance.GoalType(typeStr)
	goal.Status = finance.GoalStatus(statusStr)
	goal.MetricUnit = finance.MetricUnit(unitStr)

	if len(rawMeta) > 0 {
		if err := json.Unmarshal(rawMeta, &goal.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata: %w", err)
		}
	}

	return &goal, nil
}
