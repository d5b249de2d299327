package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ebitner/pennyplan/internal/finance"
	"github.com/ebitner/pennyplan/internal/goal"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectGoalColumns = `
	id, user_id, goal_type, name, target_amount, current_amount, deadline,
	status, COALESCE(description, ''), metric_unit, metadata, created_at, updated_at
`

type scanner interface {
	Scan(dest ...any) error
}

func scanGoal(row scanner) (*finance.Goal, error) {
	var (
		g        finance.Goal
		goalType string
		status   string
		unit     string
		metadata []byte
	)

	err := row.Scan(
		&g.ID, &g.UserID, &goalType, &g.Name, &g.TargetAmount, &g.CurrentAmount,
		&g.Deadline, &status, &g.Description, &unit, &metadata, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.Type = finance.GoalType(goalType)
	g.Status = finance.GoalStatus(status)
	g.MetricUnit = finance.MetricUnit(unit)

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &g.Metadata); err != nil {
			return nil, fmt.Errorf("decoding goal metadata: %w", err)
		}
	}

	return &g, nil
}

func metadataArg(metadata map[string]any) (any, error) {
	if metadata == nil {
		return nil, nil
	}

	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encoding goal metadata: %w", err)
	}

	return raw, nil
}

func (s *Store) CreateGoal(ctx context.Context, g *finance.Goal) error {
	metadata, err := metadataArg(g.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO financial_goals (user_id, goal_type, name, target_amount, current_amount, deadline, status, description, metric_unit, metadata)
		VALUES ($1, $2, $3, $4, 0, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		g.UserID, string(g.Type), g.Name, g.TargetAmount, g.Deadline,
		string(g.Status), g.Description, string(g.MetricUnit), metadata,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating goal: %w", err)
	}

	return nil
}

func (s *Store) GetGoal(ctx context.Context, userID, id uuid.UUID) (*finance.Goal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM financial_goals WHERE user_id = $1 AND id = $2`

	g, err := scanGoal(s.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, goal.ErrNotFound
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	return g, nil
}

func (s *Store) UpdateGoal(ctx context.Context, g *finance.Goal) error {
	metadata, err := metadataArg(g.Metadata)
	if err != nil {
		return err
	}

	query := `
		UPDATE financial_goals
		SET name = $3, target_amount = $4, current_amount = $5, deadline = $6,
			status = $7, description = $8, metadata = $9, updated_at = NOW()
		WHERE user_id = $1 AND id = $2
		RETURNING updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		g.UserID, g.ID, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline,
		string(g.Status), g.Description, metadata,
	).Scan(&g.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return goal.ErrNotFound
		}

		return fmt.Errorf("updating goal: %w", err)
	}

	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM financial_goals WHERE user_id = $1 AND id = $2`

	result, err := s.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}

	if affected == 0 {
		return goal.ErrNotFound
	}

	return nil
}

func (s *Store) ListGoals(ctx context.Context, userID uuid.UUID) ([]*finance.Goal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM financial_goals WHERE user_id = $1 ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []*finance.Goal

	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}

		goals = append(goals, g)
	}

	return goals, rows.Err()
}
