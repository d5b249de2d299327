package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ebitner/pennyplan/internal/category"
	"github.com/ebitner/pennyplan/internal/finance"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectCategoryColumns = `
	id, user_id, name, budget_allocated, spent_amount, COALESCE(description, ''), created_at, updated_at
`

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(row scanner) (*finance.Category, error) {
	var (
		cat  finance.Category
		name string
	)

	err := row.Scan(
		&cat.ID, &cat.UserID, &name, &cat.BudgetAllocated, &cat.SpentAmount,
		&cat.Description, &cat.CreatedAt, &cat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	cat.Name = finance.CategoryName(name)

	return &cat, nil
}

func (s *Store) CreateCategory(ctx context.Context, cat *finance.Category) error {
	query := `
		INSERT INTO categories (user_id, name, budget_allocated, spent_amount, description)
		VALUES ($1, $2, $3, 0, $4)
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		cat.UserID, string(cat.Name), cat.BudgetAllocated, cat.Description,
	).Scan(&cat.ID, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

func (s *Store) GetCategory(ctx context.Context, userID, id uuid.UUID) (*finance.Category, error) {
	query := `SELECT ` + selectCategoryColumns + ` FROM categories WHERE user_id = $1 AND id = $2`

	cat, err := scanCategory(s.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, category.ErrNotFound
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	return cat, nil
}

func (s *Store) GetCategoryByName(ctx context.Context, userID uuid.UUID, name finance.CategoryName) (*finance.Category, error) {
	query := `SELECT ` + selectCategoryColumns + ` FROM categories WHERE user_id = $1 AND name = $2`

	cat, err := scanCategory(s.db.QueryRowContext(ctx, query, userID, string(name)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, category.ErrNotFound
		}

		return nil, fmt.Errorf("getting category by name: %w", err)
	}

	return cat, nil
}

func (s *Store) UpdateCategory(ctx context.Context, cat *finance.Category) error {
	query := `
		UPDATE categories
		SET budget_allocated = $3, description = $4, updated_at = NOW()
		WHERE user_id = $1 AND id = $2
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		cat.UserID, cat.ID, cat.BudgetAllocated, cat.Description,
	).Scan(&cat.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return category.ErrNotFound
		}

		return fmt.Errorf("updating category: %w", err)
	}

	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	// Transactions keep their history; they just become uncategorized.
	query := `DELETE FROM categories WHERE user_id = $1 AND id = $2`

	result, err := s.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	if affected == 0 {
		return category.ErrNotFound
	}

	return nil
}

func (s *Store) ListCategories(ctx context.Context, userID uuid.UUID) ([]*finance.Category, error) {
	query := `SELECT ` + selectCategoryColumns + ` FROM categories WHERE user_id = $1 ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*finance.Category

	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		categories = append(categories, cat)
	}

	return categories, rows.Err()
}
