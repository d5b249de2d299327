package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ebitner/pennyplan/internal/finance"
	"github.com/ebitner/pennyplan/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	id, user_id, category_id, amount, type, date, metadata, created_at, updated_at
`

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

func metadataArg(metadata map[string]any) (any, error) {
	if metadata == nil {
		return nil, nil
	}

	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}

	return raw, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *finance.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, category_id, amount, type, date, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	meta, err := metadataArg(tx.Metadata)
	if err != nil {
		return err
	}

	err = s.db.QueryRowContext(ctx, query,
		tx.UserID,
		tx.CategoryID,
		tx.Amount,
		tx.Type,
		tx.Date,
		meta,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) CreateTransactions(ctx context.Context, txs []*finance.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO transactions (user_id, category_id, amount, type, date, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	stmt, err := dbTx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		meta, err := metadataArg(tx.Metadata)
		if err != nil {
			return err
		}

		err = stmt.QueryRowContext(ctx,
			tx.UserID, tx.CategoryID, tx.Amount, tx.Type, tx.Date, meta,
		).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*finance.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE id = $1 AND user_id = $2`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*finance.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE user_id = $1`

	args := []any{userID}
	argIdx := 2

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND category_id = $%d", argIdx)

		args = append(args, *filter.CategoryID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*finance.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	return txs, rows.Err()
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *finance.Transaction) error {
	query := `
		UPDATE transactions
		SET category_id = $1, amount = $2, type = $3, date = $4, metadata = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
	`

	meta, err := metadataArg(tx.Metadata)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query,
		tx.CategoryID,
		tx.Amount,
		tx.Type,
		tx.Date,
		meta,
		tx.ID,
		tx.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`

	_, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

// RecalculateSpent rewrites a category's spend total from its expense
// transactions, keeping the stored figure consistent with history.
func (s *Store) RecalculateSpent(ctx context.Context, categoryID uuid.UUID) error {
	query := `
		UPDATE categories
		SET spent_amount = (
			SELECT COALESCE(SUM(amount), 0)
			FROM transactions
			WHERE category_id = $1 AND type = 'expense'
		), updated_at = NOW()
		WHERE id = $1
	`

	_, err := s.db.ExecContext(ctx, query, categoryID)
	if err != nil {
		return fmt.Errorf("recalculating spent amount: %w", err)
	}

	return nil
}
