package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ebitner/pennyplan/internal/finance"
	"github.com/ebitner/pennyplan/internal/user"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectUserColumns = `
	id, email, COALESCE(first_name, ''), COALESCE(last_name, ''), profile_data
`

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*user.Account, error) {
	var (
		account user.Account
		profile []byte
	)

	err := row.Scan(&account.ID, &account.Email, &account.FirstName, &account.LastName, &profile)
	if err != nil {
		return nil, err
	}

	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &account.Profile); err != nil {
			return nil, fmt.Errorf("decoding profile: %w", err)
		}
	}

	return &account, nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*user.Account, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE id = $1 AND is_active`

	account, err := scanAccount(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return account, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.Account, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE email = $1 AND is_active`

	account, err := scanAccount(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user by email: %w", err)
	}

	return account, nil
}

func (s *Store) UpdateProfile(ctx context.Context, userID uuid.UUID, profile finance.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	query := `UPDATE users SET profile_data = $2, updated_at = NOW() WHERE id = $1 AND is_active`

	result, err := s.db.ExecContext(ctx, query, userID, raw)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}

	if affected == 0 {
		return user.ErrNotFound
	}

	return nil
}
