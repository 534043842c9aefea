package recipient

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists recipients in a `recipients` table:
//
//	CREATE TABLE recipients (
//	    address    TEXT PRIMARY KEY,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Add(ctx context.Context, address string) error {
	address = Normalize(address)
	if err := ValidateAddress(address); err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `
		INSERT INTO recipients (address)
		VALUES ($1)
		ON CONFLICT (address) DO NOTHING
	`, address)
	if err != nil {
		return fmt.Errorf("failed to insert recipient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateAddress, address)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, address string) error {
	address = Normalize(address)
	tag, err := s.db.Exec(ctx, `DELETE FROM recipients WHERE address = $1`, address)
	if err != nil {
		return fmt.Errorf("failed to delete recipient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrAddressNotFound, address)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT address FROM recipients ORDER BY address`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	defer rows.Close()

	var addresses []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipients: %w", err)
	}
	return addresses, nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM recipients`); err != nil {
		return fmt.Errorf("failed to clear recipients: %w", err)
	}
	return nil
}
