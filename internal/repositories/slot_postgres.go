package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	crdbpgx "github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgxv5"
	"github.com/jackc/pgx/v5"

	"github.com/vidfriends/webclient/internal/db"
	"github.com/vidfriends/webclient/internal/session"
)

// DefaultSlotName keys the token row when none is configured.
const DefaultSlotName = "default"

// PostgresTokenSlot persists the bearer token in a PostgreSQL (or CockroachDB) row.
type PostgresTokenSlot struct {
	pool db.Pool
	name string
}

// NewPostgresTokenSlot constructs a token slot stored under name.
func NewPostgresTokenSlot(pool db.Pool, name string) *PostgresTokenSlot {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultSlotName
	}
	return &PostgresTokenSlot{pool: pool, name: name}
}

// EnsureSchema creates the client_tokens table when missing.
func (s *PostgresTokenSlot) EnsureSchema(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS client_tokens (
                slot TEXT PRIMARY KEY,
                token TEXT NOT NULL,
                updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`); err != nil {
		return fmt.Errorf("ensure client_tokens table: %w", err)
	}
	return nil
}

// Load returns the stored token or session.ErrNoToken.
func (s *PostgresTokenSlot) Load(ctx context.Context) (string, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return "", fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var token string
	row := conn.QueryRow(ctx, `
        SELECT token
        FROM client_tokens
        WHERE slot = $1
    `, s.name)
	if err := row.Scan(&token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", session.ErrNoToken
		}
		return "", fmt.Errorf("select token: %w", err)
	}
	if token == "" {
		return "", session.ErrNoToken
	}
	return token, nil
}

// Save upserts the token, retrying serialization conflicts.
func (s *PostgresTokenSlot) Save(ctx context.Context, token string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	err = crdbpgx.ExecuteTx(ctx, conn, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
            INSERT INTO client_tokens (slot, token, updated_at)
            VALUES ($1, $2, NOW())
            ON CONFLICT (slot)
            DO UPDATE SET token = EXCLUDED.token, updated_at = EXCLUDED.updated_at
        `, s.name, token)
		return err
	})
	if err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

// Remove deletes the token row. A missing row is not an error.
func (s *PostgresTokenSlot) Remove(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        DELETE FROM client_tokens
        WHERE slot = $1
    `, s.name); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
