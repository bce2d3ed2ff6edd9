package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/skill-swap/internal/domain"
)

// sessionStore implements domain.SessionStore as a key/BLOB table.
type sessionStore struct {
	db *sql.DB
}

func (s *sessionStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM session_cells WHERE key = ?", key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session cell: %w", err)
	}
	return value, nil
}

func (s *sessionStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_cells (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set session cell: %w", err)
	}
	return nil
}

func (s *sessionStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session_cells WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("delete session cell: %w", err)
	}
	return nil
}
