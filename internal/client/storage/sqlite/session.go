package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/fishlog/internal/client/storage"
)

// Compile-time check that Storage implements storage.SessionStorage
var _ storage.SessionStorage = (*Storage)(nil)

// SaveEntries stores all session entries in a single transaction
func (s *Storage) SaveEntries(ctx context.Context, entries *storage.Entries) error {
	if entries == nil {
		return fmt.Errorf("session entries are nil")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().Unix()
	for _, key := range storage.Keys() {
		value := entries.Value(key)
		if value == "" {
			if _, err := tx.ExecContext(ctx, `DELETE FROM session_entries WHERE key = ?`, key); err != nil {
				return fmt.Errorf("failed to delete %s: %w", key, err)
			}
			continue
		}

		query := `
			INSERT INTO session_entries (key, value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`
		if _, err := tx.ExecContext(ctx, query, key, value, now); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetEntries retrieves all session entries
func (s *Storage) GetEntries(ctx context.Context) (*storage.Entries, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM session_entries`)
	if err != nil {
		return nil, fmt.Errorf("failed to query session entries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := &storage.Entries{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan session entry: %w", err)
		}
		entries.Set(key, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session entries: %w", err)
	}

	return entries, nil
}

// GetToken retrieves the access token only
func (s *Storage) GetToken(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session_entries WHERE key = ?`, storage.KeyToken).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}
	return token, nil
}

// DeleteEntries removes all session entries (logout)
func (s *Storage) DeleteEntries(ctx context.Context) error {
	query := `DELETE FROM session_entries WHERE key IN (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, storage.KeyToken, storage.KeyRefreshToken, storage.KeyUser); err != nil {
		return fmt.Errorf("failed to delete session entries: %w", err)
	}
	return nil
}
