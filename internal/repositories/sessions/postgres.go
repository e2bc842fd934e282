// Package sessions provides a PostgreSQL-backed repository for the
// active_sessions table, one row per logged-in client token.
package sessions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
)

// PostgresRepository implements session bookkeeping over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// LockUser takes a transaction-scoped advisory lock keyed by userID. It
// only serializes anything when the repository is bound to a *sql.Tx.
func (r *PostgresRepository) LockUser(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ExistsForUser reports whether userID has at least one active session.
func (r *PostgresRepository) ExistsForUser(ctx context.Context, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM active_sessions WHERE user_id = $1)
	`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

// Create records a session with the current server time as login time.
func (r *PostgresRepository) Create(ctx context.Context, sessionID string, userID int64) error {
	query := `
		INSERT INTO active_sessions (session_id, user_id, login_time)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
	`
	if _, err := r.db.ExecContext(ctx, query, sessionID, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes a session by token, returning common.ErrorNotFound unless
// exactly one row was removed.
func (r *PostgresRepository) Delete(ctx context.Context, sessionID string) error {
	query := `
		DELETE FROM active_sessions
		WHERE session_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return common.ErrorNotFound
	}
	return nil
}

// DeleteByUser removes every session of userID and returns how many were
// removed.
func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	query := `
		DELETE FROM active_sessions
		WHERE user_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
