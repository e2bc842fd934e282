package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Last returns the most recent audit row of userID. Rows written within the
// same clock tick are ordered by audit_id.
func (r *PostgresRepository) Last(ctx context.Context, userID int64) (*models.AuditRecord, error) {
	query := `
		SELECT audit_id, note_id, user_id, action, time
		FROM notes_audit
		WHERE user_id = $1
		ORDER BY time DESC, audit_id DESC
		LIMIT 1
	`
	rec := &models.AuditRecord{}
	var action string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&rec.ID, &rec.NoteID, &rec.UserID, &action, &rec.Time)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	rec.Action = models.AuditAction(action)
	return rec, nil
}
