// Package audit reads the notes_audit trail written by the database
// trigger. The application never writes audit rows itself.
package audit

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/models"
)

type Repository interface {
	Last(ctx context.Context, userID int64) (*models.AuditRecord, error)
}
