package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/repomanager"
)

// AuditService exposes the trigger-maintained note audit trail.
type AuditService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAuditService(db *sql.DB, m repomanager.RepositoryManager) *AuditService {
	return &AuditService{db: db, repomanager: m}
}

// Last returns the newest audit record of userID or common.ErrorNotFound.
func (s *AuditService) Last(ctx context.Context, userID int64) (*models.AuditRecord, error) {
	return s.repomanager.Audit(s.db).Last(ctx, userID)
}
