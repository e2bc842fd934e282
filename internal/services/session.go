package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/config"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/repomanager"
	"github.com/google/uuid"
)

// SessionService records which client tokens are logged in.
type SessionService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	singleSession bool
}

// NewSessionService constructs a SessionService using repositories and config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{db: db, repomanager: m, singleSession: cfg.SingleSession}
}

// NewSessionID returns a fresh random session token.
func NewSessionID() string {
	return uuid.NewString()
}

// Create records a session for userID. With single-session enforcement the
// check and the insert run in one transaction under a per-user advisory
// lock, so two concurrent logins cannot both succeed; a user that already
// has a session gets common.ErrAlreadyLoggedIn.
func (s *SessionService) Create(ctx context.Context, sessionID string, userID int64) error {
	if !s.singleSession {
		return s.repomanager.Sessions(s.db).Create(ctx, sessionID, userID)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Sessions(tx)
		if err := repo.LockUser(ctx, userID); err != nil {
			return err
		}
		exists, err := repo.ExistsForUser(ctx, userID)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrAlreadyLoggedIn
		}
		return repo.Create(ctx, sessionID, userID)
	})
}

// Delete ends one session. common.ErrorNotFound means the token was not
// active.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	return s.repomanager.Sessions(s.db).Delete(ctx, sessionID)
}

// ClearUser ends every session of userID and returns how many ended.
func (s *SessionService) ClearUser(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repomanager.Sessions(s.db).DeleteByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("error clearing sessions: %w", err)
	}
	return n, nil
}
