// Package services contains the business logic behind the data service.
// This file implements AccountService: registration, authentication and
// account lookups.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/config"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// AccountService owns the users table. Depending on the hashing mode the
// password hash is computed by pgcrypto or by bcrypt in-process; both
// produce bcrypt hashes, so either mode can verify rows written by the
// other.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hashing     string
	bcryptCost  int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAccountService constructs an AccountService using repositories and config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hashing:     cfg.PasswordHashing,
		bcryptCost:  bcrypt.DefaultCost,
	}
}

// UserExists reports whether a user with exactly this name is registered.
func (s *AccountService) UserExists(ctx context.Context, userName string) (bool, error) {
	return s.repomanager.Users(s.db).Exists(ctx, userName)
}

// Register creates a user inside a transaction. It does not apply the
// credential rules; callers validate first.
func (s *AccountService) Register(ctx context.Context, userName, password string) (*models.User, error) {
	var hash string
	switch s.hashing {
	case config.HashingPgcrypto:
	case config.HashingBcrypt:
		b, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		hash = string(b)
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownHashingMode, s.hashing)
	}

	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		var err error
		if hash == "" {
			user, err = repo.Create(ctx, userName, password)
		} else {
			user, err = repo.CreateWithHash(ctx, userName, hash)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user when the password matches. An unknown user
// and a wrong password both yield common.ErrorUnauthorized; any other error
// is an infrastructure failure.
func (s *AccountService) Authenticate(ctx context.Context, userName, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	if s.hashing != config.HashingBcrypt {
		user, err := repo.Authenticate(ctx, userName, password)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorUnauthorized
			}
			return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
		}
		return user, nil
	}

	user, err := repo.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Unknown users still pay for one comparison.
			_ = bcrypt.CompareHashAndPassword(s.getDummyHash(), []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// UserID resolves a username to its id, or common.ErrorNotFound.
func (s *AccountService) UserID(ctx context.Context, userName string) (int64, error) {
	user, err := s.repomanager.Users(s.db).GetByUserName(ctx, userName)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// PasswordHash returns the stored hash of userName.
func (s *AccountService) PasswordHash(ctx context.Context, userName string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByUserName(ctx, userName)
	if err != nil {
		return "", err
	}
	return user.PasswordHash, nil
}

// DeleteUser removes the account together with its notes and sessions.
func (s *AccountService) DeleteUser(ctx context.Context, userName string) error {
	return s.repomanager.Users(s.db).Delete(ctx, userName)
}

// --- helpers below ---

func (s *AccountService) getDummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("gophnotes-dummy-password"), s.bcryptCost)
	})
	return s.dummyHash
}
