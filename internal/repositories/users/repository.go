// Package users stores accounts in the users table. Password hashes are
// either computed by pgcrypto inside the INSERT or supplied by the caller.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/models"
)

type Repository interface {
	Exists(ctx context.Context, userName string) (bool, error)
	Create(ctx context.Context, userName, password string) (*models.User, error)
	CreateWithHash(ctx context.Context, userName, hash string) (*models.User, error)
	Authenticate(ctx context.Context, userName, password string) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	ValidatePassword(ctx context.Context, password string) (bool, error)
	Delete(ctx context.Context, userName string) error
}
