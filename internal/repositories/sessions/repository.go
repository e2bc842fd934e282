package sessions

import (
	"context"
)

type Repository interface {
	LockUser(ctx context.Context, userID int64) error
	ExistsForUser(ctx context.Context, userID int64) (bool, error)
	Create(ctx context.Context, sessionID string, userID int64) error
	Delete(ctx context.Context, sessionID string) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}
