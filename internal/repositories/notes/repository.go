// Package notes provides the PostgreSQL-backed note repository: CRUD with
// author ownership and a filtered listing joined with author usernames.
package notes

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/models"
)

type Repository interface {
	Create(ctx context.Context, note *models.Note) (int64, error)
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, noteID, authorID int64) error
	List(ctx context.Context, filter models.NoteFilter) ([]models.NoteView, error)
	Get(ctx context.Context, noteID int64) (*models.NoteView, error)
}
