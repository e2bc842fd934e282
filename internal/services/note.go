package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/repomanager"
)

var newlineNormalizer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(s string) string {
	return newlineNormalizer.Replace(s)
}

// NoteService manages notes. Updates and deletes only touch notes owned by
// the acting user.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager) *NoteService {
	return &NoteService{db: db, repomanager: m}
}

func (s *NoteService) Create(ctx context.Context, authorID int64, title, content string) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, common.ErrEmptyTitle
	}
	note := &models.Note{AuthorID: authorID, Title: title, Content: NormalizeNewlines(content)}
	return s.repomanager.Notes(s.db).Create(ctx, note)
}

// Update rewrites a note of actingUserID. common.ErrorNotFound covers both
// a missing note and a note owned by someone else.
func (s *NoteService) Update(ctx context.Context, noteID, actingUserID int64, title, content string) error {
	if strings.TrimSpace(title) == "" {
		return common.ErrEmptyTitle
	}
	note := &models.Note{ID: noteID, AuthorID: actingUserID, Title: title, Content: NormalizeNewlines(content)}
	return s.repomanager.Notes(s.db).Update(ctx, note)
}

func (s *NoteService) Delete(ctx context.Context, noteID, actingUserID int64) error {
	return s.repomanager.Notes(s.db).Delete(ctx, noteID, actingUserID)
}

func (s *NoteService) List(ctx context.Context, filter models.NoteFilter) ([]models.NoteView, error) {
	return s.repomanager.Notes(s.db).List(ctx, filter)
}

func (s *NoteService) Get(ctx context.Context, noteID int64) (*models.NoteView, error) {
	return s.repomanager.Notes(s.db).Get(ctx, noteID)
}
