package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/models"
)

const selectView = `SELECT n.note_id, n.author_id, n.title, n.content, n.created_at, n.last_changed_at, u.username
		FROM notes n
		JOIN users u ON u.user_id = n.author_id`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostgresRepository implements note storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the note and returns its new id. CreatedAt is assigned by
// the database.
func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (int64, error) {
	query :=
		`INSERT INTO notes (author_id, title, content)
		 VALUES ($1, $2, $3)
		 RETURNING note_id
		 `

	var id int64
	if err := r.db.QueryRowContext(ctx, query, note.AuthorID, note.Title, note.Content).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

// Update rewrites title and content of a note owned by note.AuthorID and
// refreshes last_changed_at. common.ErrorNotFound is returned when no such
// note exists for that author.
func (r *PostgresRepository) Update(ctx context.Context, note *models.Note) error {
	query :=
		`UPDATE notes SET title = $1, content = $2, last_changed_at = CURRENT_TIMESTAMP
		 WHERE note_id = $3 AND author_id = $4
		 `

	res, err := r.db.ExecContext(ctx, query, note.Title, note.Content, note.ID, note.AuthorID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOne(res)
}

// Delete removes a note owned by authorID.
func (r *PostgresRepository) Delete(ctx context.Context, noteID, authorID int64) error {
	query :=
		`DELETE FROM notes
		 WHERE note_id = $1 AND author_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, noteID, authorID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// List returns notes matching filter ordered by note id. A non-blank
// search term is matched as given, case-insensitively, as a literal
// substring of the title or the author's username.
func (r *PostgresRepository) List(ctx context.Context, filter models.NoteFilter) ([]models.NoteView, error) {
	var (
		conds []string
		args  []any
	)

	if strings.TrimSpace(filter.Search) != "" {
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(filter.Search))+"%")
		p := len(args)
		conds = append(conds, fmt.Sprintf(`(LOWER(n.title) LIKE $%d ESCAPE '\' OR LOWER(u.username) LIKE $%d ESCAPE '\')`, p, p))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		conds = append(conds, fmt.Sprintf("n.author_id = $%d", len(args)))
	}

	query := selectView
	if len(conds) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\t\tORDER BY n.note_id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	result := make([]models.NoteView, 0)
	for rows.Next() {
		item, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, noteID int64) (*models.NoteView, error) {
	query := selectView + "\n\t\tWHERE n.note_id = $1"

	item, err := scanView(r.db.QueryRowContext(ctx, query, noteID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanView(s scanner) (*models.NoteView, error) {
	var (
		v       models.NoteView
		changed sql.NullTime
	)
	if err := s.Scan(&v.ID, &v.AuthorID, &v.Title, &v.Content, &v.CreatedAt, &changed, &v.AuthorName); err != nil {
		return nil, err
	}
	if changed.Valid {
		t := changed.Time
		v.LastChangedAt = &t
	}
	return &v, nil
}
