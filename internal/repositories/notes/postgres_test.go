package notes

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/google/go-cmp/cmp"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var viewColumns = []string{"note_id", "author_id", "title", "content", "created_at", "last_changed_at", "username"}

const (
	qInsert = `(?s)^INSERT\s+INTO\s+notes\s*\(author_id,\s*title,\s*content\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+note_id\s*$`
	qUpdate = `(?s)^UPDATE\s+notes\s+SET\s+title\s*=\s*\$1,\s*content\s*=\s*\$2,\s*last_changed_at\s*=\s*CURRENT_TIMESTAMP\s+WHERE\s+note_id\s*=\s*\$3\s+AND\s+author_id\s*=\s*\$4\s*$`
	qDelete = `(?s)^DELETE\s+FROM\s+notes\s+WHERE\s+note_id\s*=\s*\$1\s+AND\s+author_id\s*=\s*\$2\s*$`
	qSelect = `(?s)^SELECT\s+n\.note_id,\s*n\.author_id,\s*n\.title,\s*n\.content,\s*n\.created_at,\s*n\.last_changed_at,\s*u\.username\s+FROM\s+notes\s+n\s+JOIN\s+users\s+u\s+ON\s+u\.user_id\s*=\s*n\.author_id`
)

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qInsert).WithArgs(int64(1), "title", "body").
		WillReturnRows(sqlmock.NewRows([]string{"note_id"}).AddRow(int64(10)))
	mock.ExpectQuery(qInsert).WithArgs(int64(1), "title", "body").
		WillReturnError(errors.New("db down"))

	id, err := repo.Create(context.Background(), &models.Note{AuthorID: 1, Title: "title", Content: "body"})
	if err != nil || id != 10 {
		t.Fatalf("Create = %d, %v", id, err)
	}

	_, err = repo.Create(context.Background(), &models.Note{AuthorID: 1, Title: "title", Content: "body"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpdate_RowsAffected(t *testing.T) {
	tests := []struct {
		name    string
		result  sql.Result
		execErr error
		wantErr error
		anyErr  bool
	}{
		{name: "one row", result: sqlmock.NewResult(0, 1)},
		{name: "not owned or missing", result: sqlmock.NewResult(0, 0), wantErr: common.ErrorNotFound},
		{name: "exec error", execErr: errors.New("db err"), anyErr: true},
		{name: "rows affected error", result: sqlmock.NewErrorResult(errors.New("ra")), anyErr: true},
		{name: "more than one", result: sqlmock.NewResult(0, 2), anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			exp := mock.ExpectExec(qUpdate).WithArgs("t", "c", int64(5), int64(2))
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(tt.result)
			}

			err := repo.Update(context.Background(), &models.Note{ID: 5, AuthorID: 2, Title: "t", Content: "c"})
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
			case tt.anyErr:
				if err == nil {
					t.Fatal("expected error")
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(qDelete).WithArgs(int64(5), int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qDelete).WithArgs(int64(5), int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 5, 2); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := repo.Delete(context.Background(), 5, 3); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestList_NoFilter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	changed := created.Add(time.Hour)
	rows := sqlmock.NewRows(viewColumns).
		AddRow(int64(1), int64(1), "first", "a", created, nil, "alice").
		AddRow(int64(2), int64(2), "second", "b", created, changed, "bobby")

	mock.ExpectQuery(qSelect + `\s+ORDER\s+BY\s+n\.note_id$`).WillReturnRows(rows)

	got, err := repo.List(context.Background(), models.NoteFilter{Search: "   "})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}

	want := []models.NoteView{
		{Note: models.Note{ID: 1, AuthorID: 1, Title: "first", Content: "a", CreatedAt: created}, AuthorName: "alice"},
		{Note: models.Note{ID: 2, AuthorID: 2, Title: "second", Content: "b", CreatedAt: created, LastChangedAt: &changed}, AuthorName: "bobby"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestList_SearchAndAuthor(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := qSelect + `\s+WHERE\s+\(LOWER\(n\.title\)\s+LIKE\s+\$1\s+ESCAPE\s+'\\'\s+OR\s+LOWER\(u\.username\)\s+LIKE\s+\$1\s+ESCAPE\s+'\\'\)\s+AND\s+n\.author_id\s*=\s*\$2\s+ORDER\s+BY\s+n\.note_id$`
	mock.ExpectQuery(q).WithArgs(`% 50\%\_off %`, int64(7)).WillReturnRows(sqlmock.NewRows(viewColumns))

	author := int64(7)
	got, err := repo.List(context.Background(), models.NoteFilter{Search: " 50%_OFF ", AuthorID: &author})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestList_AuthorOnly(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qSelect+`\s+WHERE\s+n\.author_id\s*=\s*\$1\s+ORDER\s+BY\s+n\.note_id$`).
		WithArgs(int64(3)).WillReturnRows(sqlmock.NewRows(viewColumns))

	if _, err := repo.List(context.Background(), models.ByAuthor(3)); err != nil {
		t.Fatalf("List error: %v", err)
	}
}

func TestList_Errors(t *testing.T) {
	t.Run("query", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectQuery(qSelect).WillReturnError(errors.New("boom"))
		if _, err := repo.List(context.Background(), models.NoteFilter{}); err == nil {
			t.Fatal("expected error")
		}
	})
	t.Run("scan", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectQuery(qSelect).WillReturnRows(sqlmock.NewRows([]string{"note_id"}).AddRow(int64(1)))
		if _, err := repo.List(context.Background(), models.NoteFilter{}); err == nil {
			t.Fatal("expected scan error")
		}
	})
	t.Run("rows", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		rows := sqlmock.NewRows(viewColumns).
			AddRow(int64(1), int64(1), "t", "c", time.Now(), nil, "alice").
			RowError(0, errors.New("row err"))
		mock.ExpectQuery(qSelect).WillReturnRows(rows)
		if _, err := repo.List(context.Background(), models.NoteFilter{}); err == nil {
			t.Fatal("expected rows error")
		}
	})
}

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := qSelect + `\s+WHERE\s+n\.note_id\s*=\s*\$1$`
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(q).WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(viewColumns).AddRow(int64(4), int64(1), "t", "c", created, nil, "alice"))
	mock.ExpectQuery(q).WithArgs(int64(5)).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(q).WithArgs(int64(6)).WillReturnError(errors.New("db err"))

	got, err := repo.Get(context.Background(), 4)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != 4 || got.AuthorName != "alice" || got.LastChangedAt != nil {
		t.Fatalf("unexpected note: %+v", got)
	}

	if _, err := repo.Get(context.Background(), 5); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
	if _, err := repo.Get(context.Background(), 6); err == nil || errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want db error, got %v", err)
	}
}
