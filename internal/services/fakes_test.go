package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	auditrepo "github.com/dmitrijs2005/gophnotes/internal/repositories/audit"
	notesrepo "github.com/dmitrijs2005/gophnotes/internal/repositories/notes"
	sessionsrepo "github.com/dmitrijs2005/gophnotes/internal/repositories/sessions"
	usersrepo "github.com/dmitrijs2005/gophnotes/internal/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fakeUsersRepo keeps users in a map keyed by username.
type fakeUsersRepo struct {
	users  map[string]*models.User
	nextID int64

	existsErr error
	createErr error
	authErr   error
	getErr    error
	deleteErr error

	lastPassword string
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*models.User{}, nextID: 1}
}

func (f *fakeUsersRepo) Exists(_ context.Context, name string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.users[name]
	return ok, nil
}

func (f *fakeUsersRepo) insert(name, hash string) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.users[name]; ok {
		return nil, common.ErrUsernameTaken
	}
	u := &models.User{ID: f.nextID, UserName: name, PasswordHash: hash}
	f.nextID++
	f.users[name] = u
	return u, nil
}

func (f *fakeUsersRepo) Create(_ context.Context, name, password string) (*models.User, error) {
	f.lastPassword = password
	return f.insert(name, "crypt:"+password)
}

func (f *fakeUsersRepo) CreateWithHash(_ context.Context, name, hash string) (*models.User, error) {
	return f.insert(name, hash)
}

func (f *fakeUsersRepo) Authenticate(_ context.Context, name, password string) (*models.User, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	u, ok := f.users[name]
	if !ok || u.PasswordHash != "crypt:"+password {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByUserName(_ context.Context, name string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) ValidatePassword(context.Context, string) (bool, error) {
	return true, nil
}

func (f *fakeUsersRepo) Delete(_ context.Context, name string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.users[name]; !ok {
		return common.ErrorNotFound
	}
	delete(f.users, name)
	return nil
}

type fakeNotesRepo struct {
	notes  map[int64]*models.Note
	nextID int64

	err error

	lastFilter models.NoteFilter
}

func newFakeNotesRepo() *fakeNotesRepo {
	return &fakeNotesRepo{notes: map[int64]*models.Note{}, nextID: 1}
}

func (f *fakeNotesRepo) Create(_ context.Context, n *models.Note) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	c := *n
	c.ID = f.nextID
	f.nextID++
	f.notes[c.ID] = &c
	return c.ID, nil
}

func (f *fakeNotesRepo) Update(_ context.Context, n *models.Note) error {
	if f.err != nil {
		return f.err
	}
	cur, ok := f.notes[n.ID]
	if !ok || cur.AuthorID != n.AuthorID {
		return common.ErrorNotFound
	}
	cur.Title, cur.Content = n.Title, n.Content
	return nil
}

func (f *fakeNotesRepo) Delete(_ context.Context, noteID, authorID int64) error {
	if f.err != nil {
		return f.err
	}
	cur, ok := f.notes[noteID]
	if !ok || cur.AuthorID != authorID {
		return common.ErrorNotFound
	}
	delete(f.notes, noteID)
	return nil
}

func (f *fakeNotesRepo) List(_ context.Context, filter models.NoteFilter) ([]models.NoteView, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.NoteView, 0)
	for id := int64(1); id < f.nextID; id++ {
		n, ok := f.notes[id]
		if !ok {
			continue
		}
		if filter.AuthorID != nil && n.AuthorID != *filter.AuthorID {
			continue
		}
		out = append(out, models.NoteView{Note: *n})
	}
	return out, nil
}

func (f *fakeNotesRepo) Get(_ context.Context, id int64) (*models.NoteView, error) {
	if f.err != nil {
		return nil, f.err
	}
	n, ok := f.notes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.NoteView{Note: *n}, nil
}

type fakeSessionsRepo struct {
	sessions map[string]int64

	lockErr   error
	existsErr error
	createErr error
	deleteErr error

	calls []string
}

func newFakeSessionsRepo() *fakeSessionsRepo {
	return &fakeSessionsRepo{sessions: map[string]int64{}}
}

func (f *fakeSessionsRepo) LockUser(context.Context, int64) error {
	f.calls = append(f.calls, "lock")
	return f.lockErr
}

func (f *fakeSessionsRepo) ExistsForUser(_ context.Context, userID int64) (bool, error) {
	f.calls = append(f.calls, "exists")
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, uid := range f.sessions {
		if uid == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSessionsRepo) Create(_ context.Context, sessionID string, userID int64) error {
	f.calls = append(f.calls, "create")
	if f.createErr != nil {
		return f.createErr
	}
	f.sessions[sessionID] = userID
	return nil
}

func (f *fakeSessionsRepo) Delete(_ context.Context, sessionID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.sessions[sessionID]; !ok {
		return common.ErrorNotFound
	}
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeSessionsRepo) DeleteByUser(_ context.Context, userID int64) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	var n int64
	for id, uid := range f.sessions {
		if uid == userID {
			delete(f.sessions, id)
			n++
		}
	}
	return n, nil
}

type fakeAuditRepo struct {
	last map[int64]*models.AuditRecord
	err  error
}

func (f *fakeAuditRepo) Last(_ context.Context, userID int64) (*models.AuditRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.last[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r, nil
}

// fakeRepoManager records which handle each repository was bound to.
type fakeRepoManager struct {
	u *fakeUsersRepo
	n *fakeNotesRepo
	s *fakeSessionsRepo
	a *fakeAuditRepo

	migrateErr error
	bound      []dbx.DBTX
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		n: newFakeNotesRepo(),
		s: newFakeSessionsRepo(),
		a: &fakeAuditRepo{last: map[int64]*models.AuditRecord{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return m.migrateErr }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository {
	m.bound = append(m.bound, db)
	return m.u
}

func (m *fakeRepoManager) Notes(db dbx.DBTX) notesrepo.Repository {
	m.bound = append(m.bound, db)
	return m.n
}

func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessionsrepo.Repository {
	m.bound = append(m.bound, db)
	return m.s
}

func (m *fakeRepoManager) Audit(db dbx.DBTX) auditrepo.Repository {
	m.bound = append(m.bound, db)
	return m.a
}

func (m *fakeRepoManager) boundToTx() bool {
	if len(m.bound) == 0 {
		return false
	}
	_, ok := m.bound[len(m.bound)-1].(*sql.Tx)
	return ok
}
