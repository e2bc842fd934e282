// Package dataservice is the boundary between the presentation layer and
// the database. A Service is one unit of work: it owns a single connection
// from Open until Close and is not safe for concurrent use.
//
// Mutating operations never return errors; they fold every outcome into a
// Result and log declines at Warn and infrastructure failures at Error.
package dataservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/archive"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/config"
	"github.com/dmitrijs2005/gophnotes/internal/credentials"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/models"
	"github.com/dmitrijs2005/gophnotes/internal/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/services"
)

// Options configures New.
type Options struct {
	Config *config.Config
	Logger logging.Logger
	// Store receives note exports; nil disables ExportNotes.
	Store archive.ObjectStore
}

type Service struct {
	conn      *dbx.Conn
	log       logging.Logger
	validator *credentials.Validator
	accounts  *services.AccountService
	sessions  *services.SessionService
	notes     *services.NoteService
	audit     *services.AuditService
	exporter  *archive.Exporter
}

// New builds a Service around an open connection. The Service takes
// ownership of conn.
func New(conn *dbx.Conn, rm repomanager.RepositoryManager, opts Options) (*Service, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
		cfg.LoadDefaults()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	db := conn.DB()

	var checker credentials.PasswordChecker
	switch cfg.PasswordCheck {
	case config.CheckDatabase:
		checker = credentials.CheckerFunc(rm.Users(db).ValidatePassword)
	case config.CheckLocal:
		checker = credentials.PolicyV1
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownPasswordChecker, cfg.PasswordCheck)
	}

	s := &Service{
		conn:      conn,
		log:       log.With("component", "dataservice"),
		validator: credentials.NewValidator(checker),
		accounts:  services.NewAccountService(db, rm, cfg),
		sessions:  services.NewSessionService(db, rm, cfg),
		notes:     services.NewNoteService(db, rm),
		audit:     services.NewAuditService(db, rm),
	}
	if opts.Store != nil {
		s.exporter = archive.NewExporter(s.notes, opts.Store)
	}
	return s, nil
}

// Close releases the connection. It is safe to call more than once.
func (s *Service) Close() error {
	return s.conn.Close()
}

// fold turns err into a failed Result and logs it.
func (s *Service) fold(ctx context.Context, op string, err error, notFound string, args ...any) Result {
	args = append(args, "op", op, "error", err)
	if isDecline(err) {
		s.log.Warn(ctx, "operation declined", args...)
	} else {
		s.log.Error(ctx, "operation failed", args...)
	}
	return Result{Message: messageFor(err, notFound), Err: err}
}

// --- credentials ---

func (s *Service) ValidateUsername(name string) bool {
	return s.validator.ValidateUsername(name)
}

// ValidatePassword reports whether password satisfies the active policy.
// The error wraps common.ErrValidationUnavailable when the check could not
// run.
func (s *Service) ValidatePassword(ctx context.Context, password string) (bool, error) {
	ok, err := s.validator.ValidatePassword(ctx, password)
	if err != nil {
		s.log.Error(ctx, "password validation failed", "error", err)
	}
	return ok, err
}

// PasswordPolicy describes the password rules for prompts.
func (s *Service) PasswordPolicy() string {
	return credentials.PolicyV1.Description()
}

// --- accounts ---

func (s *Service) UserExists(ctx context.Context, userName string) (bool, error) {
	exists, err := s.accounts.UserExists(ctx, userName)
	if err != nil {
		s.log.Error(ctx, "user lookup failed", "username", userName, "error", err)
	}
	return exists, err
}

// UserID resolves userName; common.ErrorNotFound when there is no such user.
func (s *Service) UserID(ctx context.Context, userName string) (int64, error) {
	id, err := s.accounts.UserID(ctx, userName)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.log.Error(ctx, "user id lookup failed", "username", userName, "error", err)
	}
	return id, err
}

// PasswordHash returns the stored hash of userName.
func (s *Service) PasswordHash(ctx context.Context, userName string) (string, error) {
	return s.accounts.PasswordHash(ctx, userName)
}

// Register validates the credentials and creates the account. The checks
// run in order: username shape, existence, password policy.
func (s *Service) Register(ctx context.Context, userName, password string) Result {
	const op = "register"

	if !s.validator.ValidateUsername(userName) {
		return s.fold(ctx, op, common.ErrInvalidUsername, msgUserNotFound, "username", userName)
	}

	exists, err := s.accounts.UserExists(ctx, userName)
	if err != nil {
		return s.fold(ctx, op, err, msgUserNotFound, "username", userName)
	}
	if exists {
		return s.fold(ctx, op, common.ErrUsernameTaken, msgUserNotFound, "username", userName)
	}

	valid, err := s.validator.ValidatePassword(ctx, password)
	if err != nil {
		return s.fold(ctx, op, err, msgUserNotFound, "username", userName)
	}
	if !valid {
		res := s.fold(ctx, op, common.ErrInvalidPassword, msgUserNotFound, "username", userName)
		res.Message = credentials.PolicyV1.Description()
		return res
	}

	return s.RegisterUnchecked(ctx, userName, password)
}

// RegisterUnchecked creates the account without applying the credential
// rules. The schema still rejects malformed usernames.
func (s *Service) RegisterUnchecked(ctx context.Context, userName, password string) Result {
	user, err := s.accounts.Register(ctx, userName, password)
	if err != nil {
		return s.fold(ctx, "register", err, msgUserNotFound, "username", userName)
	}
	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return ok("Registration successful.", user.ID)
}

// Authenticate checks the credentials; Result.ID is the user id on success.
func (s *Service) Authenticate(ctx context.Context, userName, password string) Result {
	user, err := s.accounts.Authenticate(ctx, userName, password)
	if err != nil {
		return s.fold(ctx, "authenticate", err, msgUnauthorized, "username", userName)
	}
	return ok("Authenticated.", user.ID)
}

// Login authenticates and opens a session with a fresh token, returned in
// Result.Token.
func (s *Service) Login(ctx context.Context, userName, password string) Result {
	auth := s.Authenticate(ctx, userName, password)
	if !auth.Success {
		return auth
	}

	token := services.NewSessionID()
	res := s.CreateSession(ctx, token, auth.ID)
	if !res.Success {
		return res
	}
	res.Message = "Login successful."
	res.Token = token
	return res
}

// DeleteUser removes the account and, by cascade, its notes and sessions.
func (s *Service) DeleteUser(ctx context.Context, userName string) Result {
	if err := s.accounts.DeleteUser(ctx, userName); err != nil {
		return s.fold(ctx, "delete_user", err, msgUserNotFound, "username", userName)
	}
	return ok("User deleted.", 0)
}

// --- sessions ---

func (s *Service) CreateSession(ctx context.Context, sessionID string, userID int64) Result {
	if err := s.sessions.Create(ctx, sessionID, userID); err != nil {
		return s.fold(ctx, "create_session", err, msgSessionNotFound, "user_id", userID)
	}
	return ok("Session created.", userID)
}

// Logout deletes the session. A missing session is a failed Result that
// callers may ignore.
func (s *Service) Logout(ctx context.Context, sessionID string) Result {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return s.fold(ctx, "logout", err, msgSessionNotFound)
	}
	return ok("Logged out.", 0)
}

// ClearSessions ends every session of userID; Result.ID is the count.
func (s *Service) ClearSessions(ctx context.Context, userID int64) Result {
	n, err := s.sessions.ClearUser(ctx, userID)
	if err != nil {
		return s.fold(ctx, "clear_sessions", err, msgSessionNotFound, "user_id", userID)
	}
	return ok(fmt.Sprintf("%d session(s) cleared.", n), n)
}

// --- notes ---

// CreateNote stores a note; Result.ID is the new note id.
func (s *Service) CreateNote(ctx context.Context, authorID int64, title, content string) Result {
	id, err := s.notes.Create(ctx, authorID, title, content)
	if err != nil {
		return s.fold(ctx, "create_note", err, msgNoteNotFound, "author_id", authorID)
	}
	return ok("Note created.", id)
}

// UpdateNote rewrites a note of actingUserID.
func (s *Service) UpdateNote(ctx context.Context, noteID, actingUserID int64, title, content string) Result {
	if err := s.notes.Update(ctx, noteID, actingUserID, title, content); err != nil {
		return s.fold(ctx, "update_note", err, msgNoteNotFound, "note_id", noteID, "user_id", actingUserID)
	}
	return ok("Note updated.", noteID)
}

// SaveNote creates the note when noteID is zero and updates it otherwise.
func (s *Service) SaveNote(ctx context.Context, noteID, actingUserID int64, title, content string) Result {
	if noteID == 0 {
		return s.CreateNote(ctx, actingUserID, title, content)
	}
	return s.UpdateNote(ctx, noteID, actingUserID, title, content)
}

func (s *Service) DeleteNote(ctx context.Context, noteID, actingUserID int64) Result {
	if err := s.notes.Delete(ctx, noteID, actingUserID); err != nil {
		return s.fold(ctx, "delete_note", err, msgNoteNotFound, "note_id", noteID, "user_id", actingUserID)
	}
	return ok("Note deleted.", noteID)
}

// Notes lists notes matching filter. An empty result is a non-nil empty
// slice; a nil slice always comes with an error.
func (s *Service) Notes(ctx context.Context, filter models.NoteFilter) ([]models.NoteView, error) {
	views, err := s.notes.List(ctx, filter)
	if err != nil {
		s.log.Error(ctx, "note listing failed", "search", filter.Search, "error", err)
		return nil, err
	}
	return views, nil
}

// Note returns one note, or common.ErrorNotFound.
func (s *Service) Note(ctx context.Context, noteID int64) (*models.NoteView, error) {
	v, err := s.notes.Get(ctx, noteID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.log.Error(ctx, "note lookup failed", "note_id", noteID, "error", err)
	}
	return v, err
}

// --- audit ---

// LastAudit returns the newest audit record of userID, or
// common.ErrorNotFound when the user never changed a note.
func (s *Service) LastAudit(ctx context.Context, userID int64) (*models.AuditRecord, error) {
	rec, err := s.audit.Last(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.log.Error(ctx, "audit lookup failed", "user_id", userID, "error", err)
	}
	return rec, err
}

// --- archive ---

// ExportNotes writes the notes of userID to the archive; Result.Message is
// the object key.
func (s *Service) ExportNotes(ctx context.Context, userID int64) Result {
	if s.exporter == nil {
		return s.fold(ctx, "export", common.ErrArchiveDisabled, msgNoteNotFound, "user_id", userID)
	}
	key, err := s.exporter.Export(ctx, userID)
	if err != nil {
		return s.fold(ctx, "export", err, msgNoteNotFound, "user_id", userID)
	}
	s.log.Info(ctx, "notes exported", "user_id", userID, "key", key)
	return ok(key, userID)
}

// Exports lists the object keys of previous exports of userID.
func (s *Service) Exports(ctx context.Context, userID int64) ([]string, error) {
	if s.exporter == nil {
		return nil, common.ErrArchiveDisabled
	}
	return s.exporter.List(ctx, userID)
}

// Export reads back one export of userID; common.ErrorNotFound when the key
// does not exist or belongs to another user.
func (s *Service) Export(ctx context.Context, userID int64, key string) (*archive.Document, error) {
	if s.exporter == nil {
		return nil, common.ErrArchiveDisabled
	}
	doc, err := s.exporter.Load(ctx, userID, key)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.log.Error(ctx, "export lookup failed", "user_id", userID, "key", key, "error", err)
	}
	return doc, err
}

// DeleteExport removes one export of userID.
func (s *Service) DeleteExport(ctx context.Context, userID int64, key string) Result {
	if s.exporter == nil {
		return s.fold(ctx, "delete_export", common.ErrArchiveDisabled, msgExportNotFound, "user_id", userID)
	}
	if err := s.exporter.Remove(ctx, userID, key); err != nil {
		return s.fold(ctx, "delete_export", err, msgExportNotFound, "user_id", userID, "key", key)
	}
	s.log.Info(ctx, "export deleted", "user_id", userID, "key", key)
	return ok("Export deleted.", userID)
}
