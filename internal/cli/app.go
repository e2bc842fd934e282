package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophnotes/internal/archive"
	"github.com/dmitrijs2005/gophnotes/internal/dataservice"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/models"
)

// DataService is the part of *dataservice.Service the client uses.
type DataService interface {
	Close() error
	PasswordPolicy() string
	Register(ctx context.Context, userName, password string) dataservice.Result
	Authenticate(ctx context.Context, userName, password string) dataservice.Result
	Login(ctx context.Context, userName, password string) dataservice.Result
	Logout(ctx context.Context, sessionID string) dataservice.Result
	ClearSessions(ctx context.Context, userID int64) dataservice.Result
	Notes(ctx context.Context, filter models.NoteFilter) ([]models.NoteView, error)
	Note(ctx context.Context, noteID int64) (*models.NoteView, error)
	SaveNote(ctx context.Context, noteID, actingUserID int64, title, content string) dataservice.Result
	DeleteNote(ctx context.Context, noteID, actingUserID int64) dataservice.Result
	LastAudit(ctx context.Context, userID int64) (*models.AuditRecord, error)
	ExportNotes(ctx context.Context, userID int64) dataservice.Result
	Exports(ctx context.Context, userID int64) ([]string, error)
	Export(ctx context.Context, userID int64, key string) (*archive.Document, error)
	DeleteExport(ctx context.Context, userID int64, key string) dataservice.Result
}

// Opener starts a new unit of work.
type Opener func(ctx context.Context) (DataService, error)

// FromFactory adapts a dataservice.Factory to an Opener.
func FromFactory(f *dataservice.Factory) Opener {
	return func(ctx context.Context) (DataService, error) {
		s, err := f.Open(ctx)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

type App struct {
	open   Opener
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer

	userName string
	userID   int64
	token    string
}

func NewApp(open Opener, log logging.Logger) *App {
	if log == nil {
		log = logging.Discard()
	}
	return &App{open: open, log: log, reader: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// Run starts the REPL on stdin and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to gophnotes. Type 'help' for commands.")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "guest"
	}
	return a.userName
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// withService opens a unit of work for one command and always closes it.
func (a *App) withService(ctx context.Context, fn func(s DataService) error) error {
	s, err := a.open(ctx)
	if err != nil {
		a.log.Debug(ctx, "open failed", "error", err)
		a.println("Database is unavailable, try again later.")
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			a.log.Warn(ctx, "close failed", "error", err)
		}
	}()
	return fn(s)
}

// report prints the result message and converts a failure to an error.
func (a *App) report(res dataservice.Result) error {
	a.println(res.Message)
	if !res.Success {
		if res.Err != nil {
			return res.Err
		}
		return errors.New(res.Message)
	}
	return nil
}

func (a *App) readCredentials() (string, []byte, error) {
	userName, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

func printNotes(w io.Writer, notes []models.NoteView) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notes found.")
		return
	}
	for _, n := range notes {
		fmt.Fprintf(w, "#%-5d %-30s by %-20s %s\n", n.ID, n.Title, n.AuthorName, n.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func printNote(w io.Writer, n *models.NoteView) {
	fmt.Fprintf(w, "#%d %s\n", n.ID, n.Title)
	fmt.Fprintf(w, "Author: %s\n", n.AuthorName)
	fmt.Fprintf(w, "Created: %s\n", n.CreatedAt.Format("2006-01-02 15:04:05"))
	if n.LastChangedAt != nil {
		fmt.Fprintf(w, "Changed: %s\n", n.LastChangedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, n.Content)
}
