package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	ClearSessions(ctx context.Context) error
	List(ctx context.Context) error
	Mine(ctx context.Context) error
	Search(ctx context.Context, term string) error
	Show(ctx context.Context, id string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Audit(ctx context.Context) error
	Export(ctx context.Context) error
	Exports(ctx context.Context) error
	ShowExport(ctx context.Context, key string) error
	PruneExport(ctx context.Context, key string) error
	Logout(ctx context.Context) error
}

const (
	helpGuest    = "Available commands: register, login, clear, list, search <term>, show <id>, exit"
	helpLoggedIn = "Available commands: (l)ist, mine, search <term>, show <id>, add, edit <id>, delete <id>, audit, export, exports, exported <key>, prune <key>, logout, exit"
)

// loggedInOnly lists commands that need a session.
var loggedInOnly = map[string]bool{
	"mine": true, "add": true, "edit": true, "delete": true,
	"audit": true, "export": true, "exports": true, "exported": true,
	"prune": true, "logout": true,
}

// runREPL reads commands from reader until EOF or "exit"/"quit" and
// dispatches them to a. Handlers prompt for their own input through the
// same reader. The first token is the command; the rest of the
// line is its argument. Handler errors are ignored here; handlers report
// to the user themselves. A session still open when the loop ends is
// logged out.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	defer func() {
		if a.isLoggedIn() {
			_ = a.Logout(ctx)
		}
	}()

	for {
		printlnFn(fmt.Sprintf("notes> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)
		if cmd == "" {
			continue
		}

		if loggedInOnly[cmd] && !a.isLoggedIn() {
			printlnFn("Please log in first.")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "clear":
			_ = a.ClearSessions(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "mine":
			_ = a.Mine(ctx)

		case "search":
			_ = a.Search(ctx, arg)

		case "show":
			_ = a.Show(ctx, arg)

		case "add":
			_ = a.Add(ctx)

		case "edit":
			_ = a.Edit(ctx, arg)

		case "delete":
			_ = a.Delete(ctx, arg)

		case "audit":
			_ = a.Audit(ctx)

		case "export":
			_ = a.Export(ctx)

		case "exports":
			_ = a.Exports(ctx)

		case "exported":
			_ = a.ShowExport(ctx, arg)

		case "prune":
			_ = a.PruneExport(ctx, arg)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
