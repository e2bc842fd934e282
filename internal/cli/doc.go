// Package cli provides the interactive gophnotes command-line client.
//
// The REPL keeps only the logged-in username, user id and session token
// between commands. Every command opens its own data-service unit of work
// and closes it before returning, so no database connection outlives a
// command.
//
// Commands:
//   - register, login, clear (end stale sessions of an account)
//   - list, mine, search <term>, show <id>
//   - add, edit <id>, delete <id>
//   - audit, export, exports
//   - logout, help, exit
//
// Logout and exit always end the current session.
package cli
