// Package migrations embeds the goose SQL migrations that create the
// gophnotes schema: tables, the password policy function and the audit
// trigger.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
