package common

// Username length bounds enforced by the credential validator and by the
// users.username CHECK constraint.
const (
	UsernameMinLength = 5
	UsernameMaxLength = 20
)

// DriverName is the database/sql driver registered by pgx/v5/stdlib.
const DriverName = "pgx"
