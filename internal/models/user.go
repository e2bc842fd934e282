// Package models defines the rows gophnotes reads and writes. The service
// keeps no in-memory model beyond the duration of one call.
package models

// User is a registered account. PasswordHash is opaque; it is produced by
// pgcrypto crypt() or by bcrypt and both formats are interchangeable.
type User struct {
	ID           int64
	UserName     string
	PasswordHash string
}
