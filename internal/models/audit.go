package models

import "time"

// AuditAction is the kind of note change recorded by the audit trigger.
type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditEdit   AuditAction = "EDIT"
	AuditDelete AuditAction = "DELETE"
)

// AuditRecord is a notes_audit row. Rows are written by a database trigger
// and are read-only for the application.
type AuditRecord struct {
	ID     int64
	NoteID int64
	UserID int64
	Action AuditAction
	Time   time.Time
}
