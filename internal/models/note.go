package models

import "time"

// Note is a row of the notes table. AuthorID is set at creation and never
// changed by updates.
type Note struct {
	ID            int64
	AuthorID      int64
	Title         string
	Content       string
	CreatedAt     time.Time
	LastChangedAt *time.Time
}

// NoteView is a note joined with its author's username.
type NoteView struct {
	Note
	AuthorName string
}

// NoteFilter narrows a note listing. A blank Search and a nil AuthorID
// mean "no restriction"; both combine with AND.
type NoteFilter struct {
	Search   string
	AuthorID *int64
}

// ByAuthor is a shorthand for a filter restricted to one author.
func ByAuthor(id int64) NoteFilter {
	return NoteFilter{AuthorID: &id}
}
