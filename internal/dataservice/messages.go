package dataservice

import (
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/common"
)

const (
	msgInvalidUsername = "Username must be 5 to 20 characters long and contain only Latin letters and digits."
	msgUsernameTaken   = "Username is already taken."
	msgConstraint      = "The database rejected the value."
	msgUnauthorized    = "Invalid username or password."
	msgAlreadyLoggedIn = "This user is already logged in."
	msgSessionNotFound = "Session not found."
	msgNoteNotFound    = "Note not found or you are not its author."
	msgUserNotFound    = "User not found."
	msgEmptyTitle      = "Title must not be empty."
	msgArchiveDisabled = "Export storage is not configured."
	msgExportNotFound  = "Export not found."
	msgUnavailable     = "Database is unavailable, try again later."
	msgValidationDown  = "Password could not be checked, try again later."
)

// messageFor renders err for the user. notFound is the wording for
// common.ErrorNotFound in the calling operation.
func messageFor(err error, notFound string) string {
	switch {
	case errors.Is(err, common.ErrInvalidUsername):
		return msgInvalidUsername
	case errors.Is(err, common.ErrUsernameTaken):
		return msgUsernameTaken
	case errors.Is(err, common.ErrConstraint):
		return msgConstraint
	case errors.Is(err, common.ErrorUnauthorized):
		return msgUnauthorized
	case errors.Is(err, common.ErrAlreadyLoggedIn):
		return msgAlreadyLoggedIn
	case errors.Is(err, common.ErrorNotFound):
		return notFound
	case errors.Is(err, common.ErrEmptyTitle):
		return msgEmptyTitle
	case errors.Is(err, common.ErrArchiveDisabled):
		return msgArchiveDisabled
	case errors.Is(err, common.ErrValidationUnavailable):
		return msgValidationDown
	default:
		return msgUnavailable
	}
}
