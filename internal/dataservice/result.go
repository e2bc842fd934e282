package dataservice

import (
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// Result is the outcome of a mutating operation. Message is meant for the
// user; Err keeps the cause for errors.Is. ID carries the new note id, the
// authenticated user id or a count, depending on the operation.
type Result struct {
	Success bool
	Message string
	ID      int64
	Token   string
	Err     error
}

// declines are refusals caused by the request itself; everything else that
// fails is an infrastructure problem.
var declines = []error{
	common.ErrInvalidUsername,
	common.ErrInvalidPassword,
	common.ErrUsernameTaken,
	common.ErrConstraint,
	common.ErrorUnauthorized,
	common.ErrAlreadyLoggedIn,
	common.ErrorNotFound,
	common.ErrEmptyTitle,
	common.ErrArchiveDisabled,
}

func isDecline(err error) bool {
	for _, d := range declines {
		if errors.Is(err, d) {
			return true
		}
	}
	return false
}

// Declined reports a refusal that retrying will not change.
func (r Result) Declined() bool {
	return !r.Success && isDecline(r.Err)
}

// Transient reports a failure of the database or storage rather than of
// the request; the same call may succeed later.
func (r Result) Transient() bool {
	return !r.Success && r.Err != nil && !isDecline(r.Err)
}

func ok(msg string, id int64) Result {
	return Result{Success: true, Message: msg, ID: id}
}
