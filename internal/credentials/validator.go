package credentials

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// PasswordChecker decides whether a password satisfies the active policy.
// Implementations: Policy (in-process) and users.Repository (database).
type PasswordChecker interface {
	CheckPassword(ctx context.Context, password string) (bool, error)
}

// CheckerFunc adapts a function to PasswordChecker.
type CheckerFunc func(ctx context.Context, password string) (bool, error)

func (f CheckerFunc) CheckPassword(ctx context.Context, password string) (bool, error) {
	return f(ctx, password)
}

type Validator struct {
	checker PasswordChecker
}

func NewValidator(checker PasswordChecker) *Validator {
	return &Validator{checker: checker}
}

// ValidateUsername is a convenience wrapper over the package function.
func (v *Validator) ValidateUsername(name string) bool {
	return ValidateUsername(name)
}

// ValidatePassword asks the checker about password. A checker failure is
// reported as common.ErrValidationUnavailable, never as a weak password.
func (v *Validator) ValidatePassword(ctx context.Context, password string) (bool, error) {
	ok, err := v.checker.CheckPassword(ctx, password)
	if err != nil {
		return false, fmt.Errorf("%w: %w", common.ErrValidationUnavailable, err)
	}
	return ok, nil
}
