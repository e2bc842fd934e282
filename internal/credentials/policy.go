package credentials

import (
	"context"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Violation names a rule a password failed.
type Violation string

const (
	TooShort       Violation = "too_short"
	MissingUpper   Violation = "missing_upper"
	MissingLower   Violation = "missing_lower"
	MissingDigit   Violation = "missing_digit"
	MissingSpecial Violation = "missing_special"
)

// Policy is a versioned set of password rules.
type Policy struct {
	Version        int
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireDigit   bool
	RequireSpecial bool
}

// PolicyV1 matches the validate_password() function installed by the
// migrations.
var PolicyV1 = Policy{
	Version:        1,
	MinLength:      8,
	RequireUpper:   true,
	RequireLower:   true,
	RequireDigit:   true,
	RequireSpecial: true,
}

// Description is the human readable form shown when a password is refused.
func (p Policy) Description() string {
	return fmt.Sprintf("Password must be at least %d characters long and contain upper and lower case letters, digits and special characters.", p.MinLength)
}

// Check returns every rule password violates, in a stable order. An empty
// result means the password is acceptable.
func (p Policy) Check(password string) []Violation {
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case 'A' <= r && r <= 'Z':
			upper = true
		case 'a' <= r && r <= 'z':
			lower = true
		case '0' <= r && r <= '9':
			digit = true
		case !unicode.IsSpace(r):
			special = true
		}
	}

	var v []Violation
	if utf8.RuneCountInString(password) < p.MinLength {
		v = append(v, TooShort)
	}
	if p.RequireUpper && !upper {
		v = append(v, MissingUpper)
	}
	if p.RequireLower && !lower {
		v = append(v, MissingLower)
	}
	if p.RequireDigit && !digit {
		v = append(v, MissingDigit)
	}
	if p.RequireSpecial && !special {
		v = append(v, MissingSpecial)
	}
	return v
}

// CheckPassword implements PasswordChecker. It never fails.
func (p Policy) CheckPassword(_ context.Context, password string) (bool, error) {
	return len(p.Check(password)) == 0, nil
}
