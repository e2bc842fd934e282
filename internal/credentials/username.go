package credentials

import "github.com/dmitrijs2005/gophnotes/internal/common"

// ValidateUsername reports whether name is 5 to 20 ASCII letters or digits.
func ValidateUsername(name string) bool {
	if len(name) < common.UsernameMinLength || len(name) > common.UsernameMaxLength {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isASCIIAlnum(name[i]) {
			return false
		}
	}
	return true
}

func isASCIIAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
