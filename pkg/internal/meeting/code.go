package meeting

import (
	"strings"

	"github.com/samber/lo"
)

const (
	CodeLength   = 8
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var codeCharset = []rune(CodeAlphabet)

// Code is a shareable meeting code in canonical form: eight upper-case
// alphanumerics without separators.
type Code string

// Normalize drops everything outside [A-Za-z0-9] and upper-cases the rest.
func Normalize(input string) (Code, error) {
	var sb strings.Builder
	for _, ch := range input {
		switch {
		case ch >= 'a' && ch <= 'z':
			sb.WriteRune(ch - 'a' + 'A')
		case ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			sb.WriteRune(ch)
		}
	}

	if sb.Len() != CodeLength {
		return "", ErrInvalidLength
	}
	return Code(sb.String()), nil
}

// Format renders the display form XXXX-XXXX. Input that is not a canonical
// code is returned untouched.
func (c Code) Format() string {
	if len(c) != CodeLength {
		return string(c)
	}
	return string(c[:CodeLength/2]) + "-" + string(c[CodeLength/2:])
}

func (c Code) String() string {
	return string(c)
}

// Generate draws a fresh code. Codes are for display and sharing only, they
// are not secrets and their uniqueness is not checked.
func Generate() Code {
	return Code(lo.RandomString(CodeLength, codeCharset))
}
