package validator

import (
	"net/mail"
	"regexp"
	"strings"
)

var numericStringRegex = regexp.MustCompile(`^[0-9]+$`)

// ValidEmail validates that a string is a parseable email address with a
// dotted domain, which is what typical web signup forms expect.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}

			addr, err := mail.ParseAddress(value)
			if err != nil {
				return false
			}

			parts := strings.Split(addr.Address, "@")
			if len(parts) != 2 || parts[0] == "" {
				return false
			}

			domain := parts[1]
			return strings.Contains(domain, ".") &&
				!strings.HasPrefix(domain, ".") &&
				!strings.HasSuffix(domain, ".")
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid email address",
		},
	}
}

// NumericString validates that a string contains only ASCII digits.
func NumericString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return numericStringRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: "must contain only digits",
		},
	}
}
