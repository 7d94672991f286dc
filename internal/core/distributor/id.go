package distributor

import (
	"regexp"
	"strings"
)

// GrammarHint describes the identifier grammar in error messages.
const GrammarHint = "only alphanumerics, '-', '_' and '.' are allowed"

var idPattern = regexp.MustCompile(`^[-_.a-zA-Z0-9]+$`)

// IsValidID reports whether id matches the distributor identifier grammar.
func IsValidID(id string) bool {
	return idPattern.MatchString(id)
}

// GenerateID derives a distributor ID from its type and a disambiguating suffix.
// Characters of the type outside the grammar are replaced with '_' so the result
// always satisfies IsValidID.
func GenerateID(typeID, suffix string) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		}
		return '_'
	}, typeID)
	if base == "" {
		base = "distributor"
	}
	return base + "_" + suffix
}
