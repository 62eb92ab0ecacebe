package common

import (
	"strings"
	"unicode/utf8"
)

// RequiredText trims value and rejects it when empty or longer than max runes.
// A max of 0 disables the length check.
func RequiredText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", BadInput("%s es obligatorio.", field)
	}
	if max > 0 && utf8.RuneCountInString(value) > max {
		return "", BadInput("%s no puede exceder %d caracteres.", field, max)
	}
	return value, nil
}

// NullableText trims value and maps blank to nil.
func NullableText(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}

// NullableTextMax is NullableText with a rune limit.
func NullableTextMax(field string, value *string, max int) (*string, error) {
	v := NullableText(value)
	if v != nil && max > 0 && utf8.RuneCountInString(*v) > max {
		return nil, BadInput("%s no puede exceder %d caracteres.", field, max)
	}
	return v, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds an ILIKE pattern matching value as a literal substring.
func ContainsPattern(value string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(value)) + "%"
}
