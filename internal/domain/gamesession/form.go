package gamesession

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	FormFieldName     = "name"
	FormFieldWhatsApp = "whatsapp"

	minNameLength = 2
)

var phoneRegex = regexp.MustCompile(`^[\+]?[1-9][\d]{0,15}$`)

// ValidateLeadForm returns a message per invalid field, it is empty when the
// form is valid.
func ValidateLeadForm(name, whatsapp string) map[string]string {
	errs := map[string]string{}

	if utf8.RuneCountInString(strings.TrimSpace(name)) < minNameLength {
		errs[FormFieldName] = "Name must be at least 2 characters long"
	}

	if !phoneRegex.MatchString(removeSpaces(whatsapp)) {
		errs[FormFieldWhatsApp] = "Please enter a valid WhatsApp number"
	}

	return errs
}

func removeSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
