package ledger

import "strings"

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// Sanitize escapes HTML special characters and trims the result.
func Sanitize(s string) string {
	return strings.TrimSpace(htmlReplacer.Replace(s))
}
