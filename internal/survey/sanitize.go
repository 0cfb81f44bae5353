package survey

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var descriptionPolicy = bluemonday.UGCPolicy()

var plainPolicy = bluemonday.StrictPolicy()

// SanitizeDescription keeps user generated formatting and strips scripts, handlers and unsafe links.
func SanitizeDescription(description string) string {
	return descriptionPolicy.Sanitize(description)
}

// PlainText removes all markup for plain text contexts such as spreadsheets.
func PlainText(s string) string {
	return html.UnescapeString(plainPolicy.Sanitize(s))
}
