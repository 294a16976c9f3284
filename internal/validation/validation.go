// Package validation contains pure input validators for api payloads.
package validation

import (
	"strings"
	"unicode/utf8"
)

const (
	minTextLen = 2
	maxTextLen = 300

	minHandleLen = 2
	maxHandleLen = 40
)

// Errors is a field name to message map returned to api clients as-is.
type Errors map[string]string

// Valid ...
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Post validates a post's text.
func Post(text string) Errors {
	errs := Errors{}

	if l := utf8.RuneCountInString(text); l < minTextLen || l > maxTextLen {
		errs["text"] = "Post must be between 2 and 300 characters"
	}

	if strings.TrimSpace(text) == "" {
		errs["text"] = "Text field is required"
	}

	return errs
}

// Comment validates a comment's text.
func Comment(text string) Errors {
	errs := Errors{}

	if l := utf8.RuneCountInString(text); l < minTextLen || l > maxTextLen {
		errs["text"] = "Comment must be between 2 and 300 characters"
	}

	if strings.TrimSpace(text) == "" {
		errs["text"] = "Text comment field is required"
	}

	return errs
}

// Profile validates a profile's handle.
func Profile(handle string) Errors {
	errs := Errors{}

	if l := utf8.RuneCountInString(handle); l < minHandleLen || l > maxHandleLen {
		errs["handle"] = "Handle must be between 2 and 40 characters"
	}

	if strings.TrimSpace(handle) == "" {
		errs["handle"] = "Handle field is required"
	}

	return errs
}
