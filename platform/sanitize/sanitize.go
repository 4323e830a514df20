// Package sanitize strips markup from user supplied free text before storage.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes tags, decodes entities and strips again so encoded tags
// such as "&lt;script&gt;" do not survive.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = html.UnescapeString(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text sanitizes a single free text value such as contact notes.
func Text(s string) string {
	return StripHTML(s)
}

// OptionalText sanitizes an optional value. Values that are empty after
// sanitizing become nil so they are stored as NULL.
func OptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	if result == "" {
		return nil
	}
	return &result
}
