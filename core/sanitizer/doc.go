// Package sanitizer normalizes user supplied strings before validation.
//
// Struct fields opt in with a `sanitize` tag listing sanitizers in order:
//
//	type Input struct {
//		Title string `json:"title" sanitize:"text"`
//		Year  string `json:"year" sanitize:"trim,single_line"`
//	}
//
//	_ = sanitizer.SanitizeStruct(&in)
//
// Available names: trim, lower, upper, single_line, whitespace, no_control,
// strip_html, digits, text and max:N (truncate to N runes).
package sanitizer
