package validator

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"
)

// Rule pairs a check with the error reported when it fails.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// ValidationError describes one failed rule on one field.
type ValidationError struct {
	Field             string         `json:"field"`
	Message           string         `json:"message"`
	TranslationKey    string         `json:"-"`
	TranslationValues map[string]any `json:"-"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every failed rule of a validation run.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, ve := range e {
		parts = append(parts, ve.Error())
	}
	return strings.Join(parts, "; ")
}

// Add appends err.
func (e *ValidationErrors) Add(err ValidationError) {
	*e = append(*e, err)
}

// IsEmpty reports whether no rule failed.
func (e ValidationErrors) IsEmpty() bool {
	return len(e) == 0
}

// Has reports whether field has at least one error.
func (e ValidationErrors) Has(field string) bool {
	return slices.ContainsFunc(e, func(ve ValidationError) bool { return ve.Field == field })
}

// Fields maps each failing field to its messages, in rule order.
func (e ValidationErrors) Fields() map[string][]string {
	out := make(map[string][]string, len(e))
	for _, ve := range e {
		out[ve.Field] = append(out[ve.Field], ve.Message)
	}
	return out
}

// IsValidationError reports whether err carries ValidationErrors.
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// ExtractValidationErrors returns the ValidationErrors inside err, if any.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// Apply runs rules and returns ValidationErrors for the failures, or nil.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, rule := range rules {
		if rule.Check != nil && !rule.Check() {
			errs.Add(rule.Error)
		}
	}
	if errs.IsEmpty() {
		return nil
	}
	return errs
}

// Merge combines validation failures from several runs. Non-validation errors
// are returned as is.
func Merge(errs ...error) error {
	var out ValidationErrors
	for _, err := range errs {
		if err == nil {
			continue
		}
		ve := ExtractValidationErrors(err)
		if ve == nil {
			return err
		}
		out = append(out, ve...)
	}
	if out.IsEmpty() {
		return nil
	}
	return out
}

// Required fails for blank strings.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{
			Field:             field,
			Message:           "field is required",
			TranslationKey:    "validation.required",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// MinLenString requires at least min characters, counted as runes.
func MinLenString(field, value string, min int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) >= min },
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be at least %d characters long", min),
			TranslationKey:    "validation.min_length",
			TranslationValues: map[string]any{"field": field, "min": min},
		},
	}
}

// MaxLenString allows at most max characters, counted as runes.
func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be at most %d characters long", max),
			TranslationKey:    "validation.max_length",
			TranslationValues: map[string]any{"field": field, "max": max},
		},
	}
}

// ExactLenString requires exactly n characters, counted as runes.
func ExactLenString(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) == n },
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be exactly %d characters long", n),
			TranslationKey:    "validation.exact_length",
			TranslationValues: map[string]any{"field": field, "len": n},
		},
	}
}

// InList requires value to be one of allowed.
func InList(field, value string, allowed []string) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(allowed, value) },
		Error: ValidationError{
			Field:             field,
			Message:           "must be one of: " + strings.Join(allowed, ", "),
			TranslationKey:    "validation.in",
			TranslationValues: map[string]any{"field": field, "values": allowed},
		},
	}
}

var (
	regexCacheMu sync.RWMutex
	regexCache   = map[string]*regexp.Regexp{}
)

func compile(pattern string) (*regexp.Regexp, error) {
	regexCacheMu.RLock()
	re, ok := regexCache[pattern]
	regexCacheMu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	regexCacheMu.Lock()
	regexCache[pattern] = re
	regexCacheMu.Unlock()
	return re, nil
}

// MatchesRegex requires value to match pattern. An invalid pattern always fails.
// description names the expected format in the message.
func MatchesRegex(field, value, pattern, description string) Rule {
	return Rule{
		Check: func() bool {
			re, err := compile(pattern)
			return err == nil && re.MatchString(value)
		},
		Error: ValidationError{
			Field:             field,
			Message:           "must match " + description,
			TranslationKey:    "validation.regex",
			TranslationValues: map[string]any{"field": field, "pattern": description},
		},
	}
}

// Digits requires value to be exactly n ASCII digits.
func Digits(field, value string, n int) Rule {
	rule := MatchesRegex(field, value, fmt.Sprintf("^[0-9]{%d}$", n), fmt.Sprintf("%d digits", n))
	rule.Error.Message = fmt.Sprintf("must be exactly %d digits", n)
	rule.Error.TranslationKey = "validation.digits"
	rule.Error.TranslationValues = map[string]any{"field": field, "digits": n}
	return rule
}
