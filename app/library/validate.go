package library

import (
	"github.com/dmitrymomot/bookshelf/core/sanitizer"
	"github.com/dmitrymomot/bookshelf/core/validator"
)

// MaxFieldLength bounds every text field of a Book, in characters.
const MaxFieldLength = 30

// Normalize sanitizes b and checks it. In strict mode the year must be
// exactly four digits; otherwise any non-empty text up to MaxFieldLength.
// Failures are returned as *ValidationError.
func Normalize(b Book, strictYear bool) (Book, error) {
	if err := sanitizer.SanitizeStruct(&b); err != nil {
		return Book{}, invalid(err)
	}

	yearRule := validator.MaxLenString("year", b.Year, MaxFieldLength)
	switch {
	case b.Year == "":
		yearRule = validator.Required("year", b.Year)
	case strictYear:
		yearRule = validator.Digits("year", b.Year, 4)
	}

	if err := validator.Merge(validator.ValidateStruct(&b), validator.Apply(yearRule)); err != nil {
		return Book{}, invalid(err)
	}
	return b, nil
}
