// Package validator checks struct fields against `validate` tags and offers
// Rule builders for checks that depend on runtime settings.
//
//	type Input struct {
//		Title string `json:"title" validate:"required;max:30"`
//		Year  string `json:"year" validate:"digits:4"`
//	}
//
//	if err := validator.ValidateStruct(&in); err != nil {
//		for field, msgs := range validator.ExtractValidationErrors(err).Fields() {
//			...
//		}
//	}
//
// Tag rules: required, min, max, len, digits, in, regex. String lengths are
// counted in runes. RegisterValidator adds more.
//
// Rules can also be composed directly:
//
//	err := validator.Apply(
//		validator.Required("year", year),
//		validator.MaxLenString("year", year, 30),
//	)
package validator
