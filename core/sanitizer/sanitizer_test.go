package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bookshelf/core/sanitizer"
)

func TestStringFunctions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"trim", sanitizer.Trim, "  Dune \t", "Dune"},
		{"lower", sanitizer.ToLower, "DUNE", "dune"},
		{"upper", sanitizer.ToUpper, "dune", "DUNE"},
		{"collapse", sanitizer.CollapseWhitespace, "  The   Hobbit ", "The Hobbit"},
		{"single line", sanitizer.SingleLine, "Brave\r\nNew\nWorld", "Brave New World"},
		{"control chars", sanitizer.RemoveControlChars, "a\x00b\tc", "ab\tc"},
		{"strip html", sanitizer.StripHTML, "<b>Fish &amp; Chips</b>", "Fish & Chips"},
		{"digits", sanitizer.KeepDigits, "c. 1949", "1949"},
		{"text", sanitizer.Text, " Animal\x07\n  Farm ", "Animal Farm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestMaxLength(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "héll", sanitizer.MaxLength("héllo", 4))
	assert.Equal(t, "hi", sanitizer.MaxLength("hi", 10))
	assert.Empty(t, sanitizer.MaxLength("hi", 0))
}

type input struct {
	Title  string   `sanitize:"text"`
	Year   string   `sanitize:"trim,max:4"`
	Tags   []string `sanitize:"trim,lower"`
	Raw    string
	Skip   string  `sanitize:"-"`
	Note   *string `sanitize:"trim"`
	Nested struct {
		Genre string `sanitize:"whitespace"`
	}
}

func TestSanitizeStruct(t *testing.T) {
	t.Parallel()

	note := "  note  "
	in := input{
		Title: "  Nineteen\nEighty-Four ",
		Year:  " 19490 ",
		Tags:  []string{" Classic ", "SCI-FI"},
		Raw:   "  raw  ",
		Skip:  "  skip  ",
		Note:  &note,
	}
	in.Nested.Genre = " Political   Fiction "

	require.NoError(t, sanitizer.SanitizeStruct(&in))
	assert.Equal(t, "Nineteen Eighty-Four", in.Title)
	assert.Equal(t, "1949", in.Year)
	assert.Equal(t, []string{"classic", "sci-fi"}, in.Tags)
	assert.Equal(t, "  raw  ", in.Raw)
	assert.Equal(t, "  skip  ", in.Skip)
	assert.Equal(t, "note", *in.Note)
	assert.Equal(t, "Political Fiction", in.Nested.Genre)
}

func TestSanitizeStruct_InvalidTarget(t *testing.T) {
	t.Parallel()

	assert.Error(t, sanitizer.SanitizeStruct(input{}))
	s := "x"
	assert.Error(t, sanitizer.SanitizeStruct(&s))
}

func TestRegisterSanitizer(t *testing.T) {
	sanitizer.RegisterSanitizer("shout", strings.ToUpper)
	assert.Equal(t, "HEY", sanitizer.Apply(" hey ", "trim,shout,unknown"))
}
