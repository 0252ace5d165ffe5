package sanitizer

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]func(string) string{
		"trim":        Trim,
		"lower":       ToLower,
		"upper":       ToUpper,
		"single_line": SingleLine,
		"whitespace":  CollapseWhitespace,
		"no_control":  RemoveControlChars,
		"strip_html":  StripHTML,
		"digits":      KeepDigits,
		"text":        Text,
	}
)

// RegisterSanitizer adds or replaces a named tag sanitizer.
func RegisterSanitizer(name string, fn func(string) string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

// SanitizeStruct rewrites string fields of the struct v points to according
// to their comma separated `sanitize` tags, e.g. `sanitize:"trim,single_line,max:30"`.
// Untagged nested structs are walked; unknown names are ignored.
func SanitizeStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return errors.New("sanitizer: must pass a pointer to struct")
	}

	registryMu.RLock()
	defer registryMu.RUnlock()

	sanitizeStruct(rv.Elem())
	return nil
}

// Apply runs the sanitizers named in tag against value.
func Apply(value, tag string) string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return apply(value, tag)
}

func sanitizeStruct(rv reflect.Value) {
	rt := rv.Type()

	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}

		tag := rt.Field(i).Tag.Get("sanitize")
		if tag == "-" {
			continue
		}

		if field.Kind() == reflect.Pointer {
			if field.IsNil() {
				continue
			}
			field = field.Elem()
		}

		switch field.Kind() {
		case reflect.String:
			if tag != "" {
				field.SetString(apply(field.String(), tag))
			}
		case reflect.Struct:
			sanitizeStruct(field)
		case reflect.Slice:
			if tag != "" && field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					elem := field.Index(j)
					elem.SetString(apply(elem.String(), tag))
				}
			}
		}
	}
}

func apply(value, tag string) string {
	for name := range strings.SplitSeq(tag, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		if limit, ok := strings.CutPrefix(name, "max:"); ok {
			if n, err := strconv.Atoi(limit); err == nil && n > 0 {
				value = MaxLength(value, n)
			}
			continue
		}

		if fn, ok := registry[name]; ok {
			value = fn(value)
		}
	}
	return value
}
