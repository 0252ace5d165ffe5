package validator

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// ValidatorFunc builds a Rule for a field value and the tag parameters.
type ValidatorFunc func(field string, value reflect.Value, params []string) Rule

var (
	registryMu sync.RWMutex
	registry   = map[string]ValidatorFunc{
		"required": requiredValidator,
		"min":      minValidator,
		"max":      maxValidator,
		"len":      lenValidator,
		"digits":   digitsValidator,
		"in":       inValidator,
		"regex":    regexValidator,
	}
)

// RegisterValidator adds or replaces a named tag rule.
func RegisterValidator(name string, fn ValidatorFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

// ValidateStruct checks the `validate` tags of the struct v points to.
// Rules are separated by ";" and parameters by ",", e.g. `validate:"required;max:30"`.
// Errors are reported under the json name of the field when it has one.
func ValidateStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("validator: must pass a pointer to struct")
	}

	var errs ValidationErrors
	validateStruct(rv.Elem(), "", &errs)

	if errs.IsEmpty() {
		return nil
	}
	return errs
}

func validateStruct(rv reflect.Value, prefix string, errs *ValidationErrors) {
	rt := rv.Type()

	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag := sf.Tag.Get("validate")
		if tag == "-" {
			continue
		}

		path := fieldName(sf)
		if prefix != "" {
			path = prefix + "." + path
		}

		if field.Kind() == reflect.Pointer {
			if field.IsNil() {
				if tag != "" {
					validateField(path, field, tag, errs)
				}
				continue
			}
			field = field.Elem()
		}

		if field.Kind() == reflect.Struct && tag == "" {
			validateStruct(field, path, errs)
			continue
		}

		if tag != "" {
			validateField(path, field, tag, errs)
		}
	}
}

func fieldName(sf reflect.StructField) string {
	if name, _, _ := strings.Cut(sf.Tag.Get("json"), ","); name != "" && name != "-" {
		return name
	}
	return sf.Name
}

func validateField(path string, field reflect.Value, tag string, errs *ValidationErrors) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for raw := range strings.SplitSeq(tag, ";") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		name, paramStr, _ := strings.Cut(raw, ":")
		var params []string
		if paramStr = strings.TrimSpace(paramStr); paramStr != "" {
			for p := range strings.SplitSeq(paramStr, ",") {
				params = append(params, strings.TrimSpace(p))
			}
		}

		fn, ok := registry[strings.TrimSpace(name)]
		if !ok {
			continue
		}
		if rule := fn(path, field, params); rule.Check != nil && !rule.Check() {
			errs.Add(rule.Error)
		}
	}
}

func pass() Rule { return Rule{Check: func() bool { return true }} }

func requiredValidator(field string, value reflect.Value, _ []string) Rule {
	if value.Kind() == reflect.String {
		return Required(field, value.String())
	}
	rule := Required(field, "")
	rule.Check = func() bool {
		switch value.Kind() {
		case reflect.Slice, reflect.Map, reflect.Array:
			return value.Len() > 0
		case reflect.Pointer, reflect.Interface:
			return !value.IsNil()
		default:
			return !value.IsZero()
		}
	}
	return rule
}

func minValidator(field string, value reflect.Value, params []string) Rule {
	if len(params) < 1 {
		return pass()
	}

	switch value.Kind() {
	case reflect.String:
		n, _ := strconv.Atoi(params[0])
		return MinLenString(field, value.String(), n)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, _ := strconv.ParseInt(params[0], 10, 64)
		return Rule{
			Check: func() bool { return value.Int() >= n },
			Error: ValidationError{
				Field:             field,
				Message:           fmt.Sprintf("must be at least %d", n),
				TranslationKey:    "validation.min",
				TranslationValues: map[string]any{"field": field, "min": n},
			},
		}
	default:
		return pass()
	}
}

func maxValidator(field string, value reflect.Value, params []string) Rule {
	if len(params) < 1 {
		return pass()
	}

	switch value.Kind() {
	case reflect.String:
		n, _ := strconv.Atoi(params[0])
		return MaxLenString(field, value.String(), n)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, _ := strconv.ParseInt(params[0], 10, 64)
		return Rule{
			Check: func() bool { return value.Int() <= n },
			Error: ValidationError{
				Field:             field,
				Message:           fmt.Sprintf("must be at most %d", n),
				TranslationKey:    "validation.max",
				TranslationValues: map[string]any{"field": field, "max": n},
			},
		}
	default:
		return pass()
	}
}

func lenValidator(field string, value reflect.Value, params []string) Rule {
	if len(params) < 1 || value.Kind() != reflect.String {
		return pass()
	}
	n, _ := strconv.Atoi(params[0])
	return ExactLenString(field, value.String(), n)
}

func digitsValidator(field string, value reflect.Value, params []string) Rule {
	if len(params) < 1 || value.Kind() != reflect.String {
		return pass()
	}
	n, _ := strconv.Atoi(params[0])
	return Digits(field, value.String(), n)
}

func inValidator(field string, value reflect.Value, params []string) Rule {
	if value.Kind() != reflect.String {
		return pass()
	}
	return InList(field, value.String(), params)
}

func regexValidator(field string, value reflect.Value, params []string) Rule {
	if value.Kind() != reflect.String || len(params) < 1 {
		return pass()
	}
	description := "pattern"
	if len(params) > 1 {
		description = params[1]
	}
	return MatchesRegex(field, value.String(), params[0], description)
}
