// Package validation applies the declarative `validate` struct tags used by request types
// and turns failures into field-level messages.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"farmhith/apperrors"
	"farmhith/constants"

	"github.com/go-playground/validator/v10"
)

// MobilePattern is a 10-digit Indian mobile number.
var MobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("in_mobile", func(fl validator.FieldLevel) bool {
			return MobilePattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("catalog_package", func(fl validator.FieldLevel) bool {
			_, ok := constants.FindPackage(fl.Field().String())
			return ok
		})
	})
	return validate
}

// Messager is implemented by request types that want their own wording.
// Keys are "field.tag" (e.g. "mobile.in_mobile") or just "field".
type Messager interface {
	ValidationMessages() map[string]string
}

// Result is the outcome of validating one value.
type Result struct {
	Errors []apperrors.FieldError
}

func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Err returns nil for a valid result, otherwise an *apperrors.ValidationError.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &apperrors.ValidationError{Fields: r.Errors}
}

// Struct validates s against its `validate` tags.
func Struct(s interface{}) Result {
	err := engine().Struct(s)
	if err == nil {
		return Result{}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Result{Errors: []apperrors.FieldError{{Message: err.Error()}}}
	}

	var messages map[string]string
	if m, ok := s.(Messager); ok {
		messages = m.ValidationMessages()
	}

	res := Result{Errors: make([]apperrors.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, apperrors.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe.Field(), fe.Tag(), fe.Param(), messages),
		})
	}
	return res
}

// Var validates a single value under the given field name.
func Var(field string, value interface{}, tag string, messages map[string]string) Result {
	err := engine().Var(value, tag)
	if err == nil {
		return Result{}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Result{Errors: []apperrors.FieldError{{Field: field, Message: err.Error()}}}
	}

	res := Result{}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, apperrors.FieldError{
			Field:   field,
			Message: messageFor(field, fe.Tag(), fe.Param(), messages),
		})
	}
	return res
}

// Merge concatenates results in order.
func Merge(results ...Result) Result {
	var out Result
	for _, r := range results {
		out.Errors = append(out.Errors, r.Errors...)
	}
	return out
}

func messageFor(field, tag, param string, messages map[string]string) string {
	if msg, ok := messages[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := messages[field]; ok {
		return msg
	}

	label := humanize(field)
	switch tag {
	case "required", "required_if":
		return label + " is required"
	case "max":
		return label + " too long"
	case "min":
		return label + " must be at least " + param + " characters"
	case "email":
		return "Invalid email address"
	case "in_mobile":
		return "Invalid mobile number"
	case "catalog_package":
		return "Unknown service package"
	case "oneof":
		return "Invalid " + strings.ToLower(label)
	default:
		return "Invalid " + strings.ToLower(label)
	}
}

func humanize(field string) string {
	if field == "" {
		return "Value"
	}
	label := strings.ReplaceAll(field, "_", " ")
	return strings.ToUpper(label[:1]) + label[1:]
}
