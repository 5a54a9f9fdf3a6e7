package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"silicon.com/app/internal/shared/apperr"
)

type FieldErrors map[string]string

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator is shared by request binding and draft checks. Field names in
// errors come from json tags so they match what the dashboard sends.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return strings.ToLower(f.Name)
			}
			return name
		})
	})
	return validate
}

// Check validates v and returns an Invalid app error listing every failing
// field, or nil.
func Check(v any, publicMsg string) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	return apperr.InvalidErr(publicMsg, FromError(err))
}

// BindError wraps a request binding failure (bad JSON, wrong types).
func BindError(err error, publicMsg string) error {
	return apperr.InvalidErr(publicMsg, FromError(err))
}

// FromError turns a bind/validation error into a field->message map.
// Nested fields keep their path, e.g. "specifications[0].key".
func FromError(err error) FieldErrors {
	out := FieldErrors{}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fieldKey(fe.Namespace())] = messageForTag(fe.Tag(), fe.Param())
		}
		return out
	}

	// other bind errors (type mismatch, bad JSON)
	out["_"] = "Invalid request data."
	return out
}

// fieldKey drops the root struct name from a validator namespace.
func fieldKey(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return "Must be at least " + param + "."
	case "max":
		return "Must be at most " + param + "."
	case "gt":
		return "Must be greater than " + param + "."
	case "gte":
		return "Must be " + param + " or more."
	case "ltefield":
		return "Cannot exceed " + param + "."
	case "hexcolor":
		return "Enter a hex color such as #1a2b3c."
	case "oneof":
		return "Must be one of: " + param + "."
	default:
		return "Invalid value."
	}
}
