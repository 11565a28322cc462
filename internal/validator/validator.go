package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New creates a validator instance with the custom validations the
// request DTOs rely on, so handlers and tests validate identically.
func New() *validator.Validate {
	v := validator.New()

	// Report wire names (json tags) in validation errors, not Go field
	// names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// "notblank" rejects whitespace-only strings; "required" alone
	// accepts them.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true // not a string, let other validators handle it
		}
		return strings.TrimSpace(str) != ""
	})

	return v
}
