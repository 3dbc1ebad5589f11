// Package validation wraps go-playground/validator with the domain rules
// shared by the HTTP layer and the services.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"cohorts/internal/model"
)

var validate = New()

// New returns a validator with the domain rules registered and json field
// names used in messages.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	// registration only fails for empty tags or nil funcs
	_ = v.RegisterValidation("program", func(fl validator.FieldLevel) bool {
		return model.Program(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("format", func(fl validator.FieldLevel) bool {
		return model.Format(fl.Field().String()).IsValid()
	})
	return v
}

// Struct validates s and returns an *Error describing every failed field.
func Struct(s interface{}) error {
	return Wrap(validate.Struct(s))
}

// Error is a flattened validation failure.
type Error struct {
	msg string
}

func (e *Error) Error() string {
	return e.msg
}

// Wrap converts validator errors into *Error; other errors pass through.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, describe(fe))
	}
	return &Error{msg: strings.Join(parts, "; ")}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "program":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), quoteAll(model.Programs))
	case "format":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), quoteAll(model.Formats))
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func quoteAll[T ~string](values []T) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", string(v))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
