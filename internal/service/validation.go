package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/shininglight/church-api/pkg/errors"
)

// fieldErrors converts a validator error into a VALIDATION_ERROR carrying the
// first message per field, keyed by the json field name.
func fieldErrors(err error) *appErrors.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := snakeCase(fe.Field())
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = fieldMessage(fe)
	}
	return appErrors.WithFields(appErrors.Clone(appErrors.ErrValidation, "please correct the highlighted fields"), fields)
}

func fieldMessage(fe validator.FieldError) string {
	name := snakeCase(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "email":
		return "invalid email address"
	case "min":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("select at least %s %s", fe.Param(), name)
		case reflect.String:
			return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
		default:
			return fmt.Sprintf("%s must be at least %s", name, fe.Param())
		}
	case "max":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("select at most %s %s", fe.Param(), name)
		case reflect.String:
			return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
		default:
			return fmt.Sprintf("%s must be at most %s", name, fe.Param())
		}
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match format %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

func snakeCase(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
