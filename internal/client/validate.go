package client

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(fieldName)
}

var fieldMessages = map[string]string{
	"required": "The field '%s' is required.",
	"email":    "The field '%s' must be a valid email address.",
}

// fieldName reports the wire name of a field so messages match what the user typed into.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"url", "form"} {
		if name := strings.Split(fld.Tag.Get(tag), ",")[0]; name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(fld.Name)
}

func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate input: %w", err)
	}

	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.Tag()]
		if !ok {
			msg = "The field '%s' is invalid."
		}
		out.Fields[fe.Field()] = fmt.Sprintf(msg, fe.Field())
	}
	return out
}
