// Package validation wraps go-playground/validator and converts failures to domain errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/relprep/relprep/internal/errors"
)

// Validator validates configuration and API input structs.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports fields by their json, then env, tag name.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "env"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	return &Validator{v: v}
}

// Validate checks s and returns a VALIDATION error listing every failing field.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Namespace()] = describe(fe)
	}
	return domainerrors.ValidationWithDetails("validation failed", details)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url", "http_url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must not exceed " + fe.Param()
	case "gte", "gt", "lte", "lt":
		return fmt.Sprintf("must be %s %s", comparison(fe.Tag()), fe.Param())
	case "dir":
		return "must be an existing directory"
	case "hostname_port":
		return "must be host:port"
	default:
		return "is invalid"
	}
}

func comparison(tag string) string {
	switch tag {
	case "gte":
		return "greater than or equal to"
	case "gt":
		return "greater than"
	case "lte":
		return "less than or equal to"
	default:
		return "less than"
	}
}
