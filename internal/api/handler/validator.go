package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// requestValidator runs the `validate` tags of the request DTOs for
// c.Validate. The handlers only need to know that a required field is
// absent; they answer with their own combined message.
type requestValidator struct {
	v *validator.Validate
}

// NewValidator returns the validator assigned to echo.Echo.Validator. Field
// names in errors are the JSON names clients send.
func NewValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &requestValidator{v: v}
}

// Validate reports the absent fields as one MISSING_FIELDS error, e.g.
// "missing fields: email, password".
func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Tag() == "required" {
			fields = append(fields, fe.Field())
			continue
		}
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}
	return domain.NewError(domain.KindBadRequest, "MISSING_FIELDS", "missing fields: "+strings.Join(fields, ", "))
}
