package pkgvalidator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mohamkz/banking-app/internal/pkg/pkgerror"
)

// Validator validates request structs using `validate` tags.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that names fields after their json tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

// Struct validates s. Tag violations come back as pkgerror.NewValidation with
// one message per field; any other failure is a server error.
func (va *Validator) Struct(s any) error {
	err := va.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return pkgerror.NewServer(err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}

	return pkgerror.NewValidation(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}
