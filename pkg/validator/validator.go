package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/disposition"
)

// FieldError error de validación de un campo.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	// Reportar campos con su nombre JSON (rejections[0].reason) en vez del nombre Go.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// disposition: REWORK, SCRAP o DISPOSAL sin distinguir mayúsculas ni espacios.
	_ = v.RegisterValidation("disposition", func(fl validator.FieldLevel) bool {
		return disposition.IsValidDisposition(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
	})
	return v
}

// ValidateStruct valida data según sus tags `validate` y devuelve los campos inválidos.
func ValidateStruct(data interface{}) []*FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*FieldError{{Field: "", Tag: "invalid", Param: err.Error()}}
	}
	out := make([]*FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, &FieldError{
			Field: trimRoot(fe.Namespace()),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// ToDomain convierte los errores de campo en un *domain.ValidationError (nil si no hay errores).
func ToDomain(message string, errs []*FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	verr := domain.NewValidationError(message)
	for _, fe := range errs {
		verr.Add(fe.Field, describe(fe))
	}
	return verr
}

// trimRoot quita el nombre del struct raíz: "PartialDispositionRequest.rejections[0].reason" -> "rejections[0].reason".
func trimRoot(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe *FieldError) string {
	switch fe.Tag {
	case "required":
		return "requerido"
	case "disposition":
		return "debe ser REWORK, SCRAP o DISPOSAL"
	case "oneof":
		return "debe ser uno de: " + fe.Param
	case "max":
		return "máximo " + fe.Param
	case "min":
		return "mínimo " + fe.Param
	default:
		return "inválido (" + fe.Tag + ")"
	}
}
