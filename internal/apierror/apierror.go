// Package apierror provides the error envelopes returned by the API.
// Every 4xx/5xx body is {"detail": "..."}; validation failures add "fields".
package apierror

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries one message per offending field.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// FromValidator translates validator errors into a ValidationError keyed by
// the field's json name (see the tag name func registered by the handlers).
func FromValidator(errs validator.ValidationErrors) *ValidationError {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = mensaje(fe)
	}
	return NewValidation(fields)
}

func mensaje(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obligatorio"
	case "email":
		return "email invalido"
	case "uuid", "uuid4":
		return "identificador invalido"
	case "cuit":
		return "CUIT invalido"
	case "datetime":
		return fmt.Sprintf("fecha invalida, formato %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", fe.Param())
	case "gt":
		return fmt.Sprintf("debe ser mayor a %s", fe.Param())
	case "gte", "min":
		return fmt.Sprintf("minimo %s", fe.Param())
	case "lte", "max":
		return fmt.Sprintf("maximo %s", fe.Param())
	}
	return fmt.Sprintf("no cumple la regla %s", fe.Tag())
}
