package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequestValidator adapts validator/v10 to echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i any) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	details := make(map[string]string, len(fieldErrs))
	var first string
	for _, fe := range fieldErrs {
		msg := fieldMessage(fe)
		if first == "" {
			first = msg
		}
		details[fe.Field()] = msg
	}
	appErr := ValidationFailed(details)
	if len(details) == 1 {
		appErr.Message = first
	}
	return appErr
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s es obligatorio.", field)
	case "oneof":
		return fmt.Sprintf("%s solo admite: %s.", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		if isText(fe.Kind()) {
			return fmt.Sprintf("%s no puede exceder %s caracteres.", field, fe.Param())
		}
		return fmt.Sprintf("%s no puede ser mayor que %s.", field, fe.Param())
	case "min":
		if isText(fe.Kind()) {
			return fmt.Sprintf("%s debe tener al menos %s caracteres.", field, fe.Param())
		}
		return fmt.Sprintf("%s no puede ser menor que %s.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s no puede ser menor que %s.", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s no puede ser mayor que %s.", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s no es un email valido.", field)
	case "numeric":
		return fmt.Sprintf("%s debe ser numerico.", field)
	case "len":
		return fmt.Sprintf("%s debe tener %s caracteres.", field, fe.Param())
	}
	return fmt.Sprintf("%s no es valido.", field)
}

func isText(k reflect.Kind) bool {
	return k == reflect.String
}
