package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError - ошибки по полям: "поле" -> "сообщение".
// Имена полей берутся из json-тегов, вложенные через точку (salary.min).
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("field '%s': %s", field, e.Errors[field]))
	}
	return "Validation failed: " + strings.Join(parts, "; ")
}

// Validator - обертка над go-playground/validator.
type Validator struct {
	validate *validator.Validate
	messages map[string]string
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(fieldName)

	messages, err := registerCustomRules(v)
	if err != nil {
		// набор правил статический, ошибка тут - ошибка программиста
		panic(err)
	}

	return &Validator{
		validate: v,
		messages: messages,
	}
}

// fieldName - json-имя, для query-структур без json-тега - form.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// Validate возвращает *ValidationError, если структура не прошла проверку.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		fields[fieldPath(fe)] = v.message(fe)
	}
	return &ValidationError{Errors: fields}
}

// fieldPath отрезает имя корневой структуры: "RegisterRequest.email" -> "email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func (v *Validator) message(fe validator.FieldError) string {
	if msg, ok := v.messages[fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "required_if":
		return "This field is required for this role"
	case "email":
		return "Must be a valid email address"
	case "min", "max", "len":
		bound := map[string]string{"min": "at least", "max": "at most", "len": "exactly"}[fe.Tag()]
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("Must be %s %s characters long", bound, fe.Param())
		case reflect.Slice, reflect.Map:
			return fmt.Sprintf("Must contain %s %s items", bound, fe.Param())
		}
		return fmt.Sprintf("Must be %s %s", bound, fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fmt.Sprintf("Invalid value (failed on '%s' tag)", fe.Tag())
	}
}
