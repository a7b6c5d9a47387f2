package utils

import (
	"Recipe-Generator/domain"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	Validate     *validator.Validate
	validateOnce sync.Once
)

// InitValidator builds the shared validator. Field names in errors use the
// json tag so they match what the client or the store actually sent.
func InitValidator() {
	validateOnce.Do(func() {
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
		Validate = v
	})
}

// ValidateStruct checks v against its validate tags and returns
// domain.ValidationErrors when any constraint fails.
func ValidateStruct(v any) error {
	InitValidator()
	return ToValidationErrors(Validate.Struct(v))
}

// ToValidationErrors converts the validator's field errors into
// domain.ValidationErrors. Other errors pass through unchanged.
func ToValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, &domain.ValidationError{
			Field:      fieldPath(fe.Namespace()),
			Constraint: fe.Tag(),
			Param:      fe.Param(),
			Value:      fe.Value(),
		})
	}
	return out
}

// DecodeFields converts a loosely typed field map into out and validates it.
func DecodeFields(fields map[string]any, out any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return &domain.ValidationError{Constraint: "json", Value: err.Error()}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return typeError(err)
	}
	return ValidateStruct(out)
}

// DecodeJSON is DecodeFields for an already encoded document, such as the
// text returned by a generation endpoint.
func DecodeJSON(raw []byte, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return typeError(err)
	}
	return ValidateStruct(out)
}

func typeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		param := ""
		if typeErr.Type != nil {
			param = typeErr.Type.String()
		}
		return &domain.ValidationError{
			Field:      typeErr.Field,
			Constraint: "type",
			Param:      param,
			Value:      typeErr.Value,
		}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &domain.ValidationError{Constraint: "json", Value: syntaxErr.Error()}
	}
	return &domain.ValidationError{Constraint: "json", Value: err.Error()}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
