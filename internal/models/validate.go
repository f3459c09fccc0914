package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed field. Path is the json name, optionally
// prefixed with where it came from (e.g. "/body/title").
type FieldError struct {
	Path      string `json:"path"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

// ValidationError carries every failed field, not just the first one.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	paths := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		paths[i] = fe.Path
	}
	return "validation failed: " + strings.Join(paths, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(JSONFieldName)
	return v
}

// JSONFieldName reports fields by their json name so error paths match the
// request body. Also registered on gin's binding validator.
func JSONFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// Validate 校验 validate 标签，返回 *ValidationError 汇总所有缺失字段
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return FromValidator(verrs, "")
}

// FromValidator converts validator errors (from Validate or gin binding) into
// a ValidationError, prefixing every path.
func FromValidator(verrs validator.ValidationErrors, prefix string) *ValidationError {
	out := &ValidationError{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		msg := fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		if fe.Tag() == "required" {
			msg = fmt.Sprintf("must have required property '%s'", field)
		}
		out.Errors = append(out.Errors, FieldError{
			Path:      prefix + field,
			Message:   msg,
			ErrorCode: fe.Tag() + ".validation",
		})
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
