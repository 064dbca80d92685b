package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/ifuryst/beacon/internal/apperr"
	"github.com/ifuryst/beacon/pkg/util"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || util.IsSlug(s)
	})
	return v
}

// BindingValidator plugs ValidateInput into gin's binding, so a request body
// is checked by exactly the rules the services apply.
type BindingValidator struct{}

func (BindingValidator) ValidateStruct(obj any) error {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	return ValidateInput(obj)
}

func (BindingValidator) Engine() any {
	return validate
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// checker is implemented by inputs with rules the tags cannot express.
type checker interface {
	Check() []apperr.FieldError
}

// ValidateInput runs the binding tags and any cross-field checks,
// reporting every offending field at once.
func ValidateInput(in any) error {
	var fields []apperr.FieldError

	if err := validate.Struct(in); err != nil {
		fe := FieldErrors(err)
		if fe == nil {
			return fmt.Errorf("failed to validate input: %w", err)
		}
		fields = append(fields, fe...)
	}

	if c, ok := in.(checker); ok {
		fields = mergeFields(fields, c.Check())
	}

	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}

// FieldErrors converts validator failures into field errors named by JSON path.
// It returns nil when err did not come from the validator.
func FieldErrors(err error) []apperr.FieldError {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}

	fields := make([]apperr.FieldError, 0, len(ves))
	for _, fe := range ves {
		fields = mergeFields(fields, []apperr.FieldError{{
			Field:   fieldPath(fe),
			Message: fieldMessage(fe),
		}})
	}
	return fields
}

// fieldPath drops the root struct name from the namespace: "JobInput.title" becomes "title".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "slug":
		return "must contain only lowercase letters, digits and single dashes"
	default:
		return "is invalid"
	}
}

// mergeFields appends extra, keeping the first message for a repeated field.
func mergeFields(fields, extra []apperr.FieldError) []apperr.FieldError {
	for _, e := range extra {
		dup := false
		for _, f := range fields {
			if f.Field == e.Field {
				dup = true
				break
			}
		}
		if !dup {
			fields = append(fields, e)
		}
	}
	return fields
}
