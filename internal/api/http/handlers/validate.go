package handlers

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/skynix/contact-service/internal/domain"
	apperrors "github.com/skynix/contact-service/pkg/util/errorutil"
)

// NewValidator returns a validator that reports fields by their JSON name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Optional strings validate as their value, or as empty when absent.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if o, ok := field.Interface().(domain.Optional[string]); ok {
			if s, present := o.Get(); present {
				return s
			}
		}
		return nil
	}, domain.Optional[string]{})
	return v
}

// validateRequest runs struct validation and maps failures to VALIDATION_FAILED
// with one detail per field.
func validateRequest(ctx context.Context, v *validator.Validate, req any) error {
	err := v.StructCtx(ctx, req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewInternalError(err)
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = describeTag(fe)
	}
	return apperrors.NewValidationError("validation failed", details)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "invalid format"
	case "max":
		return "too long"
	default:
		return fe.Tag()
	}
}
