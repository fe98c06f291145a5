package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"employee-directory/internal/domain"
)

const minSalary = 1000

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func isEmail(v string) bool {
	return validate.Var(v, "required,email") == nil
}

// validationError translates validator failures into a client-facing domain error.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.Validation(err.Error())
	}
	fe := verrs[0]
	switch {
	case fe.Field() == "email":
		return domain.Validation("invalid email")
	case fe.Field() == "salary" && fe.Tag() == "min":
		return domain.Validation(fmt.Sprintf("salary must be at least %d", minSalary))
	case fe.Field() == "gender":
		return domain.Validation("gender must be 'Male', 'Female', or 'Other'")
	case fe.Field() == "date_of_joining":
		return domain.Validation("invalid date_of_joining")
	case fe.Tag() == "required":
		return domain.Validation(fe.Field() + " is required")
	default:
		return domain.Validation("invalid " + fe.Field())
	}
}

var dateLayouts = []string{domain.DateLayout, time.RFC3339}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.Validation("invalid date_of_joining")
}
