package timesheet

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator decides whether a batch of entries may be submitted. The
// editor and the submission service share it so both sides apply the
// same rules.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "hours", func(fl validator.FieldLevel) bool {
		_, err := ParseHours(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate checks every entry and returns nil or a *ValidationError
// listing all issues in entry order.
func (v *Validator) Validate(entries []Entry) error {
	if len(entries) == 0 {
		return &ValidationError{
			Code: CodeEmptyBatch,
			Issues: []Issue{{
				Index:   -1,
				Code:    CodeEmptyBatch,
				Message: "No timesheet entries provided",
			}},
		}
	}

	var issues []Issue
	for i, entry := range entries {
		err := v.validate.Struct(entry)
		if err == nil {
			continue
		}
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return err
		}
		for _, fe := range fieldErrors {
			issues = append(issues, newIssue(i, fe))
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Code: issues[0].Code, Issues: issues}
}

func newIssue(index int, fe validator.FieldError) Issue {
	issue := Issue{Index: index, Field: fe.Field()}
	entryNo := index + 1

	switch fe.Tag() {
	case "required":
		issue.Code = CodeMissingField
		issue.Message = fmt.Sprintf("Missing required field '%s' in entry %d", fe.Field(), entryNo)
	case "hours":
		issue.Code = CodeInvalidHours
		issue.Message = fmt.Sprintf("Invalid hours value in entry %d: must be a number greater than 0 and at most %v, in steps of %v", entryNo, MaxHours, HourStep)
	case "max":
		issue.Code = CodeInvalidField
		issue.Message = fmt.Sprintf("Field '%s' in entry %d must be at most %s characters", fe.Field(), entryNo, fe.Param())
	case "oneof":
		issue.Code = CodeInvalidField
		issue.Message = fmt.Sprintf("Field '%s' in entry %d must be one of: %s", fe.Field(), entryNo, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "isodate":
		issue.Code = CodeInvalidField
		issue.Message = fmt.Sprintf("Field '%s' in entry %d must be a date formatted YYYY-MM-DD", fe.Field(), entryNo)
	default:
		issue.Code = CodeInvalidField
		issue.Message = fmt.Sprintf("Field '%s' in entry %d failed validation for '%s'", fe.Field(), entryNo, fe.Tag())
	}
	return issue
}
