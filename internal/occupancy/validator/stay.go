package validator

import (
	"errors"
	"fmt"
	"strings"

	"tdms/pkg/calendar"
	"tdms/pkg/logger"
	"tdms/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// StayValidator checks stays and stay updates before anything is mutated.
// Struct tags cover field-level rules; the calendar and establishment
// bounds are cross-field checks layered on top.
type StayValidator struct {
	validate  *validator.Validate
	logger    *logger.Logger
	maxNights int
	maxRoom   int
}

func NewStayValidator(log *logger.Logger, maxNights, maxRoom int) *StayValidator {
	return &StayValidator{
		validate:  validator.New(),
		logger:    log,
		maxNights: maxNights,
		maxRoom:   maxRoom,
	}
}

func (v *StayValidator) Validate(stay *model.Stay) error {
	if err := v.validate.Struct(stay); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !calendar.ValidDate(stay.StartDay, stay.StartMonth, stay.StartYear) {
		return ValidationErrors{
			ValidationError{
				Field: "StartDay",
				Message: fmt.Sprintf("%04d-%02d has only %d days",
					stay.StartYear, stay.StartMonth, calendar.DaysInMonth(stay.StartMonth, stay.StartYear)),
			},
		}
	}

	if stay.LengthOfStay > v.maxNights {
		return ValidationErrors{
			ValidationError{
				Field:   "LengthOfStay",
				Message: fmt.Sprintf("length of stay exceeds the maximum of %d nights", v.maxNights),
			},
		}
	}

	if stay.Room > v.maxRoom {
		return ValidationErrors{
			ValidationError{
				Field:   "Room",
				Message: fmt.Sprintf("room exceeds the maximum room number of %d", v.maxRoom),
			},
		}
	}

	return nil
}

func (v *StayValidator) ValidateUpdate(update *model.StayUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.LengthOfStay != nil && *update.LengthOfStay > v.maxNights {
		return ValidationErrors{
			ValidationError{
				Field:   "LengthOfStay",
				Message: fmt.Sprintf("length of stay exceeds the maximum of %d nights", v.maxNights),
			},
		}
	}

	return nil
}

func (v *StayValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
