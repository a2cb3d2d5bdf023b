package validator

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhash31/ai-booking-assistant/pkg/model"

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
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

type ProviderValidator struct {
	validate *validator.Validate
}

func NewProviderValidator() *ProviderValidator {
	v := validator.New()

	if err := v.RegisterValidation("valid_time_range", validClockTime); err != nil {
		panic(fmt.Sprintf("failed to register valid_time_range validator: %v", err))
	}

	return &ProviderValidator{
		validate: v,
	}
}

// validClockTime accepts 24h HH:MM values like "09:00" or "17:30".
func validClockTime(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

func (v *ProviderValidator) Validate(provider *model.Provider) error {
	if err := v.validate.Struct(provider); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateBusinessRules(provider)
}

func (v *ProviderValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: messageForTag(err),
		})
	}

	return validationErrors
}

func messageForTag(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "valid_time_range":
		return "must be a 24h clock time in HH:MM format"
	default:
		return fmt.Sprintf("failed validation: %s", err.Tag())
	}
}

func (v *ProviderValidator) validateBusinessRules(provider *model.Provider) error {
	var errs ValidationErrors

	start, startErr := time.Parse("15:04", provider.StartOfDay)
	end, endErr := time.Parse("15:04", provider.EndOfDay)
	if startErr == nil && endErr == nil && !end.After(start) {
		errs = append(errs, ValidationError{
			Field:   "EndOfDay",
			Message: "must be later than start_of_day",
		})
	}

	if provider.RemainingCapacity != nil && *provider.RemainingCapacity > provider.MaxCapacity {
		errs = append(errs, ValidationError{
			Field:   "RemainingCapacity",
			Message: "cannot exceed max_capacity",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
