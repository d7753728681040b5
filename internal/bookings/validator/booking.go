package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"calbook/pkg/logger"
	"calbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

const timestampTag = "timestamp"

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

// Fields lists the offending field names in struct order.
func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	for _, err := range v {
		fields = append(fields, err.Field)
	}
	return fields
}

// TimeRange is the parsed start and end of a valid input, in UTC.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

type BookingValidator struct {
	validate         *validator.Validate
	logger           *logger.Logger
	location         *time.Location
	enforceTimeOrder bool
}

// NewBookingValidator reads zone-less timestamps in loc. With
// enforceTimeOrder an end before start is rejected; equal instants pass.
func NewBookingValidator(log *logger.Logger, loc *time.Location, enforceTimeOrder bool) *BookingValidator {
	if loc == nil {
		loc = time.UTC
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation(timestampTag, func(fl validator.FieldLevel) bool {
		_, err := model.ParseTimestamp(fl.Field().String(), loc)
		return err == nil
	}); err != nil {
		log.Fatal("Failed to register 'timestamp' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully",
		"location", loc.String(),
		"enforce_time_order", enforceTimeOrder,
	)

	return &BookingValidator{
		validate:         v,
		logger:           log,
		location:         loc,
		enforceTimeOrder: enforceTimeOrder,
	}
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// Validate checks input and returns its parsed time range. Every failing
// field is reported at once.
func (v *BookingValidator) Validate(input *model.BookingInput) (TimeRange, error) {
	if input == nil {
		return TimeRange{}, ValidationErrors{{Field: "body", Message: "booking is required"}}
	}

	if err := v.validate.Struct(input); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return TimeRange{}, v.translateValidationErrors(validationErrs)
		}
		return TimeRange{}, err
	}

	start, err := model.ParseTimestamp(input.Start, v.location)
	if err != nil {
		return TimeRange{}, ValidationErrors{{Field: "start", Message: timestampMessage("start")}}
	}
	end, err := model.ParseTimestamp(input.End, v.location)
	if err != nil {
		return TimeRange{}, ValidationErrors{{Field: "end", Message: timestampMessage("end")}}
	}

	if v.enforceTimeOrder && end.Before(start) {
		return TimeRange{}, ValidationErrors{
			ValidationError{
				Field:   "end",
				Message: "end must not be before start",
			},
		}
	}

	return TimeRange{Start: start, End: end}, nil
}

func timestampMessage(field string) string {
	return fmt.Sprintf("%s must be an ISO-8601 date-time (e.g., 2026-03-02T09:00:00Z)", field)
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case timestampTag:
			message = timestampMessage(err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
