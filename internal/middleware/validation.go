package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"aqseries/internal/airquality"
	apierrors "aqseries/internal/errors"
)

// Validator validates request structs using their validate tags. Field
// names in messages come from the query, then the json tag.
type Validator struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewValidator creates a validator with the custom rules registered
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("stationcode", isStationCode)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"query", "param", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return &Validator{
		validator: v,
		logger:    logger.With(slog.String("component", "validator")),
	}
}

// ValidateStruct validates a struct and returns validation errors
func (m *Validator) ValidateStruct(v interface{}) error {
	err := m.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apierrors.ErrInvalidRequest
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	m.logger.Debug("request validation failed", slog.Int("errors", len(validationErrors)))

	return apierrors.NewValidationErrors(validationErrors)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "numeric":
		return fmt.Sprintf("%s must be numeric", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "stationcode":
		return fmt.Sprintf("%s must be a station code such as 28079035", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isStationCode accepts what the extractor can split into its three parts
func isStationCode(fl validator.FieldLevel) bool {
	_, err := airquality.ParseStationCode(fl.Field().String())
	return err == nil
}

// QueryParamValidator parses query parameters, answering with a validation
// problem when a value is malformed
type QueryParamValidator struct {
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewQueryParamValidator creates a new query parameter validator
func NewQueryParamValidator(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *QueryParamValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryParamValidator{
		logger:       logger.With(slog.String("component", "query_validator")),
		errorHandler: errorHandler,
	}
}

// ValidateInt parses an integer query parameter
func (v *QueryParamValidator) ValidateInt(w http.ResponseWriter, r *http.Request, param string, defaultValue int) (int, bool) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, true
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		v.errorHandler.HandleError(w, r, apierrors.ErrValidation(param, fmt.Sprintf("%s must be a valid integer", param)))
		return 0, false
	}
	return intValue, true
}

// ValidateBool parses a boolean query parameter
func (v *QueryParamValidator) ValidateBool(w http.ResponseWriter, r *http.Request, param string, defaultValue bool) (bool, bool) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, true
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		v.errorHandler.HandleError(w, r, apierrors.ErrValidation(param, fmt.Sprintf("%s must be true or false", param)))
		return false, false
	}
	return b, true
}
