package middleware

import (
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/bizdesk/erp/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// safeFolderPattern limits upload folders to a single safe path segment
var safeFolderPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// SetupValidator configures gin's validator: JSON names in errors, decimal
// fields validated as numbers and the custom tags safe_folder,
// decimal_positive and decimal_gte0
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	RegisterValidations(v)
}

// RegisterValidations installs the custom tags on v
func RegisterValidations(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("safe_folder", func(fl validator.FieldLevel) bool {
		return IsSafeFolder(fl.Field().String())
	})
	_ = v.RegisterValidation("decimal_positive", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.Float64 && fl.Field().Float() > 0
	})
	_ = v.RegisterValidation("decimal_gte0", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.Float64 && fl.Field().Float() >= 0
	})
}

// IsSafeFolder reports whether name is a valid upload folder
func IsSafeFolder(name string) bool {
	return safeFolderPattern.MatchString(name)
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	}

	message := "Request validation failed"
	if len(details) == 0 {
		message = "Malformed request: " + err.Error()
	}
	return dto.NewValidationErrorResponse(message, requestID, details)
}

// HandleValidationError returns a validation error response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, c.GetString(RequestIDKey)))
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "len":
		return "Must be exactly " + e.Param() + " characters"
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "url", "http_url":
		return "Invalid URL format"
	case "safe_folder":
		return "May only contain letters, digits, '-' and '_'"
	case "decimal_positive":
		return "Must be greater than zero"
	case "decimal_gte0":
		return "Must not be negative"
	default:
		return "Invalid value"
	}
}
