package handler

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/timesheet-reporting/internal/apperr"
)

var (
	lettersOnly = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	sliceIndex  = regexp.MustCompile(`\[\d+\]`)
)

// messages maps "<json field>.<tag>" to the client-facing message.  Slice
// elements share their field's entry with the index removed.
var messages = map[string]string{
	"name.required": "Name is required.",
	"name.notblank": "Name cannot be empty.",
	"name.letters":  "Name can only contain letters.",

	"email.required": "Email is required.",
	"email.notblank": "Email cannot be empty.",
	"email.email":    "Email is invalid.",

	"password.required": "Password is required.",
	"password.min":      "Password must be 8 - 20 characters long.",
	"password.max":      "Password must be 8 - 20 characters long.",

	"client.required":      "Client is required.",
	"client.notblank":      "Client cannot be empty.",
	"position.required":    "Position is required.",
	"position.notblank":    "Position cannot be empty.",
	"siteAddress.required": "Site address is required.",
	"siteAddress.notblank": "Site address cannot be empty.",

	"date.required":      "Date is required.",
	"date.notblank":      "Date cannot be empty.",
	"date.rfc3339":       "Date is invalid.",
	"startTime.required": "Start time is required.",
	"startTime.notblank": "Start time cannot be empty.",
	"startTime.rfc3339":  "Start time is invalid.",
	"endTime.required":   "End time is required.",
	"endTime.notblank":   "End time cannot be empty.",
	"endTime.rfc3339":    "End time is invalid.",

	"type.required":          "Type is invalid.",
	"type.oneof":             "Type is invalid.",
	"address.required":       "Address is required.",
	"address.notblank":       "Address cannot be empty.",
	"clientName.required":    "Client name is required.",
	"clientName.notblank":    "Client name cannot be empty.",
	"clientName.letters":     "Client name can only contain letters.",
	"title.required":         "Title is required.",
	"title.notblank":         "Title cannot be empty.",
	"dateOfService.required": "Date of service is required.",
	"dateOfService.notblank": "Date of service cannot be empty.",
	"dateOfService.rfc3339":  "Date of service is invalid.",
	"images.min":             "At least one image is required.",
	"images.max":             "Up to 20 images are allowed.",
	"images.required":        "Image is required.",
	"images.notblank":        "Image cannot be empty.",
	"images.url":             "Image is invalid.",

	"assetsIds.required": "Asset is required.",
	"assetsIds.notblank": "Asset cannot be empty.",
}

// Validator adapts go-playground/validator to echo.Validator and turns the
// first failing rule into a Validation error with a readable message.
type Validator struct {
	v *validator.Validate
}

// NewValidator registers the custom rules used by the request types:
// notblank (not only whitespace), letters (ASCII letters and spaces) and
// rfc3339 (a parseable RFC 3339 timestamp).
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("letters", func(fl validator.FieldLevel) bool {
		return lettersOnly.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("rfc3339", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.RFC3339, strings.TrimSpace(fl.Field().String()))
		return err == nil
	})
	return &Validator{v: v}
}

// Validate implements echo.Validator.
func (cv *Validator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("Invalid request body.")
	}
	return apperr.Validation(messageFor(verrs[0]))
}

// parseInstant parses the RFC 3339 value of the named json field and
// reports failure with that field's message.
func parseInstant(field, raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, apperr.Validation(messages[field+".rfc3339"])
	}
	return t, nil
}

func messageFor(fe validator.FieldError) string {
	field := sliceIndex.ReplaceAllString(fe.Field(), "")
	if msg, ok := messages[field+"."+fe.Tag()]; ok {
		return msg
	}
	return "Invalid value for " + field + "."
}
