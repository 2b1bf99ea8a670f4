// Package validation applies the declarative field rules for car payloads.
// The rule set lives as validate tags on model.CarInput; this package owns
// the validator instance and the human-readable message per field/rule.
// All rules are evaluated and every violation is reported, so a client can
// fix a payload in one round-trip instead of resubmitting per error.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/car-listing-api/internal/model"
)

// FieldError names one violated rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report violations under the json field names clients actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// carMessages maps field name to the message reported for any violated
// rule on that field.
var carMessages = map[string]string{
	"brand":     "brand is required",
	"model":     "model is required",
	"year":      "year must be an integer between 1886 and 2030",
	"mileage":   "mileage must be a non-negative integer",
	"image_url": "image_url must be a well-formed URL",
}

// CheckCar evaluates every rule against the payload and returns the full
// ordered list of violations, or nil when the payload is valid.
func CheckCar(in model.CarInput) []FieldError {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "payload", Message: "invalid payload"}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := carMessages[fe.Field()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		out = append(out, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
