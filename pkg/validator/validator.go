package validator

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	// "date" accepts YYYY-MM-DD strings
	validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, err := range verrs {
				var element ErrorResponse
				element.FailedField = err.StructNamespace()
				element.Tag = err.Tag()
				element.Value = err.Param()
				errors = append(errors, &element)
			}
		}
	}
	return errors
}
