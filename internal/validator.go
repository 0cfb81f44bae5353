package internal

import (
	"NYCU-SDC/survey-builder/internal/questiontype"
	"NYCU-SDC/survey-builder/internal/survey"

	"github.com/go-playground/validator/v10"
)

func NewValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		if id == "" {
			return true
		}
		r, err := questiontype.Default()
		return err == nil && r.IsValid(questiontype.Type(id))
	})

	_ = v.RegisterValidation("question_category", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		if id == "" {
			return true
		}
		r, err := questiontype.Default()
		return err == nil && r.IsValidCategory(questiontype.Category(id))
	})

	_ = v.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		if id == "" {
			return true
		}
		_, ok := survey.ThemeByID(id)
		return ok
	})

	return v
}

func ValidateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err != nil {
		return err
	}
	return nil
}
