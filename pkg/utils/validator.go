package utils

import (
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("supported_audio", validateAudioType)

	return &Validator{
		validate: v,
	}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

func validateAudioType(fl validator.FieldLevel) bool {
	mimeType := fl.Field().String()
	supportedTypes := map[string]bool{
		"audio/mpeg": true,
		"audio/mp4":  true,
		"audio/aac":  true,
		"audio/ogg":  true,
		"audio/wav":  true,
	}
	return supportedTypes[mimeType]
}
