package utils

import (
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	// Custom validations
	v.RegisterValidation("worksheet_tier", validateWorksheetTier)
	v.RegisterValidation("identifier", validateIdentifier)

	return &Validator{
		validate: v,
	}
}

func (v *Validator) Struct(s any) error {
	return v.validate.Struct(s)
}

func validateWorksheetTier(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "foundational", "skill_builder", "mastery":
		return true
	}
	return false
}

// Normalize edilmiş haliyle e-posta ya da telefon olmalı
func validateIdentifier(fl validator.FieldLevel) bool {
	kind, _ := NormalizeIdentifier(fl.Field().String())
	return kind != IdentifierInvalid
}

// Var tek bir değeri tag'e göre doğrular
func (v *Validator) Var(field any, tag string) error {
	return v.validate.Var(field, tag)
}
