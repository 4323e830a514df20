package domain

import (
	"strings"

	"fish_and_follow_backend/platform/validator"
)

// RegisterValidations adds the contact_year and contact_gender tags backed
// by Years and Genders.
func RegisterValidations(val *validator.Validator) error {
	if err := val.RegisterRule("contact_year", IsValidYear, "must be one of "+strings.Join(Years, ", ")); err != nil {
		return err
	}
	return val.RegisterRule("contact_gender", IsValidGender, "must be one of "+strings.Join(Genders, ", "))
}
