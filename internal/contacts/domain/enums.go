// Package domain holds the contact shape shared by the storage, service and
// transport layers: the enumerations and the projectable field registry.
package domain

// Years is the ordered set of study years a contact can be in.
var Years = []string{"1", "2", "3", "4", "5", "Master", "PhD"}

// Genders is the set of accepted gender values.
var Genders = []string{"male", "female", "other", "prefer_not_to_say"}

// IsValidYear reports whether value is a member of Years.
func IsValidYear(value string) bool {
	return contains(Years, value)
}

// IsValidGender reports whether value is a member of Genders.
func IsValidGender(value string) bool {
	return contains(Genders, value)
}

// MaxNotesLength bounds the free text notes field.
const MaxNotesLength = 1000

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
