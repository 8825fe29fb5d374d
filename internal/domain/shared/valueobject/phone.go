package valueobject

import (
	"regexp"

	"github.com/Yousefaborizk/moonstar/internal/domain/shared"
)

// phonePattern accepts an optional leading "+" and 9 to 15 digits,
// e.g. "+201234567890".
var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// PhoneNumber is a validated phone number value object
type PhoneNumber struct {
	value string
}

// NewPhoneNumber creates a PhoneNumber, validating the format
func NewPhoneNumber(value string) (PhoneNumber, error) {
	if !phonePattern.MatchString(value) {
		return PhoneNumber{}, shared.NewValidationError("Phone number must be entered in the format: '+999999999', 9 to 15 digits")
	}
	return PhoneNumber{value: value}, nil
}

// String returns the raw phone number
func (p PhoneNumber) String() string {
	return p.value
}

// IsZero returns true when the phone number is unset
func (p PhoneNumber) IsZero() bool {
	return p.value == ""
}
