// Package contact validates bidder contact strings. It is a collaborator of
// the HTTP layer; the admission core treats contact as an opaque,
// pre-validated string.
package contact

import (
	"regexp"

	"github.com/nyaruka/phonenumbers"
)

// defaultRegion is the region used to parse phone numbers without a country
// prefix.
const defaultRegion = "US"

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsValidEmail reports whether value looks like a conventional email address.
func IsValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// IsValidPhone reports whether value parses as a valid phone number in the
// default region.
func IsValidPhone(value string) bool {
	parsed, err := phonenumbers.Parse(value, defaultRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(parsed)
}

// Valid reports whether value is an acceptable bidder contact: a valid email
// address or a valid phone number.
func Valid(value string) bool {
	return IsValidEmail(value) || IsValidPhone(value)
}
