package entity

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone validates a phone number and returns it in E.164 form.
// Numbers must carry their country code since no default region is
// assumed. Failures are ValidationErrors, so no row is ever written for
// an invalid number.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	parsed, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return "", NewValidationError("Invalid phone number format")
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", NewValidationError("Invalid phone number")
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
