// internal/app/system/inputval/fields.go
package inputval

import (
	"regexp"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used to parse phone numbers written without a country code.
const DefaultRegion = "US"

// MinUsernameLen is the shortest accepted username.
const MinUsernameLen = 3

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidUsername reports whether name may be registered. Names shorter than
// MinUsernameLen, names with characters outside [A-Za-z0-9_], and names that
// contain "admin" or product (case-insensitive) are rejected.
func ValidUsername(name, product string) bool {
	if len(name) < MinUsernameLen || !usernamePattern.MatchString(name) {
		return false
	}
	folded := text.Fold(name)
	if strings.Contains(folded, "admin") {
		return false
	}
	if p := text.Fold(product); p != "" && strings.Contains(folded, p) {
		return false
	}
	return true
}

// IsValidEmail checks address syntax only. Display-name forms
// ("Name <a@b.c>") and surrounding whitespace are rejected.
func IsValidEmail(email string) bool {
	if email == "" || strings.TrimSpace(email) != email || strings.ContainsAny(email, " <>") {
		return false
	}
	return validate.Var(email, "email") == nil
}

// CanonicalPhone parses s in region and returns it in international format.
// A number already in international format comes back unchanged.
func CanonicalPhone(s, region string) (string, bool) {
	num, err := phonenumbers.Parse(s, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL), true
}
