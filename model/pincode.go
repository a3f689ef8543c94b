package models

import "regexp"

var pincodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// ValidPincode reports whether s is a six digit Indian postal code with a
// non-zero first digit.
func ValidPincode(s string) bool {
	return pincodeRe.MatchString(s)
}
