package domain

import "strings"

// NormalizeEmail is applied at every entry point so OTP keys, participant
// lookups and ticket paths agree on one spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
