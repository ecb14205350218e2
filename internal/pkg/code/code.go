package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const teamCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TeamCodeLength is the length of generated team codes.
const TeamCodeLength = 6

// NewOTP returns a uniformly random 6-digit numeric code in [100000, 999999].
func NewOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// NewTeamCode returns a random code of uppercase letters and digits.
// Codes are not checked for uniqueness.
func NewTeamCode() (string, error) {
	b := make([]byte, TeamCodeLength)
	max := big.NewInt(int64(len(teamCodeAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate team code: %w", err)
		}
		b[i] = teamCodeAlphabet[idx.Int64()]
	}
	return string(b), nil
}
