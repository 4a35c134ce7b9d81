package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	min = 100000
	max = 999999
)

// Generate returns a 6-digit numeric one-time passcode, uniformly
// distributed over [100000, 999999]. The leading digit is never zero, so
// the code is always exactly six digits.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return "", fmt.Errorf("generate OTP: %w", err)
	}
	return fmt.Sprintf("%d", min+n.Int64()), nil
}
