package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const DefaultOTPLength = 6

// ==================== OTP ====================

// GenerateOTP returns a numeric code of the given length drawn uniformly from
// [10^(length-1), 10^length - 1], so the code never starts with zero.
// A non-positive length falls back to DefaultOTPLength.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = DefaultOTPLength
	}
	if length > 18 {
		return "", fmt.Errorf("otp length %d exceeds 18 digits", length)
	}

	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length-1)), nil)
	span := new(big.Int).Mul(low, big.NewInt(9))

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("read random otp: %w", err)
	}

	return n.Add(n, low).String(), nil
}
