package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	errNonPositiveLength = errors.New("length must be positive")
	accountNumberSpace   = big.NewInt(10)
)

// GenerateAccountNumber returns a uniformly random string of length decimal digits.
// Leading zeros are kept.
func GenerateAccountNumber(length int) (string, error) {
	if length <= 0 {
		return "", errNonPositiveLength
	}
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		d, err := rand.Int(rand.Reader, accountNumberSpace)
		if err != nil {
			return "", fmt.Errorf("failed to read random digit: %w", err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}

// GenerateSecureRandomString hex encodes n random bytes, so the result is 2n characters long.
// Used for OAuth state values.
func GenerateSecureRandomString(n int) (string, error) {
	if n <= 0 {
		return "", errNonPositiveLength
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
