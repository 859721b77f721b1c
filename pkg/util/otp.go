package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTPExpiry is how long a one-time code stays valid after issuance
const OTPExpiry = 10 * time.Minute

// GenerateOTP returns a random 6-digit code drawn from [100000, 999999]
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
