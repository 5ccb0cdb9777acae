package pkg

import (
	"crypto/rand"
	"math/big"
)

const resetCodeDigits = 6

var ten = big.NewInt(10)

// NewResetCode returns a zero-padded decimal code drawn from crypto/rand.
func NewResetCode() (string, error) {
	buf := make([]byte, resetCodeDigits)
	for i := range buf {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		buf[i] = '0' + byte(d.Int64())
	}
	return string(buf), nil
}
