package qrtoken

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
)

const byteLen = 32

var ErrMalformed = errors.New("malformed qr token")

// New returns a 64-character hex token for rendering into a QR image.
func New() (string, error) {
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func Validate(token string) error {
	if len(token) != byteLen*2 {
		return ErrMalformed
	}
	if _, err := hex.DecodeString(token); err != nil {
		return ErrMalformed
	}
	return nil
}
