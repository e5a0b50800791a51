package otp

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// ErrInvalidPasscodeLength is returned when the configured length is not usable.
var ErrInvalidPasscodeLength = errors.New("otp: passcode length must be between 4 and 10 digits")

// digits is the character set used for numeric passcodes.
const digits = "0123456789"

// PasscodeGenerator produces random numeric passcodes for delivery over a
// side channel (email).
type PasscodeGenerator interface {
	// Generate returns a fixed-length numeric passcode or an error if the
	// random source fails.
	Generate() (string, error)
	// Length returns the configured passcode length.
	Length() int
}

// NumericPasscode generates cryptographically secure numeric passcodes.
//
// Every digit is selected uniformly at random from 0-9 using crypto/rand, so
// codes cannot be predicted from previous issuances.
type NumericPasscode struct {
	length int
}

// NewNumericPasscode returns a generator producing codes of the given length.
func NewNumericPasscode(length int) (*NumericPasscode, error) {
	if length < 4 || length > 10 {
		return nil, ErrInvalidPasscodeLength
	}

	return &NumericPasscode{length: length}, nil
}

// Generate produces one numeric passcode.
func (p *NumericPasscode) Generate() (string, error) {
	var sb strings.Builder
	sb.Grow(p.length)

	for i := 0; i < p.length; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		sb.WriteByte(digits[idx.Int64()])
	}

	return sb.String(), nil
}

// Length returns the configured passcode length.
func (p *NumericPasscode) Length() int {
	return p.length
}
