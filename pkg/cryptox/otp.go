package cryptox

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

const (
	DefaultOTPDigits = 6
	DefaultOTPTTL    = 10 * time.Minute

	otpKeySize = 20 // 160 bits, the RFC 4226 recommended key length
)

// OTPGenerator issues one-time numeric codes for email challenges. Every call
// derives an HOTP value from a key and counter drawn fresh from crypto/rand,
// so codes are unpredictable and independent of each other. Codes keep their
// leading zeros.
type OTPGenerator struct {
	Digits int
	TTL    time.Duration
}

// Generate returns a code and the absolute time it stops being valid.
func (g OTPGenerator) Generate(now time.Time) (string, time.Time, error) {
	digits, err := otpDigits(g.Digits)
	if err != nil {
		return "", time.Time{}, err
	}

	ttl := g.TTL
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}

	buf := make([]byte, otpKeySize+8)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("cryptox: read otp entropy: %w", err)
	}
	secret := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf[:otpKeySize])
	counter := binary.BigEndian.Uint64(buf[otpKeySize:])

	code, err := hotp.GenerateCodeCustom(secret, counter, hotp.ValidateOpts{
		Digits:    digits,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("cryptox: generate otp: %w", err)
	}

	return code, now.Add(ttl), nil
}

func otpDigits(n int) (otp.Digits, error) {
	switch n {
	case 0, 6:
		return otp.DigitsSix, nil
	case 8:
		return otp.DigitsEight, nil
	default:
		return 0, fmt.Errorf("cryptox: unsupported otp length %d", n)
	}
}
