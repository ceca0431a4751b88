package cryptox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOTPGenerator_Defaults(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	code, expiresAt, err := OTPGenerator{}.Generate(now)
	require.NoError(t, err)
	require.Len(t, code, 6)
	require.Regexp(t, `^[0-9]{6}$`, code)
	require.Equal(t, now.Add(10*time.Minute), expiresAt)
}

func TestOTPGenerator_CustomTTLAndLength(t *testing.T) {
	now := time.Now()

	code, expiresAt, err := OTPGenerator{Digits: 8, TTL: time.Minute}.Generate(now)
	require.NoError(t, err)
	require.Regexp(t, `^[0-9]{8}$`, code)
	require.Equal(t, now.Add(time.Minute), expiresAt)
}

func TestOTPGenerator_RejectsUnsupportedLength(t *testing.T) {
	_, _, err := OTPGenerator{Digits: 5}.Generate(time.Now())
	require.Error(t, err)
}

func TestOTPGenerator_SpreadsAcrossDigitRange(t *testing.T) {
	g := OTPGenerator{}
	seen := make(map[string]struct{})
	firstDigits := make(map[byte]struct{})

	for range 500 {
		code, _, err := g.Generate(time.Now())
		require.NoError(t, err)
		seen[code] = struct{}{}
		firstDigits[code[0]] = struct{}{}
	}

	// 500 draws from a million codes should almost never collide, and every
	// leading digit (including 0) should show up.
	require.Greater(t, len(seen), 490)
	require.Len(t, firstDigits, 10)
}
