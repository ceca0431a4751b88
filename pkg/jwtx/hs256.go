package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret accepted, matching the SHA-256
// block output size.
const MinSecretLength = 32

// HS256Signer signs session tokens with a shared HMAC-SHA256 secret.
type HS256Signer struct {
	key []byte
}

// NewSignerHS256 creates a signer. The secret is copied.
func NewSignerHS256(secret []byte) (*HS256Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	return &HS256Signer{key: append([]byte(nil), secret...)}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.key)
}

// HS256Verifier validates tokens produced by an HS256Signer holding the same
// secret.
type HS256Verifier struct {
	key    []byte
	issuer string
	leeway time.Duration
	now    func() time.Time
}

// NewVerifierHS256 creates a verifier. An empty issuer disables the iss check.
func NewVerifierHS256(secret []byte, issuer string) (*HS256Verifier, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	return &HS256Verifier{
		key:    append([]byte(nil), secret...),
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// WithClock replaces the time source used for exp/nbf checks.
func (v *HS256Verifier) WithClock(now func() time.Time) *HS256Verifier {
	v.now = now
	return v
}

// WithLeeway allows for clock skew on exp/nbf checks.
func (v *HS256Verifier) WithLeeway(d time.Duration) *HS256Verifier {
	v.leeway = d
	return v
}

// Verify validates the JWT string and returns its parsed Claims. Signature
// problems surface as ErrInvalidSig, structural ones as ErrMalformed, and
// lifetime ones as ErrExpired or ErrNotYetValid.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	// Time-based claims are checked below against our own clock.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, fmt.Errorf("%w: %v", ErrInvalidSig, err)
		default:
			return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	if !token.Valid {
		return Claims{}, ErrInvalidSig
	}

	if claims.Subject == "" {
		return Claims{}, ErrInvalidClaim
	}
	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiryAt(v.now(), v.leeway); err != nil {
		return Claims{}, err
	}

	return claims, nil
}
