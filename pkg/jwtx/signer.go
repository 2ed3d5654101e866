package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeyBytes is the smallest signing key the signer accepts. Anything
// shorter has too little entropy to back an HMAC.
const MinKeyBytes = 16

var (
	// ErrKeyTooShort reports a misconfigured signing key. This is an
	// infrastructure failure, not an authentication failure.
	ErrKeyTooShort = errors.New("jwtx: signing key must be at least 16 bytes")

	// ErrInvalidToken covers every verification failure: bad signature,
	// wrong algorithm, expired, not yet valid, wrong issuer, garbage input.
	ErrInvalidToken = errors.New("jwtx: token verification failed")
)

// Signer mints and validates bearer tokens with one symmetric key and one
// fixed algorithm (HMAC-SHA-512). Both are set at construction time and never
// chosen per request, which closes off algorithm-confusion attacks.
type Signer struct {
	key    []byte
	issuer string
}

// NewSigner validates the key and returns a ready signer. The issuer, when
// non-empty, is stamped into minted tokens and enforced on verification.
func NewSigner(key []byte, issuer string) (*Signer, error) {
	if len(key) < MinKeyBytes {
		return nil, ErrKeyTooShort
	}

	s := &Signer{key: make([]byte, len(key)), issuer: issuer}
	copy(s.key, key)
	return s, nil
}

// Issuer returns the issuer stamped into minted tokens.
func (s *Signer) Issuer() string { return s.issuer }

// Sign serializes and signs the claims with HS512.
func (s *Signer) Sign(c Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, c)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwtx: signing failed: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning its claims. Only
// HS512 signatures made with this signer's key pass; exp/nbf and, when
// configured, the issuer are enforced by the parser.
func (s *Signer) Verify(raw string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	}, opts...)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
