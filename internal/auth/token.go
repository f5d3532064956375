package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is how long a parent unlock token stays valid.
const TokenTTL = 30 * time.Minute

// TokenIssuer mints and verifies the short-lived bearer tokens handed out
// after a successful PIN unlock.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), now: time.Now}
}

// SetNow overrides the issuer clock. Tests only.
func (i *TokenIssuer) SetNow(now func() time.Time) {
	i.now = now
}

// Mint returns a signed HS256 token for the parent role.
func (i *TokenIssuer) Mint() (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   "parent",
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify reports whether the token is well-formed, signed with our secret,
// and unexpired.
func (i *TokenIssuer) Verify(token string) bool {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil {
		return false
	}
	return parsed.Valid
}
