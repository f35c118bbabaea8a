package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued token stays valid
const DefaultTokenTTL = 2 * time.Hour

// ErrInvalidToken wraps every reason a bearer token is rejected
var ErrInvalidToken = errors.New("invalid token")

// Identity is the verified caller behind a token
type Identity struct {
	UserID int64
	Email  string
}

// Claims are the JWT claims carried by an access token
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens
type TokenIssuer struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// Option configures a TokenIssuer
type Option func(*TokenIssuer)

// WithClock overrides the time source used for issuing and verifying
func WithClock(now func() time.Time) Option {
	return func(t *TokenIssuer) { t.now = now }
}

// WithTTL overrides DefaultTokenTTL
func WithTTL(ttl time.Duration) Option {
	return func(t *TokenIssuer) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

// NewTokenIssuer creates an issuer for the given signing key, issuer and audience
func NewTokenIssuer(key []byte, issuer, audience string, opts ...Option) *TokenIssuer {
	t := &TokenIssuer{
		key:      key,
		issuer:   issuer,
		audience: audience,
		ttl:      DefaultTokenTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Issue returns a signed token for the user
func (t *TokenIssuer) Issue(userID int64, email string) (string, error) {
	now := t.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	if t.audience != "" {
		claims.Audience = jwt.ClaimStrings{t.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature, algorithm, issuer, audience and expiry and
// returns the identity in the token
func (t *TokenIssuer) Verify(tokenString string) (Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}
	if t.audience != "" {
		opts = append(opts, jwt.WithAudience(t.audience))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return t.key, nil },
		opts...,
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Identity{}, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}
	return Identity{UserID: userID, Email: claims.Email}, nil
}
