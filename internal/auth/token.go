package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"employee-directory/internal/domain"
)

// TokenTTL is the validity window of issued tokens.
const TokenTTL = time.Hour

var (
	// ErrSecretMissing is returned when no signing secret is configured.
	ErrSecretMissing = domain.Config("signing secret missing")
	// ErrInvalidToken is returned for malformed, forged or expired tokens.
	ErrInvalidToken = domain.Auth("invalid token")
	// ErrNoToken is returned when a request carries no bearer token.
	ErrNoToken = domain.Auth("no token provided")
)

// Claims is the payload of an issued token.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// IssuedAtTime returns the iat claim, or the zero time when it is absent.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtTime returns the exp claim, or the zero time when it is absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// TokenIssuer signs and verifies HS256 tokens with a process-wide secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer fails with a config error when secret is blank.
func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretMissing
	}
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
	}, nil
}

// Issue signs a token for subjectID that expires one TTL after issuance.
func (i *TokenIssuer) Issue(subjectID string) (string, error) {
	if i == nil || len(i.secret) == 0 {
		return "", ErrSecretMissing
	}
	now := i.now()
	claims := Claims{
		UserID: subjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", &domain.Error{Kind: domain.KindConfig, Message: "sign token", Err: err}
	}
	return signed, nil
}

// Verify checks the signature, algorithm and expiry of token and returns its claims.
func (i *TokenIssuer) Verify(token string) (*Claims, error) {
	if i == nil || len(i.secret) == 0 {
		return nil, ErrSecretMissing
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindAuth, Message: ErrInvalidToken.Message, Err: err}
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenFromHeader extracts the token of an "Authorization: Bearer <token>" header value.
func TokenFromHeader(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrNoToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}

// IsExpired reports whether err was caused by an expired token.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
