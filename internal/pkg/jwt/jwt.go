package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSigningMethod is returned when the token is not HS512.
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")

	// ErrSigningKeyTooShort is returned when the HS512 key is under 64 bytes.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")

	// ErrTokenExpired is returned when exp is in the past. Claims are still
	// returned alongside it.
	ErrTokenExpired = errors.New("JWT token has expired")

	// ErrInvalidToken is returned for malformed tokens and bad signatures.
	ErrInvalidToken = errors.New("invalid token")

	// ErrWrongTokenType is returned when an access token is used as a refresh
	// token or the other way around.
	ErrWrongTokenType = errors.New("unexpected token type")
)

// TokenType is the value of the "typ" claim.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// JWT generates and verifies session tokens.
type JWT interface {
	Generate(sub Subject, typ TokenType) (Token, error)
	Verify(tokenStr string, typ TokenType) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type jwtContextKey struct{}

// Config defines the inputs for building a JWT implementation.
type Config struct {
	Secret     []byte
	Issuer     string
	Audiences  []string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Clock      clocker
	UUID       generator
}

// Subject is the identity a token is minted for.
type Subject struct {
	UserID int64
	Email  string
	Phone  string
}

// Token is a signed token plus the claims a caller usually needs next.
type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
	TTL       time.Duration
}

// Claims wraps the registered claims with the session payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64     `json:"user_id,string"`
	UserEmail string    `json:"user_email,omitempty"`
	UserPhone string    `json:"user_phone,omitempty"`
	Type      TokenType `json:"typ"`
}

// GetAuth returns the claims stored in ctx by the auth middleware, if any.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(jwtContextKey{}).(Claims)
	if !ok {
		return nil
	}

	return &clm
}

// SetAuth stores claims in ctx.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}
