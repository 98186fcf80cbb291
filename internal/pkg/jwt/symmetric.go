package jwt

import (
	"errors"
	"strconv"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// Symmetric signs and verifies tokens with one HMAC secret.
type Symmetric struct {
	secret     []byte
	issuer     string
	audiences  []string
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      clocker
	uuid       generator
}

// NewHS512 constructs a Symmetric JWT using HS512.
func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < 64 {
		return nil, ErrSigningKeyTooShort
	}

	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}

	return &Symmetric{
		secret:     cfg.Secret,
		issuer:     cfg.Issuer,
		audiences:  cfg.Audiences,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		clock:      cfg.Clock,
		uuid:       cfg.UUID,
	}, nil
}

func (s *Symmetric) ttl(typ TokenType) time.Duration {
	if typ == TokenRefresh {
		return s.refreshTTL
	}
	return s.accessTTL
}

// Generate signs a token of the given type for sub.
func (s *Symmetric) Generate(sub Subject, typ TokenType) (Token, error) {
	now := s.clock.Now()
	ttl := s.ttl(typ)
	jti := s.uuid.Generate()
	exp := now.Add(ttl)

	signed, err := libJWT.
		NewWithClaims(libJWT.SigningMethodHS512, Claims{
			RegisteredClaims: libJWT.RegisteredClaims{
				ID:        jti,
				Subject:   strconv.FormatInt(sub.UserID, 10),
				Issuer:    s.issuer,
				Audience:  s.audiences,
				IssuedAt:  libJWT.NewNumericDate(now),
				NotBefore: libJWT.NewNumericDate(now),
				ExpiresAt: libJWT.NewNumericDate(exp),
			},
			UserID:    sub.UserID,
			UserEmail: sub.Email,
			UserPhone: sub.Phone,
			Type:      typ,
		}).
		SignedString(s.secret)
	if err != nil {
		return Token{}, err
	}

	return Token{Value: signed, ID: jti, ExpiresAt: exp, TTL: ttl}, nil
}

// Verify checks signature, issuer, audience, expiry and type.
// When the only problem is expiry it returns the claims together with
// ErrTokenExpired.
func (s *Symmetric) Verify(tokenStr string, typ TokenType) (Claims, error) {
	var claims Claims

	token, err := libJWT.ParseWithClaims(tokenStr, &claims,
		func(t *libJWT.Token) (any, error) {
			if t.Method != libJWT.SigningMethodHS512 {
				return nil, ErrInvalidSigningMethod
			}
			return s.secret, nil
		},
		libJWT.WithIssuer(s.issuer),
		libJWT.WithAudience(s.audiences...),
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
		libJWT.WithTimeFunc(s.clock.Now),
	)

	switch {
	case errors.Is(err, libJWT.ErrTokenExpired) && claims.Type == typ:
		return claims, ErrTokenExpired
	case err != nil:
		return Claims{}, errors.Join(ErrInvalidToken, err)
	case !token.Valid:
		return Claims{}, ErrInvalidToken
	case claims.Type != typ:
		return Claims{}, ErrWrongTokenType
	}

	return claims, nil
}
