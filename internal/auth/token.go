package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/devkit/toolbox-service/internal/domain"
)

// SessionIssuer mints and resolves signed session tokens. A token is only
// issued after successful credential verification; resolution is a pure
// computation performed on every guarded request.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionIssuer builds an issuer with the given signing secret and TTL.
func NewSessionIssuer(secret string, ttl time.Duration) *SessionIssuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims describes the session token payload.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue builds and signs a session token embedding the identity claim.
func (si *SessionIssuer) Issue(claim domain.IdentityClaim) (string, time.Time, error) {
	issuedAt := si.now()
	expiresAt := issuedAt.Add(si.ttl)
	claims := &Claims{
		Name:  claim.Name,
		Email: claim.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claim.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(si.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Resolve verifies a token and returns the embedded identity claim.
// Malformed, tampered, or expired tokens all fail the same way: the
// bearer is unauthenticated.
func (si *SessionIssuer) Resolve(tokenStr string) (*domain.IdentityClaim, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return si.secret, nil
	}, jwt.WithTimeFunc(si.now))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return &domain.IdentityClaim{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
	}, nil
}

// TTL reports the configured session lifetime.
func (si *SessionIssuer) TTL() time.Duration {
	return si.ttl
}
