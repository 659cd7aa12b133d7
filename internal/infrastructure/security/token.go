package security

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// Claims is the JWT payload carried by access tokens.
type Claims struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService builds a TokenService signing with secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for identity that expires after ttl.
func (ts *TokenService) Issue(identity domain.Identity, ttl time.Duration) (string, error) {
	if len(ts.secret) == 0 {
		return "", errors.New("token service: empty signing secret")
	}
	if ttl <= 0 {
		return "", errors.New("token service: ttl must be positive")
	}

	now := ts.now()
	claims := &Claims{
		ID:    identity.ID,
		Email: identity.Email,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
}

// Verify validates signature, algorithm and expiry. Any failure is reported
// as domain.ErrInvalidToken so callers never see parser details.
func (ts *TokenService) Verify(token string) (domain.Identity, error) {
	if token == "" || len(ts.secret) == 0 {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return ts.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	)
	if err != nil {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ID == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	return domain.Identity{ID: claims.ID, Email: claims.Email, Role: claims.Role}, nil
}
