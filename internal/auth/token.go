// Package auth issues and validates bearer tokens, hashes passwords and keeps
// track of tokens revoked by logout.
package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"boleteria/common"
	"boleteria/internal/clock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinKeySize is the smallest HS256 signing key accepted, in bytes.
const MinKeySize = 32

var (
	ErrMalformedToken = fmt.Errorf("%w: malformed or untrusted token", common.ErrUnauthenticated)
	ErrTokenExpired   = fmt.Errorf("%w: token expired", common.ErrUnauthenticated)
	ErrTokenRevoked   = fmt.Errorf("%w: token revoked", common.ErrUnauthenticated)
)

// Claims is the payload carried by every token. Roles are comma-joined tags
// ("ROLE_ADMIN,ROLE_USER").
type Claims struct {
	UserID uint   `json:"id"`
	Roles  string `json:"roles"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller derived from validated claims.
type Principal struct {
	UserID    uint         `json:"id"`
	Email     string       `json:"email"`
	Roles     common.Roles `json:"roles"`
	TokenID   string       `json:"-"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// TokenService signs tokens with a key supplied at construction. The key is
// never written anywhere, so a generated key makes every token die with the
// process.
type TokenService struct {
	key   []byte
	ttl   time.Duration
	clock clock.Clock
}

// NewTokenService copies key, which must be at least MinKeySize bytes
func NewTokenService(key []byte, ttl time.Duration, clk clock.Clock) (*TokenService, error) {
	if len(key) < MinKeySize {
		return nil, fmt.Errorf("signing key must be at least %d bytes, got %d", MinKeySize, len(key))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &TokenService{key: k, ttl: ttl, clock: clk}, nil
}

// GenerateSigningKey returns a fresh random key of MinKeySize bytes.
func GenerateSigningKey() ([]byte, error) {
	key := make([]byte, MinKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}
	return key, nil
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given user. Expiry is fixed at issue time + ttl.
func (s *TokenService) Issue(userID uint, subject string, roles common.Roles) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		UserID: userID,
		Roles:  roles.Join(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry and returns the claims.
func (s *TokenService) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}

// Validate reports whether token is correctly signed, belongs to
// expectedSubject and has not reached its expiry.
func (s *TokenService) Validate(token, expectedSubject string) bool {
	claims, err := s.Parse(token)
	if err != nil {
		return false
	}
	if claims.Subject != expectedSubject {
		return false
	}
	return s.clock.Now().Before(claims.ExpiresAt.Time)
}

// ExtractUserID reads the numeric id claim.
func (s *TokenService) ExtractUserID(token string) (uint, error) {
	claims, err := s.Parse(token)
	if err != nil {
		return 0, err
	}
	if claims.UserID == 0 {
		return 0, fmt.Errorf("%w: missing id claim", ErrMalformedToken)
	}
	return claims.UserID, nil
}

// Authenticate parses token into a Principal.
func (s *TokenService) Authenticate(token string) (*Principal, error) {
	claims, err := s.Parse(token)
	if err != nil {
		return nil, err
	}
	if claims.UserID == 0 || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing identity claims", ErrMalformedToken)
	}
	roles, err := common.ParseRoles(claims.Roles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return &Principal{
		UserID:    claims.UserID,
		Email:     claims.Subject,
		Roles:     roles,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
