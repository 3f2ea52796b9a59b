package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"boleteria/common"
	tokens "boleteria/internal/auth"

	"go.uber.org/zap"
)

// ErrBadCredentials covers both an unknown email and a wrong password.
var ErrBadCredentials = fmt.Errorf("%w: incorrect email or password", common.ErrUnauthenticated)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// UserFinder is the part of the users repository login needs.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*common.User, error)
}

type Service struct {
	users   UserFinder
	hasher  *tokens.PasswordHasher
	tokens  *tokens.TokenService
	revoker tokens.Revoker
	log     *zap.Logger
}

// NewService creates a new Service
func NewService(users UserFinder, hasher *tokens.PasswordHasher, ts *tokens.TokenService, revoker tokens.Revoker, z *zap.Logger) *Service {
	if z == nil {
		z = zap.NewNop()
	}
	return &Service{users: users, hasher: hasher, tokens: ts, revoker: revoker, log: z.Named("auth")}
}

// Login verifies the credentials and issues a token. Unknown email and wrong
// password fail the same way.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(user.PasswordHash, req.Password) {
		s.log.Info("login rejected", zap.Uint("userId", user.ID))
		return nil, ErrBadCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Roles)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, ExpiresIn: int64(s.tokens.TTL().Seconds())}, nil
}

// Logout revokes the presented token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, principal *tokens.Principal) error {
	if s.revoker == nil || principal.TokenID == "" {
		return nil
	}
	return s.revoker.Revoke(ctx, principal.TokenID, principal.ExpiresAt)
}
