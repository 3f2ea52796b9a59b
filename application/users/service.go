package users

import (
	"context"
	"fmt"
	"strings"

	"boleteria/common"
	"boleteria/internal/auth"

	"go.uber.org/zap"
)

type CreateUserInput struct {
	Name           string        `json:"name" binding:"required,max=50"`
	Identification string        `json:"identification" binding:"required,number,min=8,max=10"`
	Email          string        `json:"email" binding:"required,email,max=160"`
	Password       string        `json:"password" binding:"required,min=6,max=72"`
	Roles          []common.Role `json:"roles"`
}

// UpdateUserInput changes name and email. Password is rehashed only when
// supplied, roles only when non-empty.
type UpdateUserInput struct {
	Name     string        `json:"name" binding:"required,max=50"`
	Email    string        `json:"email" binding:"required,email,max=160"`
	Password string        `json:"password" binding:"omitempty,min=6,max=72"`
	Roles    []common.Role `json:"roles"`
}

type Service struct {
	repo   *Repository
	hasher *auth.PasswordHasher
	log    *zap.Logger
}

// NewService creates a new Service
func NewService(repo *Repository, hasher *auth.PasswordHasher, z *zap.Logger) *Service {
	if z == nil {
		z = zap.NewNop()
	}
	return &Service{repo: repo, hasher: hasher, log: z.Named("users")}
}

// List returns all users
func (s *Service) List(ctx context.Context) ([]common.User, error) {
	return s.repo.FindAll(ctx)
}

// Get returns one user or ErrNotFound
func (s *Service) Get(ctx context.Context, id uint) (*common.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Create checks uniqueness, defaults the role to USER and hashes the password
func (s *Service) Create(ctx context.Context, input CreateUserInput) (*common.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := s.ensureAvailable(ctx, email, input.Identification, 0); err != nil {
		return nil, err
	}

	roles := common.Roles(input.Roles)
	if len(roles) == 0 {
		roles = common.Roles{common.RoleUser}
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &common.User{
		Name:           strings.TrimSpace(input.Name),
		Identification: input.Identification,
		Email:          email,
		PasswordHash:   hash,
		Roles:          roles,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user created", zap.Uint("userId", user.ID), zap.Strings("roles", roles.Tags()))
	return user, nil
}

// Update changes name and email, plus password and roles when given
func (s *Service) Update(ctx context.Context, id uint, input UpdateUserInput) (*common.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := s.ensureAvailable(ctx, email, "", id); err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(input.Name)
	user.Email = email
	if input.Password != "" {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if len(input.Roles) > 0 {
		user.Roles = common.Roles(input.Roles)
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete refuses to remove a seller that has tickets credited to them. A
// missing user is not an error.
func (s *Service) Delete(ctx context.Context, id uint) error {
	count, err := s.repo.CountTickets(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: user %d has %d tickets", common.ErrInvalidState, id, count)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ensureAvailable(ctx context.Context, email, identification string, exceptID uint) error {
	emailTaken, idTaken, err := s.repo.Taken(ctx, email, identification, exceptID)
	if err != nil {
		return err
	}
	if emailTaken {
		return fmt.Errorf("%w: email already in use", common.ErrInvalidArgument)
	}
	if idTaken {
		return fmt.Errorf("%w: identification already in use", common.ErrInvalidArgument)
	}
	return nil
}
