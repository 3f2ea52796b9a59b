package users

import (
	"context"
	"errors"
	"fmt"

	"boleteria/common"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindAll returns users ordered by name
func (r *Repository) FindAll(ctx context.Context) ([]common.User, error) {
	users := []common.User{}
	if err := r.db.WithContext(ctx).Order("name, id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// FindByID returns ErrNotFound when the user does not exist
func (r *Repository) FindByID(ctx context.Context, id uint) (*common.User, error) {
	return r.first(ctx, fmt.Sprintf("user %d", id), "id = ?", id)
}

// FindByEmail looks a user up by login email
func (r *Repository) FindByEmail(ctx context.Context, email string) (*common.User, error) {
	return r.first(ctx, fmt.Sprintf("user %s", email), "email = ?", email)
}

func (r *Repository) first(ctx context.Context, what string, query string, args ...any) (*common.User, error) {
	var user common.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", common.ErrNotFound, what)
		}
		return nil, fmt.Errorf("failed to find %s: %w", what, err)
	}
	return &user, nil
}

// Taken reports which of email and identification already belong to a user
// other than exceptID.
func (r *Repository) Taken(ctx context.Context, email, identification string, exceptID uint) (emailTaken, idTaken bool, err error) {
	var n int64
	if email != "" {
		if err := r.db.WithContext(ctx).Model(&common.User{}).
			Where("email = ? AND id <> ?", email, exceptID).Count(&n).Error; err != nil {
			return false, false, fmt.Errorf("failed to check email: %w", err)
		}
		emailTaken = n > 0
	}
	if identification != "" {
		if err := r.db.WithContext(ctx).Model(&common.User{}).
			Where("identification = ? AND id <> ?", identification, exceptID).Count(&n).Error; err != nil {
			return false, false, fmt.Errorf("failed to check identification: %w", err)
		}
		idTaken = n > 0
	}
	return emailTaken, idTaken, nil
}

// Create inserts user
func (r *Repository) Create(ctx context.Context, user *common.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "failed to create user")
}

// Save writes every column of user
func (r *Repository) Save(ctx context.Context, user *common.User) error {
	return translate(r.db.WithContext(ctx).Save(user).Error, fmt.Sprintf("failed to update user %d", user.ID))
}

// Delete removes the user; a missing id is not an error
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&common.User{}, id).Error, fmt.Sprintf("failed to delete user %d", id))
}

// CountTickets counts the tickets credited to the user
func (r *Repository) CountTickets(ctx context.Context, id uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&common.Ticket{}).Where("seller_id = ?", id).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tickets for user %d: %w", id, err)
	}
	return count, nil
}

func translate(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: email or identification already in use", common.ErrInvalidArgument)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: user still has tickets", common.ErrInvalidState)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
