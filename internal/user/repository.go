package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/username/alarm-api/internal/apperr"
)

// Repository persists users.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Create inserts u. A username collision, whether caught by the lookup or by
// the unique index under a concurrent insert, is reported as a conflict.
func (r *Repository) Create(ctx context.Context, u *User) error {
	ctx = context.WithoutCancel(ctx)

	taken, err := r.UsernameTaken(ctx, u.Username)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("username already exists")
	}

	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("username already exists")
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (r *Repository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&User{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return false, fmt.Errorf("checking username: %w", err)
	}
	return n > 0, nil
}

// FindByUsername returns nil, nil when no user matches.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.first(ctx, "username = ?", username)
}

// FindByID returns nil, nil when no user matches.
func (r *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := r.DB.WithContext(ctx).Where(query, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return &u, nil
}
