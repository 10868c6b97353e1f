package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account allowed to use the API.
type User struct {
	ID           string    `json:"id"        gorm:"column:id;type:uuid;primaryKey"`
	Username     string    `json:"username"  gorm:"column:username;uniqueIndex:idx_users_username;not null"`
	PasswordHash string    `json:"-"         gorm:"column:password_hash;not null"`
	IsActive     bool      `json:"isActive"  gorm:"column:is_active;not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the id when the caller did not.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Profile is the public view of a user. It has no password field at all, so
// the hash cannot leak through any response built from it.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
