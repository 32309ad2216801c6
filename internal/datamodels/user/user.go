package user

import (
	"context"
	"time"
)

// Roles carried in the JWT.
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

// User is an account. Password is stored hashed with the per-user salt.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:128;not null" json:"email"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Salt      string    `gorm:"size:64" json:"-"`
	Role      string    `gorm:"size:16;index;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository is the user store.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	ListAll(ctx context.Context) ([]*User, error)
}
