package coupon

import (
	"context"
	"time"
)

// Discount kinds.
const (
	KindPercent = "percent"
	KindFixed   = "fixed"
)

// Coupon is an admin-issued discount code. Value is a percentage for
// KindPercent (1..100) and a paise amount for KindFixed.
type Coupon struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"uniqueIndex;size:32;not null" json:"code"`
	Kind        string    `gorm:"size:16;not null" json:"kind"`
	Value       int64     `gorm:"not null" json:"value"`
	MinOrder    int64     `gorm:"not null;default:0" json:"min_order"`
	MaxDiscount int64     `gorm:"not null;default:0" json:"max_discount"`
	ExpiresAt   time.Time `json:"expires_at"`
	UsageLimit  int64     `gorm:"not null;default:0" json:"usage_limit"`
	UsedCount   int64     `gorm:"not null;default:0" json:"used_count"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Repository is the coupon store.
type Repository interface {
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context) ([]*Coupon, error)
	Create(ctx context.Context, c *Coupon) error
	Update(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, id int64) error
	// IncrementUsage bumps used_count; best-effort, called after
	// settlement commits.
	IncrementUsage(ctx context.Context, code string) error
}
