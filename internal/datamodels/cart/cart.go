package cart

import (
	"context"
	"time"
)

// Line is one product in a user's cart. A user holds at most one line
// per product; quantity is always >= 1.
type Line struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"`
	ProductID int64     `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository is the cart store.
type Repository interface {
	Get(ctx context.Context, userID, productID int64) (*Line, error)
	ListByUser(ctx context.Context, userID int64) ([]*Line, error)
	Upsert(ctx context.Context, l *Line) error
	Remove(ctx context.Context, userID, productID int64) error
	// Clear deletes every line for the user; clearing an empty cart is
	// a successful no-op.
	Clear(ctx context.Context, userID int64) error
}
