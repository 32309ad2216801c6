package wishlist

import (
	"context"
	"time"
)

// Item marks a product a user wants to keep an eye on.
type Item struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"user_id"`
	ProductID int64     `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository is the wishlist store.
type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]*Item, error)
	// Add is idempotent: adding an already-wished product succeeds.
	Add(ctx context.Context, userID, productID int64) error
	Remove(ctx context.Context, userID, productID int64) error
}
