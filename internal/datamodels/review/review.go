package review

import (
	"context"
	"time"
)

// Review is a customer's rating of a product, one per (user, product).
type Review struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"uniqueIndex:idx_review_user_product;not null" json:"user_id"`
	ProductID int64     `gorm:"uniqueIndex:idx_review_user_product;not null" json:"product_id"`
	Rating    int       `gorm:"not null" json:"rating"` // 1..5
	Title     string    `gorm:"size:128" json:"title"`
	Body      string    `gorm:"size:2048" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository is the review store.
type Repository interface {
	Get(ctx context.Context, userID, productID int64) (*Review, error)
	ListByProduct(ctx context.Context, productID int64) ([]*Review, error)
	Create(ctx context.Context, r *Review) error
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id int64) error
}
