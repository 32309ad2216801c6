package product

import (
	"context"
	"time"
)

// Product statuses.
const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Product is a catalog item. Price is in paise. Stock must never go
// negative; repositories only mutate it through conditional updates.
type Product struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	VendorID    int64     `gorm:"index" json:"vendor_id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;size:160;not null" json:"slug"`
	Description string    `gorm:"size:2048" json:"description"`
	Category    string    `gorm:"size:64;index" json:"category"`
	ImageURL    string    `gorm:"size:512" json:"image_url"`
	Price       int64     `gorm:"not null" json:"price"`
	Stock       int64     `gorm:"not null" json:"stock"`
	RatingSum   int64     `gorm:"not null;default:0" json:"-"`
	RatingCount int64     `gorm:"not null;default:0" json:"rating_count"`
	Status      string    `gorm:"size:16;index;not null" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Rating is the running average, zero when unrated.
func (p *Product) Rating() float64 {
	if p.RatingCount == 0 {
		return 0
	}
	return float64(p.RatingSum) / float64(p.RatingCount)
}

// ListFilter narrows catalog queries.
type ListFilter struct {
	Category string
	Keyword  string
	VendorID int64
	// ActiveOnly restricts to sellable products of approved vendors.
	ActiveOnly bool
	// Sort is "price_asc" or "price_desc"; anything else sorts newest
	// first.
	Sort string
}

// Repository is the product store.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, f ListFilter) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error

	// DecrementStock subtracts qty only when enough stock remains and
	// reports whether the decrement was applied.
	DecrementStock(ctx context.Context, id int64, qty int64) (bool, error)
	// AddRating folds a new or changed review score into the aggregate.
	AddRating(ctx context.Context, id int64, deltaSum int64, deltaCount int64) error
}
