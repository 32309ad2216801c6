package service

import (
	"context"

	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/product"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/wishlist"
)

// WishlistService manages per-user saved products.
type WishlistService struct {
	items    wishlist.Repository
	products product.Repository
}

// WishlistEntry is a wishlist row joined with its product.
type WishlistEntry struct {
	ProductID int64            `json:"product_id"`
	Product   *product.Product `json:"product"`
}

// NewWishlistService creates the wishlist service.
func NewWishlistService(items wishlist.Repository, products product.Repository) *WishlistService {
	return &WishlistService{items: items, products: products}
}

// Add saves a product to the user's wishlist. Adding twice is a no-op.
func (s *WishlistService) Add(ctx context.Context, userID, productID int64) error {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil || p.Status != product.StatusActive {
		return ErrProductNotFound
	}
	return s.items.Add(ctx, userID, productID)
}

// Remove drops a product from the wishlist. Removing a product that is
// not wished succeeds.
func (s *WishlistService) Remove(ctx context.Context, userID, productID int64) error {
	return s.items.Remove(ctx, userID, productID)
}

// List returns the user's wishlist with product details. Products that
// vanished or went inactive since they were wished are skipped.
func (s *WishlistService) List(ctx context.Context, userID int64) ([]*WishlistEntry, error) {
	rows, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*WishlistEntry, 0, len(rows))
	for _, row := range rows {
		p, err := s.products.GetByID(ctx, row.ProductID)
		if err != nil || p.Status != product.StatusActive {
			continue
		}
		out = append(out, &WishlistEntry{ProductID: row.ProductID, Product: p})
	}
	return out, nil
}
