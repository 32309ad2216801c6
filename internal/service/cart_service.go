package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/config"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/cart"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/product"
)

// CartService manages per-user cart lines and prices carts for checkout.
type CartService struct {
	carts    cart.Repository
	products product.Repository
	pricing  *config.PricingConfig
}

// NewCartService creates the cart service.
func NewCartService(carts cart.Repository, products product.Repository, pricing *config.PricingConfig) *CartService {
	return &CartService{carts: carts, products: products, pricing: pricing}
}

// CartItem is a cart line joined with its current product data.
type CartItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Stock     int64  `json:"stock"`
}

// Quote is a fully priced cart; the client uses Total to create the
// payment intent, and settlement recomputes the same figures.
type Quote struct {
	Items          []CartItem `json:"items"`
	Subtotal       int64      `json:"subtotal"`
	DiscountAmount int64      `json:"discount_amount"`
	TaxAmount      int64      `json:"tax_amount"`
	ShippingCost   int64      `json:"shipping_cost"`
	TotalAmount    int64      `json:"total_amount"`
	CouponCode     string     `json:"coupon_code,omitempty"`
}

// Add puts qty of a product in the cart, replacing any existing line.
func (s *CartService) Add(ctx context.Context, userID, productID, qty int64) error {
	if qty < 1 {
		return ErrQuantityTooLow
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if p.Status != product.StatusActive {
		return ErrProductNotFound
	}
	if p.Stock < qty {
		return ErrInsufficientStock
	}
	return s.carts.Upsert(ctx, &cart.Line{UserID: userID, ProductID: productID, Quantity: qty})
}

// Remove drops a product from the cart.
func (s *CartService) Remove(ctx context.Context, userID, productID int64) error {
	return s.carts.Remove(ctx, userID, productID)
}

// Clear empties the cart; clearing an empty cart succeeds.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.carts.Clear(ctx, userID)
}

// List returns the cart joined with live product data. Lines whose
// product has vanished are dropped from the view.
func (s *CartService) List(ctx context.Context, userID int64) ([]CartItem, error) {
	lines, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]CartItem, 0, len(lines))
	for _, l := range lines {
		p, err := s.products.GetByID(ctx, l.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		items = append(items, CartItem{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.ImageURL,
			Price:     p.Price,
			Quantity:  l.Quantity,
			Stock:     p.Stock,
		})
	}
	return items, nil
}

// PriceQuote prices the current cart with tax and shipping from the
// pricing rules and an optional coupon.
func (s *CartService) PriceQuote(ctx context.Context, userID int64, couponCode string, coupons *CouponService) (*Quote, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	var subtotal int64
	for _, it := range items {
		subtotal += it.Price * it.Quantity
	}

	var discount int64
	if couponCode != "" {
		discount, err = coupons.Discount(ctx, couponCode, subtotal)
		if err != nil {
			return nil, err
		}
	}

	tax := (subtotal - discount) * s.pricing.TaxRateBP / 10000
	var shipping int64
	if subtotal < s.pricing.FreeShippingMin {
		shipping = s.pricing.ShippingFlat
	}

	return &Quote{
		Items:          items,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxAmount:      tax,
		ShippingCost:   shipping,
		TotalAmount:    subtotal - discount + tax + shipping,
		CouponCode:     couponCode,
	}, nil
}
