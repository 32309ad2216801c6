package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/coupon"
)

// CouponService validates and administers discount codes.
type CouponService struct {
	repo coupon.Repository
}

// NewCouponService creates the coupon service.
func NewCouponService(repo coupon.Repository) *CouponService {
	return &CouponService{repo: repo}
}

// Discount returns the paise discount the code yields on subtotal, or
// the reason it does not apply.
func (s *CouponService) Discount(ctx context.Context, code string, subtotal int64) (int64, error) {
	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCouponNotFound
		}
		return 0, err
	}
	if !c.Active {
		return 0, ErrCouponInactive
	}
	if !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt) {
		return 0, ErrCouponExpired
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return 0, ErrCouponExhausted
	}
	if subtotal < c.MinOrder {
		return 0, ErrCouponMinOrder
	}

	var discount int64
	switch c.Kind {
	case coupon.KindPercent:
		// round half up on the paise value
		discount = (subtotal*c.Value + 50) / 100
		if c.MaxDiscount > 0 && discount > c.MaxDiscount {
			discount = c.MaxDiscount
		}
	case coupon.KindFixed:
		discount = c.Value
	default:
		return 0, ErrCouponInactive
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount, nil
}

// MarkUsed bumps the usage counter after a settlement commits.
// Best-effort; the worker calls it and only logs failures.
func (s *CouponService) MarkUsed(ctx context.Context, code string) error {
	if code == "" {
		return nil
	}
	return s.repo.IncrementUsage(ctx, code)
}

// List returns every coupon for the back office.
func (s *CouponService) List(ctx context.Context) ([]*coupon.Coupon, error) {
	return s.repo.List(ctx)
}

// Create validates and stores a new coupon.
func (s *CouponService) Create(ctx context.Context, c *coupon.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.Code == "" || c.Value <= 0 {
		return ErrInvalidCoupon
	}
	if c.Kind != coupon.KindPercent && c.Kind != coupon.KindFixed {
		return ErrInvalidCoupon
	}
	if c.Kind == coupon.KindPercent && c.Value > 100 {
		return ErrInvalidCoupon
	}
	return s.repo.Create(ctx, c)
}

// Update stores coupon changes.
func (s *CouponService) Update(ctx context.Context, c *coupon.Coupon) error {
	return s.repo.Update(ctx, c)
}

// Delete removes a coupon.
func (s *CouponService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
