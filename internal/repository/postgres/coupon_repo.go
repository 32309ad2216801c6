package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/coupon"
)

type couponRepo struct {
	db *gorm.DB
}

// NewCouponRepository creates the coupon store.
func NewCouponRepository(db *gorm.DB) coupon.Repository {
	return &couponRepo{db: db}
}

func (r *couponRepo) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var c coupon.Coupon
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *couponRepo) List(ctx context.Context) ([]*coupon.Coupon, error) {
	var list []*coupon.Coupon
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *couponRepo) Create(ctx context.Context, c *coupon.Coupon) error {
	c.Code = strings.ToUpper(c.Code)
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *couponRepo) Update(ctx context.Context, c *coupon.Coupon) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *couponRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&coupon.Coupon{}, id).Error
}

func (r *couponRepo) IncrementUsage(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Model(&coupon.Coupon{}).
		Where("code = ?", strings.ToUpper(code)).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}
