package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/vendor"
)

type vendorRepo struct {
	db *gorm.DB
}

// NewVendorRepository creates the vendor store.
func NewVendorRepository(db *gorm.DB) vendor.Repository {
	return &vendorRepo{db: db}
}

func (r *vendorRepo) GetByID(ctx context.Context, id int64) (*vendor.Vendor, error) {
	var v vendor.Vendor
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vendorRepo) GetByUserID(ctx context.Context, userID int64) (*vendor.Vendor, error) {
	var v vendor.Vendor
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vendorRepo) List(ctx context.Context, status string) ([]*vendor.Vendor, error) {
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []*vendor.Vendor
	if err := q.Order("id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *vendorRepo) Create(ctx context.Context, v *vendor.Vendor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vendorRepo) Update(ctx context.Context, v *vendor.Vendor) error {
	return r.db.WithContext(ctx).Save(v).Error
}
