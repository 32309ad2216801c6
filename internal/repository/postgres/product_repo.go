package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/product"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/vendor"
)

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository creates the product store.
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepo{db: db}
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	var p product.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) GetBySlug(ctx context.Context, slug string) (*product.Product, error) {
	var p product.Product
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, f product.ListFilter) ([]*product.Product, error) {
	q := r.db.WithContext(ctx).Model(&product.Product{})
	if f.ActiveOnly {
		q = q.Where("products.status = ?", product.StatusActive).
			Where("vendor_id IN (?)",
				r.db.Model(&vendor.Vendor{}).Select("id").Where("status = ?", vendor.StatusApproved))
	}
	if f.Category != "" && f.Category != "all" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Keyword != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Keyword)+"%")
	}
	if f.VendorID != 0 {
		q = q.Where("vendor_id = ?", f.VendorID)
	}
	switch f.Sort {
	case "price_asc":
		q = q.Order("price ASC")
	case "price_desc":
		q = q.Order("price DESC")
	default:
		q = q.Order("id DESC")
	}
	var list []*product.Product
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productRepo) Create(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) Update(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&product.Product{}, id).Error
}

// DecrementStock is a single conditional UPDATE so stock can never be
// driven below zero, whatever races with it.
func (r *productRepo) DecrementStock(ctx context.Context, id int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&product.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *productRepo) AddRating(ctx context.Context, id int64, deltaSum int64, deltaCount int64) error {
	return r.db.WithContext(ctx).
		Model(&product.Product{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"rating_sum":   gorm.Expr("rating_sum + ?", deltaSum),
			"rating_count": gorm.Expr("rating_count + ?", deltaCount),
		}).Error
}
