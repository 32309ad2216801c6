package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/cart"
)

type cartRepo struct {
	db *gorm.DB
}

// NewCartRepository creates the cart store.
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepo{db: db}
}

func (r *cartRepo) Get(ctx context.Context, userID, productID int64) (*cart.Line, error) {
	var l cart.Line
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *cartRepo) ListByUser(ctx context.Context, userID int64) ([]*cart.Line, error) {
	var list []*cart.Line
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Upsert keeps the (user, product) line unique: a second add replaces
// the quantity instead of inserting a duplicate row.
func (r *cartRepo) Upsert(ctx context.Context, l *cart.Line) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(l).Error
}

func (r *cartRepo) Remove(ctx context.Context, userID, productID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&cart.Line{}).Error
}

func (r *cartRepo) Clear(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&cart.Line{}).Error
}
