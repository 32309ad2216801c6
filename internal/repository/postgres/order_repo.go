package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/order"
)

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository creates the order ledger.
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepo{db: db}
}

// Create persists the order and its lines in one transaction. gorm
// inserts the associated lines with the parent; the surrounding
// Transaction keeps a mid-insert failure from leaving a headless order.
func (r *orderRepo) Create(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(o).Error
	})
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("order_number = ?", number).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) GetByGatewayPaymentID(ctx context.Context, paymentID string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("gateway_payment_id = ?", paymentID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID int64) ([]*order.Order, error) {
	var list []*order.Order
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepo) ListRecent(ctx context.Context, limit int) ([]*order.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	var list []*order.Order
	if err := r.db.WithContext(ctx).Preload("Items").
		Order("id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStatus locks the row, checks the state machine, writes the new
// status. Terminal states are unreachable targets once entered.
func (r *orderRepo) UpdateStatus(ctx context.Context, id int64, next string) (*order.Order, error) {
	var o order.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&o, id).Error; err != nil {
			return err
		}
		if !order.CanTransition(o.Status, next) {
			return fmt.Errorf("order %s cannot move from %s to %s", o.OrderNumber, o.Status, next)
		}
		o.Status = next
		return tx.Model(&order.Order{}).Where("id = ?", id).
			UpdateColumn("status", next).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *orderRepo) MarkLineStockApplied(ctx context.Context, lineID int64) error {
	return r.db.WithContext(ctx).Model(&order.Line{}).
		Where("id = ?", lineID).
		UpdateColumn("stock_applied", true).Error
}

func (r *orderRepo) ListUnappliedLines(ctx context.Context, limit int) ([]*order.Line, error) {
	if limit <= 0 {
		limit = 100
	}
	var lines []*order.Line
	if err := r.db.WithContext(ctx).
		Where("stock_applied = ?", false).
		Order("id").
		Limit(limit).
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
