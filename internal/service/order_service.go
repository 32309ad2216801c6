package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/order"
)

// OrderService exposes the order ledger: queries and the status state
// machine. Nothing else mutates an order after settlement.
type OrderService struct {
	repo order.Repository
}

// NewOrderService creates the order service.
func NewOrderService(repo order.Repository) *OrderService {
	return &OrderService{repo: repo}
}

// ListByUser returns a customer's own orders, newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]*order.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListRecent returns the latest orders for the back office.
func (s *OrderService) ListRecent(ctx context.Context, limit int) ([]*order.Order, error) {
	return s.repo.ListRecent(ctx, limit)
}

// GetForUser loads an order by number, enforcing ownership unless the
// caller is an admin.
func (s *OrderService) GetForUser(ctx context.Context, number string, userID int64, admin bool) (*order.Order, error) {
	o, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !admin && o.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return o, nil
}

// UpdateStatus drives the state machine for admin/vendor transitions.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, next string) (*order.Order, error) {
	switch next {
	case order.StatusConfirmed, order.StatusShipped, order.StatusDelivered, order.StatusCancelled:
	default:
		return nil, ErrInvalidStatus
	}
	o, err := s.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// Cancel lets a customer cancel their own order while the state
// machine still allows it.
func (s *OrderService) Cancel(ctx context.Context, number string, userID int64) (*order.Order, error) {
	o, err := s.GetForUser(ctx, number, userID, false)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateStatus(ctx, o.ID, order.StatusCancelled)
}
