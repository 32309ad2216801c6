package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/cart"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/order"
	"github.com/SahilSagvekar/vedessa-sub001/internal/gateway"
)

const settleLockTTL = 30 * time.Second

// Gateway is the slice of the payment processor the orchestrator needs.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*gateway.Order, error)
	FetchPayment(ctx context.Context, paymentID string) (*gateway.PaymentDetails, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// Locker serializes settlement attempts per gateway order.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// SettledPublisher hands housekeeping work to the settlement worker.
type SettledPublisher interface {
	PublishSettled(ctx context.Context, msg *SettledMessage) error
}

// SettledMessage is the housekeeping payload for one settled order.
type SettledMessage struct {
	MessageID   string `json:"message_id"`
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	UserID      int64  `json:"user_id"`
	CouponCode  string `json:"coupon_code,omitempty"`
}

// PaymentIntent is what the client needs to open the payment widget.
type PaymentIntent struct {
	GatewayOrderID string `json:"order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	KeyID          string `json:"key_id"`
}

// AddressDraft is the shipping address as submitted; it is stored as a
// snapshot on the order, never as a reference.
type AddressDraft struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

// LineDraft is the canonical line-item input shape. There are no alias
// keys; missing required fields fail validation.
type LineDraft struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Quantity  int64  `json:"quantity"`
	Price     int64  `json:"price"`
}

// OrderDraft is the order as the client assembled it. Subtotal and
// total are always recomputed server-side; a supplied TotalAmount is
// only checked against the computed figure.
type OrderDraft struct {
	Items           []LineDraft  `json:"items"`
	TaxAmount       int64        `json:"tax_amount"`
	ShippingCost    int64        `json:"shipping_cost"`
	TotalAmount     *int64       `json:"total_amount,omitempty"`
	CouponCode      string       `json:"coupon_code,omitempty"`
	PaymentMethod   string       `json:"payment_method"`
	ShippingAddress AddressDraft `json:"shipping_address"`
}

// CheckoutService sequences cart validation, payment-intent creation,
// signature verification, order persistence and post-settlement
// housekeeping. Payment verification and order persistence must
// succeed or the whole call fails; everything after the commit is
// best-effort and retried by the settlement worker.
type CheckoutService struct {
	orders    order.Repository
	carts     cart.Repository
	coupons   *CouponService
	gateway   Gateway
	locker    Locker
	publisher SettledPublisher
}

// NewCheckoutService wires the orchestrator.
func NewCheckoutService(
	orders order.Repository,
	carts cart.Repository,
	coupons *CouponService,
	gw Gateway,
	locker Locker,
	publisher SettledPublisher,
) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		carts:     carts,
		coupons:   coupons,
		gateway:   gw,
		locker:    locker,
		publisher: publisher,
	}
}

// CreatePaymentIntent mints a gateway-side order for the amount. A
// gateway failure is reported, not retried; the client may re-initiate.
func (s *CheckoutService) CreatePaymentIntent(ctx context.Context, userID, amount int64, currency, receiptHint string) (*PaymentIntent, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = "INR"
	}
	receipt := receiptHint
	if receipt == "" {
		receipt = "rcpt_" + uuid.NewString()
	}

	gw, err := s.gateway.CreateOrder(ctx, amount, currency, receipt, map[string]string{
		"user_id": fmt.Sprintf("%d", userID),
	})
	if err != nil {
		GetMonitor().RecordGatewayError()
		zap.L().Error("create gateway order", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	GetMonitor().RecordIntentCreated()
	return &PaymentIntent{
		GatewayOrderID: gw.ID,
		Amount:         gw.Amount,
		Currency:       gw.Currency,
		KeyID:          s.gateway.KeyID(),
	}, nil
}

// SettlePayment verifies the gateway callback and durably records the
// order. Replaying the same gatewayPaymentID returns the order created
// by the first call.
func (s *CheckoutService) SettlePayment(ctx context.Context, userID int64, gatewayOrderID, gatewayPaymentID, signature string, draft *OrderDraft) (*order.Order, error) {
	// Fail closed before any side effect.
	if !s.gateway.VerifySignature(gatewayOrderID, gatewayPaymentID, signature) {
		GetMonitor().RecordSignatureReject()
		zap.L().Warn("settlement signature rejected",
			zap.Int64("user_id", userID),
			zap.String("gateway_order_id", gatewayOrderID))
		return nil, ErrInvalidSignature
	}

	lockKey := "checkout:settle:" + gatewayOrderID
	acquired, err := s.locker.Acquire(ctx, lockKey, settleLockTTL)
	if err != nil {
		// The unique index on gateway_payment_id is the real guarantee;
		// a lock outage degrades to relying on it.
		zap.L().Warn("settlement lock unavailable", zap.Error(err))
	} else if !acquired {
		return nil, ErrSettlementInProgress
	} else {
		defer func() {
			if err := s.locker.Release(context.WithoutCancel(ctx), lockKey); err != nil {
				zap.L().Warn("release settlement lock", zap.Error(err))
			}
		}()
	}

	if existing, err := s.orders.GetByGatewayPaymentID(ctx, gatewayPaymentID); err == nil {
		GetMonitor().RecordReplayedSettle()
		return existing, nil
	}

	o, err := s.buildOrder(ctx, userID, gatewayOrderID, gatewayPaymentID, draft)
	if err != nil {
		return nil, err
	}

	if err := s.persistOrder(ctx, o, gatewayPaymentID); err != nil {
		return nil, err
	}
	GetMonitor().RecordSettlement()

	// Housekeeping from here down: the order stands no matter what.
	s.publishSettled(ctx, o)
	if err := s.carts.Clear(ctx, userID); err != nil {
		zap.L().Warn("inline cart clear failed, worker will retry",
			zap.Error(err), zap.Int64("user_id", userID))
	}
	return o, nil
}

// RecordPaymentFailure notes a client-reported gateway failure. It
// never raises: the client must be able to show the failure without a
// secondary error.
func (s *CheckoutService) RecordPaymentFailure(ctx context.Context, userID int64, gatewayOrderID string, gatewayErr string) {
	GetMonitor().RecordPaymentFailure()
	zap.L().Warn("payment failed at gateway",
		zap.Int64("user_id", userID),
		zap.String("gateway_order_id", gatewayOrderID),
		zap.String("gateway_error", gatewayErr))
}

func (s *CheckoutService) buildOrder(ctx context.Context, userID int64, gatewayOrderID, gatewayPaymentID string, draft *OrderDraft) (*order.Order, error) {
	if draft == nil || len(draft.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if draft.TaxAmount < 0 || draft.ShippingCost < 0 {
		return nil, ErrInvalidLine
	}

	var subtotal int64
	lines := make([]order.Line, 0, len(draft.Items))
	for _, it := range draft.Items {
		if it.ProductID <= 0 || it.Name == "" || it.Quantity < 1 || it.Price < 0 {
			return nil, ErrInvalidLine
		}
		subtotal += it.Price * it.Quantity
		lines = append(lines, order.Line{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	var discount int64
	if draft.CouponCode != "" {
		var err error
		discount, err = s.coupons.Discount(ctx, draft.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
	}

	total := subtotal - discount + draft.TaxAmount + draft.ShippingCost
	if draft.TotalAmount != nil {
		diff := total - *draft.TotalAmount
		if diff < -1 || diff > 1 {
			GetMonitor().RecordTotalMismatch()
			return nil, fmt.Errorf("%w: computed %d, supplied %d", ErrTotalMismatch, total, *draft.TotalAmount)
		}
	}

	addr, err := json.Marshal(draft.ShippingAddress)
	if err != nil {
		return nil, err
	}

	paymentID := gatewayPaymentID
	return &order.Order{
		OrderNumber:      newOrderNumber(),
		UserID:           userID,
		Status:           order.StatusProcessing,
		Subtotal:         subtotal,
		DiscountAmount:   discount,
		TaxAmount:        draft.TaxAmount,
		ShippingCost:     draft.ShippingCost,
		TotalAmount:      total,
		CouponCode:       draft.CouponCode,
		PaymentMethod:    draft.PaymentMethod,
		GatewayOrderID:   gatewayOrderID,
		GatewayPaymentID: &paymentID,
		ShippingAddress:  string(addr),
		Items:            lines,
	}, nil
}

// persistOrder creates the order, retrying once with a fresh number on
// an order-number collision. A duplicate gateway payment id means a
// concurrent settlement won the race; the winner's order is returned
// through the caller's replay path.
func (s *CheckoutService) persistOrder(ctx context.Context, o *order.Order, gatewayPaymentID string) error {
	err := s.orders.Create(ctx, o)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("persist order: %w", err)
	}

	// Disambiguate which unique index fired.
	if existing, ferr := s.orders.GetByGatewayPaymentID(ctx, gatewayPaymentID); ferr == nil {
		*o = *existing
		GetMonitor().RecordReplayedSettle()
		return nil
	}

	o.OrderNumber = newOrderNumber()
	o.ID = 0
	for i := range o.Items {
		o.Items[i].ID = 0
		o.Items[i].OrderID = 0
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return fmt.Errorf("persist order after number collision: %w", err)
	}
	return nil
}

func (s *CheckoutService) publishSettled(ctx context.Context, o *order.Order) {
	msg := &SettledMessage{
		MessageID:   uuid.NewString(),
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		CouponCode:  o.CouponCode,
	}
	if err := s.publisher.PublishSettled(ctx, msg); err != nil {
		zap.L().Error("publish settled message, reconciler will pick up stock",
			zap.Error(err), zap.String("order", o.OrderNumber))
	}
}

// newOrderNumber builds "ORD-<epochMillis>-<3-digit-random>". The
// random suffix only disambiguates same-millisecond bursts; the unique
// constraint on order_number is the actual guarantee.
func newOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%03d", time.Now().UnixMilli(), rand.Intn(1000))
}
