package order

import (
	"context"
	"time"
)

// Order statuses. PROCESSING is the only creation status; DELIVERED
// and CANCELLED are terminal.
const (
	StatusProcessing = "PROCESSING"
	StatusConfirmed  = "CONFIRMED"
	StatusShipped    = "SHIPPED"
	StatusDelivered  = "DELIVERED"
	StatusCancelled  = "CANCELLED"
)

var transitions = map[string][]string{
	StatusProcessing: {StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled},
	StatusConfirmed:  {StatusShipped, StatusDelivered, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether an order may move from to next.
func CanTransition(from, next string) bool {
	for _, s := range transitions[from] {
		if s == next {
			return true
		}
	}
	return false
}

// Order is the durable record of a settled checkout. All amounts are
// in paise. Line items are immutable after creation; Status is the
// only field mutated afterwards, and only through UpdateStatus.
type Order struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	OrderNumber    string    `gorm:"uniqueIndex;size:32;not null" json:"order_number"`
	UserID         int64     `gorm:"index;not null" json:"user_id"`
	Status         string    `gorm:"size:16;index;not null" json:"status"`
	Subtotal       int64     `gorm:"not null" json:"subtotal"`
	DiscountAmount int64     `gorm:"not null;default:0" json:"discount_amount"`
	TaxAmount      int64     `gorm:"not null" json:"tax_amount"`
	ShippingCost   int64     `gorm:"not null" json:"shipping_cost"`
	TotalAmount    int64     `gorm:"not null" json:"total_amount"`
	CouponCode     string    `gorm:"size:32" json:"coupon_code,omitempty"`
	PaymentMethod  string    `gorm:"size:32" json:"payment_method"`
	GatewayOrderID string    `gorm:"size:64;index" json:"gateway_order_id"`
	// GatewayPaymentID is the idempotency anchor: one settled payment,
	// one order. Nullable so unpaid rows don't collide on the index.
	GatewayPaymentID *string   `gorm:"size:64;uniqueIndex" json:"gateway_payment_id,omitempty"`
	ShippingAddress  string    `gorm:"type:text" json:"shipping_address"`
	Items            []Line    `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Line is an order line with catalog data snapshotted at settlement
// time; later product edits or deletions never touch it.
type Line struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	OrderID   int64  `gorm:"index;not null" json:"-"`
	ProductID int64  `gorm:"index;not null" json:"product_id"`
	Name      string `gorm:"size:128;not null" json:"name"`
	Image     string `gorm:"size:512" json:"image"`
	Quantity  int64  `gorm:"not null" json:"quantity"`
	Price     int64  `gorm:"not null" json:"price"`
	// StockApplied flips once the settlement worker has decremented
	// product stock for this line; the reconciler retries false rows.
	StockApplied bool `gorm:"not null;default:false;index" json:"-"`
}

// Repository is the order ledger.
type Repository interface {
	// Create persists the order and its lines in one transaction.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetByNumber(ctx context.Context, number string) (*Order, error)
	GetByGatewayPaymentID(ctx context.Context, paymentID string) (*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
	ListRecent(ctx context.Context, limit int) ([]*Order, error)
	// UpdateStatus applies the state machine; it fails when the
	// transition is not allowed.
	UpdateStatus(ctx context.Context, id int64, next string) (*Order, error)

	MarkLineStockApplied(ctx context.Context, lineID int64) error
	ListUnappliedLines(ctx context.Context, limit int) ([]*Line, error)
}
