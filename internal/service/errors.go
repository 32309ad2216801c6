package service

import "errors"

// Domain sentinels. HTTP handlers map these onto status codes; anything
// else is an internal error and surfaces as an opaque 5xx.
var (
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")
	ErrInvalidSignature     = errors.New("payment signature verification failed")
	ErrSettlementInProgress = errors.New("settlement already in progress for this payment")
	ErrTotalMismatch        = errors.New("supplied total does not match computed total")
	ErrEmptyOrder           = errors.New("order has no line items")
	ErrInvalidLine          = errors.New("order line is missing required fields")

	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidProduct    = errors.New("product is missing required fields")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrQuantityTooLow    = errors.New("quantity must be at least 1")

	ErrCouponNotFound  = errors.New("coupon not found")
	ErrInvalidCoupon   = errors.New("invalid coupon definition")
	ErrCouponInactive  = errors.New("coupon is not active")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
	ErrCouponMinOrder  = errors.New("order subtotal below coupon minimum")

	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrInvalidVendor     = errors.New("store name is required")
	ErrVendorExists      = errors.New("vendor application already exists")
	ErrVendorNotFound    = errors.New("vendor not found")
	ErrNotProductOwner   = errors.New("product belongs to another vendor")
	ErrVendorNotApproved = errors.New("vendor is not approved")

	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrNotOrderOwner = errors.New("order belongs to another user")
)
