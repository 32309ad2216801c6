package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/cart"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/coupon"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/order"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/product"
	"github.com/SahilSagvekar/vedessa-sub001/internal/gateway"
)

// In-memory stand-ins for the repositories and outbound dependencies.
// They mimic the postgres layer's behavior for the index constraints
// settlement relies on.

type fakeOrderRepo struct {
	orders    []*order.Order
	nextID    int64
	createErr error
}

func (f *fakeOrderRepo) Create(_ context.Context, o *order.Order) error {
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	for _, ex := range f.orders {
		if ex.OrderNumber == o.OrderNumber {
			return gorm.ErrDuplicatedKey
		}
		if ex.GatewayPaymentID != nil && o.GatewayPaymentID != nil && *ex.GatewayPaymentID == *o.GatewayPaymentID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	o.ID = f.nextID
	for i := range o.Items {
		o.Items[i].ID = f.nextID*100 + int64(i)
		o.Items[i].OrderID = o.ID
	}
	cp := *o
	f.orders = append(f.orders, &cp)
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int64) (*order.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) GetByNumber(_ context.Context, number string) (*order.Order, error) {
	for _, o := range f.orders {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) GetByGatewayPaymentID(_ context.Context, paymentID string) (*order.Order, error) {
	for _, o := range f.orders {
		if o.GatewayPaymentID != nil && *o.GatewayPaymentID == paymentID {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, userID int64) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListRecent(_ context.Context, limit int) ([]*order.Order, error) {
	if limit > len(f.orders) {
		limit = len(f.orders)
	}
	return f.orders[:limit], nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id int64, next string) (*order.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			if !order.CanTransition(o.Status, next) {
				return nil, ErrInvalidStatus
			}
			o.Status = next
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) MarkLineStockApplied(_ context.Context, lineID int64) error {
	for _, o := range f.orders {
		for i := range o.Items {
			if o.Items[i].ID == lineID {
				o.Items[i].StockApplied = true
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) ListUnappliedLines(_ context.Context, limit int) ([]*order.Line, error) {
	var out []*order.Line
	for _, o := range f.orders {
		for i := range o.Items {
			if !o.Items[i].StockApplied && len(out) < limit {
				out = append(out, &o.Items[i])
			}
		}
	}
	return out, nil
}

type fakeCartRepo struct {
	lines    map[int64][]*cart.Line
	cleared  []int64
	clearErr error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{lines: make(map[int64][]*cart.Line)}
}

func (f *fakeCartRepo) Get(_ context.Context, userID, productID int64) (*cart.Line, error) {
	for _, l := range f.lines[userID] {
		if l.ProductID == productID {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) ListByUser(_ context.Context, userID int64) ([]*cart.Line, error) {
	return f.lines[userID], nil
}

func (f *fakeCartRepo) Upsert(_ context.Context, l *cart.Line) error {
	for _, ex := range f.lines[l.UserID] {
		if ex.ProductID == l.ProductID {
			ex.Quantity = l.Quantity
			return nil
		}
	}
	f.lines[l.UserID] = append(f.lines[l.UserID], l)
	return nil
}

func (f *fakeCartRepo) Remove(_ context.Context, userID, productID int64) error {
	kept := f.lines[userID][:0]
	for _, l := range f.lines[userID] {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	f.lines[userID] = kept
	return nil
}

func (f *fakeCartRepo) Clear(_ context.Context, userID int64) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared = append(f.cleared, userID)
	delete(f.lines, userID)
	return nil
}

type fakeCouponRepo struct {
	byCode map[string]*coupon.Coupon
	used   []string
}

func newFakeCouponRepo(cs ...*coupon.Coupon) *fakeCouponRepo {
	f := &fakeCouponRepo{byCode: make(map[string]*coupon.Coupon)}
	for _, c := range cs {
		f.byCode[c.Code] = c
	}
	return f
}

func (f *fakeCouponRepo) GetByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	if c, ok := f.byCode[code]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCouponRepo) List(_ context.Context) ([]*coupon.Coupon, error) {
	var out []*coupon.Coupon
	for _, c := range f.byCode {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCouponRepo) Create(_ context.Context, c *coupon.Coupon) error {
	if _, ok := f.byCode[c.Code]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.byCode[c.Code] = c
	return nil
}

func (f *fakeCouponRepo) Update(_ context.Context, c *coupon.Coupon) error {
	f.byCode[c.Code] = c
	return nil
}

func (f *fakeCouponRepo) Delete(_ context.Context, id int64) error {
	for code, c := range f.byCode {
		if c.ID == id {
			delete(f.byCode, code)
		}
	}
	return nil
}

func (f *fakeCouponRepo) IncrementUsage(_ context.Context, code string) error {
	f.used = append(f.used, code)
	if c, ok := f.byCode[code]; ok {
		c.UsedCount++
	}
	return nil
}

func percentCoupon(code string, pct int64) *coupon.Coupon {
	return &coupon.Coupon{Code: code, Kind: coupon.KindPercent, Value: pct, Active: true}
}

type fakeProductRepo struct {
	byID map[int64]*product.Product
}

func newFakeProductRepo(ps ...*product.Product) *fakeProductRepo {
	f := &fakeProductRepo{byID: make(map[int64]*product.Product)}
	for _, p := range ps {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) GetBySlug(_ context.Context, slug string) (*product.Product, error) {
	for _, p := range f.byID {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) List(_ context.Context, filter product.ListFilter) ([]*product.Product, error) {
	var out []*product.Product
	for _, p := range f.byID {
		if filter.ActiveOnly && p.Status != product.StatusActive {
			continue
		}
		if filter.VendorID != 0 && p.VendorID != filter.VendorID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) Create(_ context.Context, p *product.Product) error {
	p.ID = int64(len(f.byID) + 1)
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *product.Product) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id int64) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeProductRepo) DecrementStock(_ context.Context, id int64, qty int64) (bool, error) {
	p, ok := f.byID[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	return true, nil
}

func (f *fakeProductRepo) AddRating(_ context.Context, id int64, deltaSum int64, deltaCount int64) error {
	if p, ok := f.byID[id]; ok {
		p.RatingSum += deltaSum
		p.RatingCount += deltaCount
	}
	return nil
}

type fakeGateway struct {
	verifyOK    bool
	createErr   error
	nextOrderID string
}

func (f *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string, _ map[string]string) (*gateway.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	id := f.nextOrderID
	if id == "" {
		id = "order_fake1"
	}
	return &gateway.Order{ID: id, Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

func (f *fakeGateway) FetchPayment(_ context.Context, paymentID string) (*gateway.PaymentDetails, error) {
	return &gateway.PaymentDetails{ID: paymentID, Status: "captured"}, nil
}

func (f *fakeGateway) VerifySignature(_, _, _ string) bool { return f.verifyOK }

func (f *fakeGateway) KeyID() string { return "rzp_test_key" }

type fakeLocker struct {
	acquireOK  bool
	acquireErr error
	acquired   []string
	released   []string
}

func (f *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	if f.acquireErr != nil {
		return false, f.acquireErr
	}
	if f.acquireOK {
		f.acquired = append(f.acquired, key)
	}
	return f.acquireOK, nil
}

func (f *fakeLocker) Release(_ context.Context, key string) error {
	f.released = append(f.released, key)
	return nil
}

type fakePublisher struct {
	published []*SettledMessage
	err       error
}

func (f *fakePublisher) PublishSettled(_ context.Context, msg *SettledMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}
