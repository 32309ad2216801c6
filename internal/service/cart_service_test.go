package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SahilSagvekar/vedessa-sub001/internal/config"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/product"
)

func testPricing() *config.PricingConfig {
	return &config.PricingConfig{
		TaxRateBP:       500, // 5%
		ShippingFlat:    5000,
		FreeShippingMin: 99900,
	}
}

func activeProduct(id int64, price, stock int64) *product.Product {
	return &product.Product{
		ID: id, Name: "Item", Price: price, Stock: stock, Status: product.StatusActive,
	}
}

func TestCartAddAndList(t *testing.T) {
	products := newFakeProductRepo(activeProduct(1, 24900, 10))
	carts := newFakeCartRepo()
	svc := NewCartService(carts, products, testPricing())

	require.NoError(t, svc.Add(context.Background(), 7, 1, 2))

	items, err := svc.List(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].Quantity)
	assert.Equal(t, int64(24900), items[0].Price)

	// Adding again replaces the quantity, no second line.
	require.NoError(t, svc.Add(context.Background(), 7, 1, 3))
	items, err = svc.List(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(3), items[0].Quantity)
}

func TestCartAddValidation(t *testing.T) {
	draft := activeProduct(2, 1000, 5)
	draft.Status = product.StatusDraft
	products := newFakeProductRepo(activeProduct(1, 1000, 5), draft)
	svc := NewCartService(newFakeCartRepo(), products, testPricing())

	assert.ErrorIs(t, svc.Add(context.Background(), 7, 1, 0), ErrQuantityTooLow)
	assert.ErrorIs(t, svc.Add(context.Background(), 7, 99, 1), ErrProductNotFound)
	assert.ErrorIs(t, svc.Add(context.Background(), 7, 2, 1), ErrProductNotFound)
	assert.ErrorIs(t, svc.Add(context.Background(), 7, 1, 6), ErrInsufficientStock)
}

func TestCartClearIsIdempotent(t *testing.T) {
	products := newFakeProductRepo(activeProduct(1, 1000, 5))
	carts := newFakeCartRepo()
	svc := NewCartService(carts, products, testPricing())

	require.NoError(t, svc.Add(context.Background(), 7, 1, 1))
	require.NoError(t, svc.Clear(context.Background(), 7))
	require.NoError(t, svc.Clear(context.Background(), 7))

	items, err := svc.List(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartListSkipsVanishedProducts(t *testing.T) {
	products := newFakeProductRepo(activeProduct(1, 1000, 5))
	carts := newFakeCartRepo()
	svc := NewCartService(carts, products, testPricing())

	require.NoError(t, svc.Add(context.Background(), 7, 1, 1))
	require.NoError(t, products.Delete(context.Background(), 1))

	items, err := svc.List(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPriceQuoteMath(t *testing.T) {
	products := newFakeProductRepo(
		activeProduct(1, 24900, 10),
		activeProduct(2, 49900, 10),
	)
	carts := newFakeCartRepo()
	svc := NewCartService(carts, products, testPricing())
	coupons := NewCouponService(newFakeCouponRepo(percentCoupon("SAVE10", 10)))

	require.NoError(t, svc.Add(context.Background(), 7, 1, 2)) // 49800
	require.NoError(t, svc.Add(context.Background(), 7, 2, 1)) // 49900

	q, err := svc.PriceQuote(context.Background(), 7, "", coupons)
	require.NoError(t, err)
	assert.Equal(t, int64(99700), q.Subtotal)
	assert.Equal(t, int64(0), q.DiscountAmount)
	assert.Equal(t, int64(4985), q.TaxAmount) // 5% of 99700
	assert.Equal(t, int64(5000), q.ShippingCost)
	assert.Equal(t, int64(109685), q.TotalAmount)
}

func TestPriceQuoteWithCouponAndFreeShipping(t *testing.T) {
	products := newFakeProductRepo(activeProduct(1, 50000, 10))
	carts := newFakeCartRepo()
	svc := NewCartService(carts, products, testPricing())
	coupons := NewCouponService(newFakeCouponRepo(percentCoupon("SAVE10", 10)))

	require.NoError(t, svc.Add(context.Background(), 7, 1, 2)) // 100000, over free-shipping line

	q, err := svc.PriceQuote(context.Background(), 7, "SAVE10", coupons)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), q.Subtotal)
	assert.Equal(t, int64(10000), q.DiscountAmount)
	assert.Equal(t, int64(4500), q.TaxAmount) // 5% of 90000
	assert.Equal(t, int64(0), q.ShippingCost)
	assert.Equal(t, int64(94500), q.TotalAmount)
}

func TestPriceQuoteEmptyCart(t *testing.T) {
	svc := NewCartService(newFakeCartRepo(), newFakeProductRepo(), testPricing())
	coupons := NewCouponService(newFakeCouponRepo())

	_, err := svc.PriceQuote(context.Background(), 7, "", coupons)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}
