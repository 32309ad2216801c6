package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/SahilSagvekar/vedessa-sub001/internal/config"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/coupon"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/product"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/user"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/vendor"
	"github.com/SahilSagvekar/vedessa-sub001/internal/logging"
	"github.com/SahilSagvekar/vedessa-sub001/internal/repository/postgres"
	"github.com/SahilSagvekar/vedessa-sub001/internal/service"
)

// Seeds a local database with enough data to click through the
// storefront: an admin, an approved vendor, a small catalog and one
// coupon. Safe to re-run; existing rows are left alone.
func main() {
	configPath := flag.String("config", "", "directory containing config.yaml")
	flag.Parse()

	logger, err := logging.Init(true)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	db, err := postgres.Open(&cfg.Postgres)
	if err != nil {
		logger.Fatal("open postgres", zap.Error(err))
	}

	ctx := context.Background()
	userRepo := postgres.NewUserRepository(db)
	vendorRepo := postgres.NewVendorRepository(db)
	productRepo := postgres.NewProductRepository(db)
	couponRepo := postgres.NewCouponRepository(db)
	users := service.NewUserService(userRepo, &cfg.JWT)
	products := service.NewProductService(productRepo)
	coupons := service.NewCouponService(couponRepo)

	admin, err := users.CreateWithRole(ctx, "admin@vedessa.local", "Admin", "admin123", user.RoleAdmin)
	if err != nil && !errors.Is(err, service.ErrEmailTaken) {
		logger.Fatal("seed admin", zap.Error(err))
	}
	if admin != nil {
		logger.Info("seeded admin", zap.String("email", admin.Email))
	}

	seller, err := users.CreateWithRole(ctx, "seller@vedessa.local", "Vedessa Naturals", "seller123", user.RoleVendor)
	if err != nil {
		if !errors.Is(err, service.ErrEmailTaken) {
			logger.Fatal("seed seller", zap.Error(err))
		}
		logger.Info("seed data already present, nothing to do")
		return
	}

	v := &vendor.Vendor{
		UserID:    seller.ID,
		StoreName: "Vedessa Naturals",
		About:     "Small-batch ayurvedic skincare and wellness.",
		Status:    vendor.StatusApproved,
	}
	if err := vendorRepo.Create(ctx, v); err != nil {
		logger.Fatal("seed vendor", zap.Error(err))
	}

	catalog := []*product.Product{
		{Name: "Kumkumadi Face Oil", Category: "skincare", Price: 89900, Stock: 40, Status: product.StatusActive,
			Description: "Saffron infused facial oil, 30ml."},
		{Name: "Ashwagandha Capsules", Category: "wellness", Price: 49900, Stock: 120, Status: product.StatusActive,
			Description: "60 capsules, 500mg root extract."},
		{Name: "Neem Tulsi Face Wash", Category: "skincare", Price: 24900, Stock: 200, Status: product.StatusActive,
			Description: "Gentle daily cleanser, 100ml."},
		{Name: "Triphala Powder", Category: "wellness", Price: 19900, Stock: 150, Status: product.StatusActive,
			Description: "Classic digestive blend, 200g."},
		{Name: "Brahmi Hair Oil", Category: "haircare", Price: 34900, Stock: 80, Status: product.StatusActive,
			Description: "Cold pressed sesame base, 200ml."},
	}
	for _, p := range catalog {
		p.VendorID = v.ID
		if err := products.Create(ctx, p); err != nil {
			logger.Warn("seed product", zap.String("name", p.Name), zap.Error(err))
		}
	}

	c := &coupon.Coupon{
		Code:        "WELCOME10",
		Kind:        coupon.KindPercent,
		Value:       10,
		MinOrder:    50000,
		MaxDiscount: 20000,
		ExpiresAt:   time.Now().AddDate(1, 0, 0),
		UsageLimit:  1000,
		Active:      true,
	}
	if err := coupons.Create(ctx, c); err != nil {
		logger.Warn("seed coupon", zap.Error(err))
	}

	logger.Info("seed complete",
		zap.Int("products", len(catalog)),
		zap.String("vendor", v.StoreName))
}
