package server

import (
	"time"

	"github.com/kataras/iris/v12"
	"github.com/mediocregopher/radix/v3"
	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/auth"
	"github.com/SahilSagvekar/vedessa-sub001/internal/config"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/coupon"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/user"
	"github.com/SahilSagvekar/vedessa-sub001/internal/mailer"
	"github.com/SahilSagvekar/vedessa-sub001/internal/middleware"
	"github.com/SahilSagvekar/vedessa-sub001/internal/repository/postgres"
	"github.com/SahilSagvekar/vedessa-sub001/internal/service"
)

// RegisterAdminRoutes mounts the back-office API on app. Every route
// requires the admin role.
func RegisterAdminRoutes(app *iris.Application, cfg *config.Config, db *gorm.DB, redisClient radix.Client) {
	userRepo := postgres.NewUserRepository(db)
	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	couponRepo := postgres.NewCouponRepository(db)
	vendorRepo := postgres.NewVendorRepository(db)

	productSvc := service.NewProductService(productRepo)
	orderSvc := service.NewOrderService(orderRepo)
	couponSvc := service.NewCouponService(couponRepo)
	vendorSvc := service.NewVendorService(vendorRepo, userRepo, mailer.New(&cfg.SMTP))

	tokenCache := auth.NewTokenCache(redisClient, cfg.JWT.CacheTTL)

	app.Get("/health", func(ctx iris.Context) {
		ok(ctx, iris.Map{"status": "ok"})
	})

	api := app.Party("/admin/api",
		middleware.Authenticated(&cfg.JWT, tokenCache),
		middleware.RequireRole(user.RoleAdmin),
	)

	api.Get("/monitor", func(ctx iris.Context) {
		ok(ctx, service.GetMonitor().Snapshot())
	})

	// Catalog.
	api.Get("/products", func(ctx iris.Context) {
		list, err := productSvc.ListAll(ctx.Request().Context())
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, list)
	})

	api.Post("/products", func(ctx iris.Context) {
		var req productPayload
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, err.Error())
			return
		}
		p := req.toProduct()
		if err := productSvc.Create(ctx.Request().Context(), p); err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, p)
	})

	api.Put("/products/{id:int64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetInt64("id")
		p, err := productSvc.GetByID(ctx.Request().Context(), pid)
		if err != nil {
			failErr(ctx, err)
			return
		}
		var req productPayload
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, err.Error())
			return
		}
		req.apply(p)
		if err := productSvc.Update(ctx.Request().Context(), p); err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, p)
	})

	api.Delete("/products/{id:int64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetInt64("id")
		if err := productSvc.Delete(ctx.Request().Context(), pid); err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, iris.Map{"deleted": true})
	})

	// Vendor applications.
	api.Get("/vendors", func(ctx iris.Context) {
		list, err := vendorSvc.List(ctx.Request().Context(), ctx.URLParam("status"))
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, list)
	})

	api.Post("/vendors/{id:int64}/approve", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		v, err := vendorSvc.Approve(ctx.Request().Context(), id)
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, v)
	})

	api.Post("/vendors/{id:int64}/reject", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		v, err := vendorSvc.Reject(ctx.Request().Context(), id)
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, v)
	})

	// Coupons.
	api.Get("/coupons", func(ctx iris.Context) {
		list, err := couponSvc.List(ctx.Request().Context())
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, list)
	})

	api.Post("/coupons", func(ctx iris.Context) {
		var req couponPayload
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, err.Error())
			return
		}
		c := req.toCoupon()
		if err := couponSvc.Create(ctx.Request().Context(), c); err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, c)
	})

	api.Put("/coupons/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var req couponPayload
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, err.Error())
			return
		}
		c := req.toCoupon()
		c.ID = id
		if err := couponSvc.Update(ctx.Request().Context(), c); err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, c)
	})

	api.Delete("/coupons/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := couponSvc.Delete(ctx.Request().Context(), id); err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, iris.Map{"deleted": true})
	})

	// Orders.
	api.Get("/orders", func(ctx iris.Context) {
		limit := ctx.URLParamIntDefault("limit", 100)
		list, err := orderSvc.ListRecent(ctx.Request().Context(), limit)
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, list)
	})

	api.Put("/orders/{id:int64}/status", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var req struct {
			Status string `json:"status"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, err.Error())
			return
		}
		o, err := orderSvc.UpdateStatus(ctx.Request().Context(), id, req.Status)
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, o)
	})
}

// couponPayload is the admin coupon create/update body. ExpiresAt is
// RFC 3339; empty means no expiry.
type couponPayload struct {
	Code        string `json:"code"`
	Kind        string `json:"kind"`
	Value       int64  `json:"value"`
	MinOrder    int64  `json:"min_order"`
	MaxDiscount int64  `json:"max_discount"`
	ExpiresAt   string `json:"expires_at"`
	UsageLimit  int64  `json:"usage_limit"`
	Active      bool   `json:"active"`
}

func (r couponPayload) toCoupon() *coupon.Coupon {
	c := &coupon.Coupon{
		Code:        r.Code,
		Kind:        r.Kind,
		Value:       r.Value,
		MinOrder:    r.MinOrder,
		MaxDiscount: r.MaxDiscount,
		UsageLimit:  r.UsageLimit,
		Active:      r.Active,
	}
	if r.ExpiresAt != "" {
		if t, err := time.Parse(time.RFC3339, r.ExpiresAt); err == nil {
			c.ExpiresAt = t
		}
	}
	return c
}
