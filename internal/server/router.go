package server

import (
	"strconv"

	"github.com/kataras/iris/v12"
	"github.com/mediocregopher/radix/v3"
	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/gorm"

	"github.com/SahilSagvekar/vedessa-sub001/internal/auth"
	"github.com/SahilSagvekar/vedessa-sub001/internal/config"
	"github.com/SahilSagvekar/vedessa-sub001/internal/gateway"
	"github.com/SahilSagvekar/vedessa-sub001/internal/mailer"
	"github.com/SahilSagvekar/vedessa-sub001/internal/middleware"
	"github.com/SahilSagvekar/vedessa-sub001/internal/repository/postgres"
	"github.com/SahilSagvekar/vedessa-sub001/internal/service"
)

// RegisterRoutes mounts the storefront API on app.
func RegisterRoutes(app *iris.Application, cfg *config.Config, db *gorm.DB, redisClient radix.Client, mqConn *amqp.Connection) {
	userRepo := postgres.NewUserRepository(db)
	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	cartRepo := postgres.NewCartRepository(db)
	couponRepo := postgres.NewCouponRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	wishlistRepo := postgres.NewWishlistRepository(db)
	vendorRepo := postgres.NewVendorRepository(db)

	userSvc := service.NewUserService(userRepo, &cfg.JWT)
	productSvc := service.NewProductService(productRepo)
	couponSvc := service.NewCouponService(couponRepo)
	cartSvc := service.NewCartService(cartRepo, productRepo, &cfg.Pricing)
	orderSvc := service.NewOrderService(orderRepo)
	reviewSvc := service.NewReviewService(reviewRepo, productRepo)
	wishlistSvc := service.NewWishlistService(wishlistRepo, productRepo)
	vendorSvc := service.NewVendorService(vendorRepo, userRepo, mailer.New(&cfg.SMTP))

	checkoutSvc := service.NewCheckoutService(
		orderRepo,
		cartRepo,
		couponSvc,
		gateway.NewClient(&cfg.Razorpay),
		service.NewRedisLocker(redisClient),
		service.NewAMQPSettledPublisher(mqConn),
	)

	tokenCache := auth.NewTokenCache(redisClient, cfg.JWT.CacheTTL)
	bucket := middleware.NewTokenBucket(200, 100)

	api := app.Party("/api", middleware.RateLimit(bucket))

	api.Get("/health", func(ctx iris.Context) {
		ok(ctx, iris.Map{"status": "ok"})
	})

	api.Post("/register", func(ctx iris.Context) {
		var req struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, err.Error())
			return
		}
		u, token, err := userSvc.Register(ctx.Request().Context(), req.Email, req.Name, req.Password)
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, iris.Map{"user": u, "token": token})
	})

	api.Post("/login", func(ctx iris.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, err.Error())
			return
		}
		u, token, err := userSvc.Login(ctx.Request().Context(), req.Email, req.Password)
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, iris.Map{"user": u, "token": token})
	})

	// Public catalog.
	api.Get("/products", func(ctx iris.Context) {
		list, err := productSvc.ListPublic(ctx.Request().Context(), ctx.URLParam("category"), ctx.URLParam("q"), ctx.URLParam("sort"))
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, list)
	})

	api.Get("/products/{slug:string}", func(ctx iris.Context) {
		p, err := productSvc.GetPublic(ctx.Request().Context(), ctx.Params().Get("slug"))
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, p)
	})

	api.Get("/products/{id:int64}/reviews", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetInt64("id")
		list, err := reviewSvc.ListByProduct(ctx.Request().Context(), pid)
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, list)
	})

	authAPI := api.Party("/", middleware.Authenticated(&cfg.JWT, tokenCache))

	currentUser := func(ctx iris.Context) int64 {
		return ctx.Values().GetInt64Default(middleware.UserIDKey, 0)
	}

	authAPI.Get("/me", func(ctx iris.Context) {
		u, err := userSvc.GetByID(ctx.Request().Context(), currentUser(ctx))
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, u)
	})

	// Cart.
	authAPI.Get("/cart", func(ctx iris.Context) {
		items, err := cartSvc.List(ctx.Request().Context(), currentUser(ctx))
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, items)
	})

	authAPI.Post("/cart", func(ctx iris.Context) {
		var req struct {
			ProductID int64 `json:"product_id"`
			Quantity  int64 `json:"quantity"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, err.Error())
			return
		}
		if err := cartSvc.Add(ctx.Request().Context(), currentUser(ctx), req.ProductID, req.Quantity); err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, iris.Map{"added": true})
	})

	authAPI.Delete("/cart/{productID:int64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetInt64("productID")
		if err := cartSvc.Remove(ctx.Request().Context(), currentUser(ctx), pid); err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, iris.Map{"removed": true})
	})

	authAPI.Delete("/cart", func(ctx iris.Context) {
		if err := cartSvc.Clear(ctx.Request().Context(), currentUser(ctx)); err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, iris.Map{"cleared": true})
	})

	authAPI.Get("/cart/quote", func(ctx iris.Context) {
		q, err := cartSvc.PriceQuote(ctx.Request().Context(), currentUser(ctx), ctx.URLParam("coupon"), couponSvc)
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, q)
	})

	// Wishlist.
	authAPI.Get("/wishlist", func(ctx iris.Context) {
		list, err := wishlistSvc.List(ctx.Request().Context(), currentUser(ctx))
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, list)
	})

	authAPI.Post("/wishlist", func(ctx iris.Context) {
		var req struct {
			ProductID int64 `json:"product_id"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, err.Error())
			return
		}
		if err := wishlistSvc.Add(ctx.Request().Context(), currentUser(ctx), req.ProductID); err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, iris.Map{"added": true})
	})

	authAPI.Delete("/wishlist/{productID:int64}", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetInt64("productID")
		if err := wishlistSvc.Remove(ctx.Request().Context(), currentUser(ctx), pid); err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, iris.Map{"removed": true})
	})

	// Reviews.
	authAPI.Post("/products/{id:int64}/reviews", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetInt64("id")
		var req struct {
			Rating int    `json:"rating"`
			Title  string `json:"title"`
			Body   string `json:"body"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, err.Error())
			return
		}
		r, err := reviewSvc.Upsert(ctx.Request().Context(), currentUser(ctx), pid, req.Rating, req.Title, req.Body)
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, r)
	})

	authAPI.Delete("/products/{id:int64}/reviews", func(ctx iris.Context) {
		pid, _ := ctx.Params().GetInt64("id")
		if err := reviewSvc.Delete(ctx.Request().Context(), currentUser(ctx), pid); err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, iris.Map{"deleted": true})
	})

	// Orders.
	authAPI.Get("/orders", func(ctx iris.Context) {
		list, err := orderSvc.ListByUser(ctx.Request().Context(), currentUser(ctx))
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, list)
	})

	authAPI.Get("/orders/{number:string}", func(ctx iris.Context) {
		o, err := orderSvc.GetForUser(ctx.Request().Context(), ctx.Params().Get("number"), currentUser(ctx), false)
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, o)
	})

	authAPI.Post("/orders/{number:string}/cancel", func(ctx iris.Context) {
		o, err := orderSvc.Cancel(ctx.Request().Context(), ctx.Params().Get("number"), currentUser(ctx))
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, o)
	})

	// Payments.
	authAPI.Post("/payments/create-order", func(ctx iris.Context) {
		var req struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			Receipt  string `json:"receipt"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, err.Error())
			return
		}
		intent, err := checkoutSvc.CreatePaymentIntent(ctx.Request().Context(), currentUser(ctx), req.Amount, req.Currency, req.Receipt)
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, intent)
	})

	authAPI.Post("/payments/verify-payment", func(ctx iris.Context) {
		var req struct {
			RazorpayOrderID   string             `json:"razorpay_order_id"`
			RazorpayPaymentID string             `json:"razorpay_payment_id"`
			RazorpaySignature string             `json:"razorpay_signature"`
			OrderData         service.OrderDraft `json:"orderData"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, err.Error())
			return
		}
		o, err := checkoutSvc.SettlePayment(ctx.Request().Context(), currentUser(ctx),
			req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, &req.OrderData)
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, o)
	})

	authAPI.Post("/payments/payment-failed", func(ctx iris.Context) {
		var req struct {
			RazorpayOrderID string `json:"razorpay_order_id"`
			Reason          string `json:"reason"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, err.Error())
			return
		}
		checkoutSvc.RecordPaymentFailure(ctx.Request().Context(), currentUser(ctx), req.RazorpayOrderID, req.Reason)
		ok(ctx, iris.Map{"recorded": true})
	})

	// Vendor self-service.
	authAPI.Post("/vendor/apply", func(ctx iris.Context) {
		var req struct {
			StoreName string `json:"store_name"`
			About     string `json:"about"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, err.Error())
			return
		}
		v, err := vendorSvc.Apply(ctx.Request().Context(), currentUser(ctx), req.StoreName, req.About)
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, v)
	})

	authAPI.Get("/vendor/me", func(ctx iris.Context) {
		v, err := vendorSvc.GetByUser(ctx.Request().Context(), currentUser(ctx))
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, v)
	})

	registerVendorProductRoutes(authAPI, vendorSvc, productSvc)
}

// registerVendorProductRoutes mounts catalog management for approved
// vendors. Every route re-checks approval and ownership; the role claim
// alone is not trusted for writes.
func registerVendorProductRoutes(party iris.Party, vendorSvc *service.VendorService, productSvc *service.ProductService) {
	grp := party.Party("/vendor/products")

	grp.Get("/", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default(middleware.UserIDKey, 0)
		v, err := vendorSvc.RequireApproved(ctx.Request().Context(), userID)
		if err != nil {
			failErr(ctx, err)
			return
		}
		list, err := productSvc.ListByVendor(ctx.Request().Context(), v.ID)
		if err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, list)
	})

	grp.Post("/", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default(middleware.UserIDKey, 0)
		v, err := vendorSvc.RequireApproved(ctx.Request().Context(), userID)
		if err != nil {
			failErr(ctx, err)
			return
		}
		var req productPayload
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, err.Error())
			return
		}
		p := req.toProduct()
		p.VendorID = v.ID
		if err := productSvc.Create(ctx.Request().Context(), p); err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, p)
	})

	grp.Put("/{id:int64}", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default(middleware.UserIDKey, 0)
		v, err := vendorSvc.RequireApproved(ctx.Request().Context(), userID)
		if err != nil {
			failErr(ctx, err)
			return
		}
		pid, _ := ctx.Params().GetInt64("id")
		p, err := productSvc.GetByID(ctx.Request().Context(), pid)
		if err != nil {
			failErr(ctx, err)
			return
		}
		if p.VendorID != v.ID {
			failErr(ctx, service.ErrNotProductOwner)
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

	grp.Delete("/{id:int64}", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default(middleware.UserIDKey, 0)
		v, err := vendorSvc.RequireApproved(ctx.Request().Context(), userID)
		if err != nil {
			failErr(ctx, err)
			return
		}
		pid, _ := ctx.Params().GetInt64("id")
		p, err := productSvc.GetByID(ctx.Request().Context(), pid)
		if err != nil {
			failErr(ctx, err)
			return
		}
		if p.VendorID != v.ID {
			failErr(ctx, service.ErrNotProductOwner)
			return
		}
		if err := productSvc.Delete(ctx.Request().Context(), pid); err != nil {
			failErr(ctx, err)
			return
		}
		ok(ctx, iris.Map{"deleted": strconv.FormatInt(pid, 10)})
	})
}
