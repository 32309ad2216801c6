package main

import (
	"context"
	"errors"
	"flag"
	"strconv"
	"time"

	radix "github.com/mediocregopher/radix/v3"
	"go.uber.org/zap"

	"github.com/SahilSagvekar/vedessa-sub001/internal/config"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/order"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/product"
	"github.com/SahilSagvekar/vedessa-sub001/internal/infra/redis"
	"github.com/SahilSagvekar/vedessa-sub001/internal/logging"
	"github.com/SahilSagvekar/vedessa-sub001/internal/repository/postgres"
	"github.com/SahilSagvekar/vedessa-sub001/internal/service"
)

const (
	checkInterval = 5 * time.Minute
	lineBatchSize = 200
)

func main() {
	configPath := flag.String("config", "", "directory containing config.yaml")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	logger, err := logging.Init(*debug)
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
	redisClient, err := redis.Connect(&cfg.Redis)
	if err != nil {
		logger.Fatal("connect redis", zap.Error(err))
	}

	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	products := service.NewProductService(productRepo)

	logger.Info("stock reconciler started", zap.Duration("interval", checkInterval))

	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	reconcile(context.Background(), orderRepo, products, productRepo, redisClient)
	for range ticker.C {
		reconcile(context.Background(), orderRepo, products, productRepo, redisClient)
	}
}

// reconcile retries stock decrements the settlement worker could not
// apply, then refreshes the redis stock mirror the storefront reads.
func reconcile(ctx context.Context, orders order.Repository, products *service.ProductService, productRepo product.Repository, redisClient radix.Client) {
	lines, err := orders.ListUnappliedLines(ctx, lineBatchSize)
	if err != nil {
		zap.L().Error("list unapplied lines", zap.Error(err))
		return
	}

	retried, applied := 0, 0
	for _, l := range lines {
		retried++
		err := products.Decrement(ctx, l.ProductID, l.Quantity)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrProductNotFound):
			// The product is gone; close the line out.
		case errors.Is(err, service.ErrInsufficientStock):
			service.GetMonitor().RecordStockShortfall()
			continue
		default:
			zap.L().Warn("retry decrement", zap.Error(err), zap.Int64("product_id", l.ProductID))
			continue
		}
		if err := orders.MarkLineStockApplied(ctx, l.ID); err != nil {
			zap.L().Warn("mark line applied", zap.Error(err), zap.Int64("line_id", l.ID))
			continue
		}
		applied++
	}
	if retried > 0 {
		zap.L().Info("retried unapplied lines", zap.Int("retried", retried), zap.Int("applied", applied))
	}

	syncStockMirror(ctx, productRepo, redisClient)
}

// syncStockMirror writes every active product's stock into redis so
// the storefront can answer availability without a DB round trip.
func syncStockMirror(ctx context.Context, productRepo product.Repository, redisClient radix.Client) {
	list, err := productRepo.List(ctx, product.ListFilter{ActiveOnly: true})
	if err != nil {
		zap.L().Error("list products for stock mirror", zap.Error(err))
		return
	}
	synced := 0
	for _, p := range list {
		key := "stock:product:" + strconv.FormatInt(p.ID, 10)
		if err := redisClient.Do(radix.FlatCmd(nil, "SET", key, p.Stock)); err != nil {
			zap.L().Warn("sync stock mirror", zap.Error(err), zap.Int64("product_id", p.ID))
			continue
		}
		synced++
	}
	zap.L().Debug("stock mirror synced", zap.Int("products", synced))
}
