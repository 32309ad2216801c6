package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"

	radix "github.com/mediocregopher/radix/v3"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/SahilSagvekar/vedessa-sub001/internal/config"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/order"
	"github.com/SahilSagvekar/vedessa-sub001/internal/datamodels/user"
	"github.com/SahilSagvekar/vedessa-sub001/internal/infra/mq"
	"github.com/SahilSagvekar/vedessa-sub001/internal/infra/redis"
	"github.com/SahilSagvekar/vedessa-sub001/internal/logging"
	"github.com/SahilSagvekar/vedessa-sub001/internal/mailer"
	"github.com/SahilSagvekar/vedessa-sub001/internal/repository/postgres"
	"github.com/SahilSagvekar/vedessa-sub001/internal/service"
)

// processedKeyTTL bounds the redis dedupe marker for handled messages.
const processedKeyTTL = "86400"

type worker struct {
	orders   order.Repository
	users    user.Repository
	products *service.ProductService
	carts    *service.CartService
	coupons  *service.CouponService
	mail     mailer.Mailer
	redis    radix.Client
}

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
	mqConn, err := mq.Connect(&cfg.RabbitMQ)
	if err != nil {
		logger.Fatal("connect rabbitmq", zap.Error(err))
	}
	defer mqConn.Close()

	productRepo := postgres.NewProductRepository(db)
	cartRepo := postgres.NewCartRepository(db)

	w := &worker{
		orders:   postgres.NewOrderRepository(db),
		users:    postgres.NewUserRepository(db),
		products: service.NewProductService(productRepo),
		carts:    service.NewCartService(cartRepo, productRepo, &cfg.Pricing),
		coupons:  service.NewCouponService(postgres.NewCouponRepository(db)),
		mail:     mailer.New(&cfg.SMTP),
		redis:    redisClient,
	}

	ch, err := mqConn.Channel()
	if err != nil {
		logger.Fatal("open channel", zap.Error(err))
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(mq.SettledQueue, true, false, false, false, nil); err != nil {
		logger.Fatal("declare queue", zap.Error(err))
	}
	if err := ch.Qos(10, 0, false); err != nil {
		logger.Fatal("set qos", zap.Error(err))
	}

	msgs, err := ch.Consume(mq.SettledQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatal("consume", zap.Error(err))
	}

	logger.Info("settlement worker started", zap.String("queue", mq.SettledQueue))
	for d := range msgs {
		w.handle(context.Background(), d)
	}
}

func (w *worker) handle(ctx context.Context, d amqp.Delivery) {
	var m service.SettledMessage
	if err := json.Unmarshal(d.Body, &m); err != nil {
		zap.L().Error("drop malformed message", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	if w.alreadyProcessed(m.MessageID) {
		zap.L().Info("skip redelivered message", zap.String("message_id", m.MessageID))
		_ = d.Ack(false)
		return
	}

	o, err := w.orders.GetByID(ctx, m.OrderID)
	if err != nil {
		zap.L().Error("load settled order, requeueing",
			zap.Error(err), zap.Int64("order_id", m.OrderID))
		service.GetMonitor().RecordWorkerFailed()
		_ = d.Nack(false, true)
		return
	}

	// Stock decrements are per line and individually retried by the
	// reconciler; a shortfall never blocks the rest of the message.
	for i := range o.Items {
		w.applyLineStock(ctx, o, &o.Items[i])
	}

	if err := w.carts.Clear(ctx, o.UserID); err != nil {
		zap.L().Warn("clear cart", zap.Error(err), zap.Int64("user_id", o.UserID))
	}
	if err := w.coupons.MarkUsed(ctx, o.CouponCode); err != nil {
		zap.L().Warn("mark coupon used", zap.Error(err), zap.String("code", o.CouponCode))
	}

	if u, err := w.users.GetByID(ctx, o.UserID); err != nil {
		zap.L().Warn("receipt recipient lookup", zap.Error(err), zap.Int64("user_id", o.UserID))
	} else {
		w.mail.SendOrderReceipt(u.Email, o)
	}

	w.markProcessed(m.MessageID)
	service.GetMonitor().RecordWorkerProcessed()
	zap.L().Info("order housekeeping done", zap.String("order", o.OrderNumber))
	if err := d.Ack(false); err != nil {
		zap.L().Warn("ack", zap.Error(err))
	}
}

func (w *worker) applyLineStock(ctx context.Context, o *order.Order, l *order.Line) {
	if l.StockApplied {
		return
	}
	err := w.products.Decrement(ctx, l.ProductID, l.Quantity)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrProductNotFound):
		// Nothing left to decrement; settle the flag so the
		// reconciler stops retrying.
		zap.L().Warn("settled line for vanished product",
			zap.String("order", o.OrderNumber), zap.Int64("product_id", l.ProductID))
	case errors.Is(err, service.ErrInsufficientStock):
		service.GetMonitor().RecordStockShortfall()
		zap.L().Warn("oversold line, reconciler will retry",
			zap.String("order", o.OrderNumber),
			zap.Int64("product_id", l.ProductID),
			zap.Int64("quantity", l.Quantity))
		return
	default:
		zap.L().Error("decrement stock, reconciler will retry",
			zap.Error(err), zap.Int64("product_id", l.ProductID))
		return
	}
	if err := w.orders.MarkLineStockApplied(ctx, l.ID); err != nil {
		zap.L().Error("mark line applied", zap.Error(err), zap.Int64("line_id", l.ID))
		return
	}
	l.StockApplied = true
}

// alreadyProcessed reports whether a prior run finished this message.
// The marker is written only after the work completes, so a crash
// mid-message re-runs it; the steps above tolerate re-running.
func (w *worker) alreadyProcessed(messageID string) bool {
	if messageID == "" {
		return false
	}
	var exists int
	if err := w.redis.Do(radix.Cmd(&exists, "EXISTS", "settled:msg:"+messageID)); err != nil {
		zap.L().Warn("dedupe check", zap.Error(err))
		return false
	}
	return exists == 1
}

func (w *worker) markProcessed(messageID string) {
	if messageID == "" {
		return
	}
	if err := w.redis.Do(radix.Cmd(nil, "SET", "settled:msg:"+messageID, "1", "EX", processedKeyTTL)); err != nil {
		zap.L().Warn("dedupe marker", zap.Error(err))
	}
}
