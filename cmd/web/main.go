package main

import (
	"flag"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/SahilSagvekar/vedessa-sub001/internal/config"
	"github.com/SahilSagvekar/vedessa-sub001/internal/infra/mq"
	"github.com/SahilSagvekar/vedessa-sub001/internal/infra/redis"
	"github.com/SahilSagvekar/vedessa-sub001/internal/logging"
	"github.com/SahilSagvekar/vedessa-sub001/internal/repository/postgres"
	"github.com/SahilSagvekar/vedessa-sub001/internal/server"
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
	mqConn, err := mq.Connect(&cfg.RabbitMQ)
	if err != nil {
		logger.Fatal("connect rabbitmq", zap.Error(err))
	}
	defer mqConn.Close()

	app := iris.New()
	server.RegisterRoutes(app, cfg, db, redisClient, mqConn)

	addr := cfg.Server.Addr()
	logger.Info("storefront listening", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.Fatal("run storefront", zap.Error(err))
	}
}
