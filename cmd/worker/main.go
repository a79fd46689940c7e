package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/qs3c/storefront_server/config"
	"github.com/qs3c/storefront_server/internal/database"
	"github.com/qs3c/storefront_server/internal/pkg/logger"
	"github.com/qs3c/storefront_server/internal/pkg/queue"
	"github.com/qs3c/storefront_server/internal/repository"
	"github.com/qs3c/storefront_server/internal/service"
	"github.com/qs3c/storefront_server/internal/worker"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		logrus.Fatalf("Invalid log config: %v", err)
	}

	// 初始化数据库
	db, err := database.Open(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to connect database: %v", err)
	}
	logrus.Info("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		logrus.Fatalf("Failed to connect redis: %v", err)
	}
	defer rdb.Close()
	logrus.Info("Redis connected")

	notificationQueue := queue.NewQueue(rdb, cfg.Queue.NotificationQueue)
	inbox := service.NewNotificationService(repository.NewNotificationRepository(db))
	runner := worker.NewRunner(notificationQueue, worker.NewProcessor(inbox, notificationQueue), cfg.Queue.MaxWorkers)

	// 创建 context 用于优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrus.WithFields(logrus.Fields{
		"queue":   cfg.Queue.NotificationQueue,
		"workers": cfg.Queue.MaxWorkers,
	}).Info("Worker started")

	runner.Run(ctx)
	logrus.Info("Worker shutdown complete")
}
