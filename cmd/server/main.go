package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qs3c/storefront_server/config"
	"github.com/qs3c/storefront_server/internal/api"
	"github.com/qs3c/storefront_server/internal/api/handler"
	"github.com/qs3c/storefront_server/internal/database"
	"github.com/qs3c/storefront_server/internal/pkg/cron"
	"github.com/qs3c/storefront_server/internal/pkg/logger"
	"github.com/qs3c/storefront_server/internal/pkg/queue"
	"github.com/qs3c/storefront_server/internal/repository"
	"github.com/qs3c/storefront_server/internal/service"
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
	if err := database.Migrate(db); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}
	logrus.WithField("driver", cfg.Database.Driver).Info("Database connected")

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	assignmentRepo := repository.NewModeratorCategoryRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// 初始化 Service
	notificationService := service.NewNotificationService(notificationRepo)

	// 配置了 Redis 时通知走队列，由 worker 落库；否则直接写库
	var sink service.NotificationSink = notificationService
	if cfg.Redis.Enabled() {
		rdb, err := database.NewRedis(&cfg.Redis)
		if err != nil {
			logrus.Fatalf("Failed to connect redis: %v", err)
		}
		defer rdb.Close()
		sink = queue.NewQueue(rdb, cfg.Queue.NotificationQueue)
		logrus.WithField("queue", cfg.Queue.NotificationQueue).Info("Notifications routed through redis queue")
	}

	tree := service.NewCategoryTree(categoryRepo)
	access := service.NewAccessService(tree, assignmentRepo, productRepo)
	commentService := service.NewCommentService(commentRepo, productRepo, access, sink, cfg)
	voteService := service.NewVoteService(voteRepo, commentRepo)
	categoryService := service.NewCategoryService(categoryRepo, productRepo, tree)
	assignmentService := service.NewModeratorCategoryService(assignmentRepo, userRepo, categoryRepo)
	authService := service.NewAuthService(userRepo, cfg)
	userService := service.NewUserService(userRepo)

	// 定时任务
	cronService := cron.NewService(voteRepo, notificationRepo,
		cfg.Maintenance.ReconcileIntervalMinutes, cfg.Maintenance.NotificationRetentionDays)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewCommentHandler(commentService, voteService),
		handler.NewCategoryHandler(categoryService),
		handler.NewModeratorCategoryHandler(assignmentService),
		handler.NewNotificationHandler(notificationService),
		userRepo,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}
	logrus.Info("Server exited")
}
