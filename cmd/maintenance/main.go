package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/config"
	"github.com/qs3c/storefront_server/internal/database"
	"github.com/qs3c/storefront_server/internal/pkg/logger"
)

func main() {
	if err := newRootCmd(openDB).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openDB 按配置连接数据库并迁移
func openDB(configPath string) (*gorm.DB, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	db, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	logrus.WithField("driver", cfg.Database.Driver).Debug("Database connected")
	return db, cfg, nil
}
