package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/config"
	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/repository"
	"github.com/qs3c/storefront_server/internal/service"
)

type opener func(configPath string) (*gorm.DB, *config.Config, error)

func newRootCmd(open opener) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "maintenance",
		Short:         "Storefront comment maintenance tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "config file path")

	connect := func() (*gorm.DB, *config.Config, error) {
		return open(configPath)
	}

	root.AddCommand(
		reconcileCmd(connect),
		purgeCmd(connect),
		setRoleCmd(connect),
		seedCmd(connect),
	)
	return root
}

func reconcileCmd(connect func() (*gorm.DB, *config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile-ratings",
		Short: "Recompute comment ratings from stored votes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := connect()
			if err != nil {
				return err
			}

			fixed, err := repository.NewVoteRepository(db).ReconcileRatings()
			if err != nil {
				return fmt.Errorf("reconcile ratings: %w", err)
			}
			cmd.Printf("reconciled %d comment ratings\n", fixed)
			return nil
		},
	}
}

func purgeCmd(connect func() (*gorm.DB, *config.Config, error)) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "purge-notifications",
		Short: "Delete read notifications older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cfg, err := connect()
			if err != nil {
				return err
			}

			retention := days
			if retention <= 0 {
				retention = cfg.Maintenance.NotificationRetentionDays
			}
			if retention <= 0 {
				return fmt.Errorf("retention must be positive, got %d", retention)
			}

			before := time.Now().AddDate(0, 0, -retention)
			deleted, err := repository.NewNotificationRepository(db).DeleteReadBefore(before)
			if err != nil {
				return fmt.Errorf("purge notifications: %w", err)
			}
			cmd.Printf("deleted %d read notifications older than %d days\n", deleted, retention)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "retention in days (defaults to maintenance.notification_retention_days)")
	return cmd
}

func setRoleCmd(connect func() (*gorm.DB, *config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <user-id> <admin|moderator|user>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || userID <= 0 {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			db, _, err := connect()
			if err != nil {
				return err
			}

			info, err := service.NewUserService(repository.NewUserRepository(db)).SetRole(userID, args[1])
			if err != nil {
				return err
			}
			cmd.Printf("user %d (%s) is now %s\n", info.ID, info.Username, info.Role)
			return nil
		},
	}
}

// seedCmd 写入演示数据，数据库非空时拒绝执行
func seedCmd(connect func() (*gorm.DB, *config.Config, error)) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate an empty database with demo users, categories and products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cfg, err := connect()
			if err != nil {
				return err
			}

			var users int64
			if err := db.Model(&model.User{}).Count(&users).Error; err != nil {
				return err
			}
			if users > 0 {
				return fmt.Errorf("database already has %d users, refusing to seed", users)
			}

			if err := seed(db, cfg, password); err != nil {
				return err
			}
			cmd.Println("seeded demo data")
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "password123", "password for the demo accounts")
	return cmd
}

func seed(db *gorm.DB, cfg *config.Config, password string) error {
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)

	authService := service.NewAuthService(userRepo, cfg)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo, productRepo, service.NewCategoryTree(categoryRepo))
	assignmentService := service.NewModeratorCategoryService(repository.NewModeratorCategoryRepository(db), userRepo, categoryRepo)

	accounts := []struct {
		username string
		role     string
	}{
		{"admin", model.RoleAdmin},
		{"moderator", model.RoleModerator},
		{"shopper", model.RoleUser},
	}
	ids := make(map[string]int64, len(accounts))
	for _, a := range accounts {
		resp, err := authService.Register(&dto.RegisterRequest{
			Username: a.username,
			Email:    a.username + "@storefront.local",
			Password: password,
		})
		if err != nil {
			return fmt.Errorf("register %s: %w", a.username, err)
		}
		if a.role != model.RoleUser {
			if _, err := userService.SetRole(resp.UserID, a.role); err != nil {
				return fmt.Errorf("promote %s: %w", a.username, err)
			}
		}
		ids[a.username] = resp.UserID
	}

	electronics, err := categoryService.Create(&dto.CreateCategoryRequest{Name: "Electronics"})
	if err != nil {
		return err
	}
	phones, err := categoryService.Create(&dto.CreateCategoryRequest{Name: "Phones", ParentID: &electronics.ID})
	if err != nil {
		return err
	}
	home, err := categoryService.Create(&dto.CreateCategoryRequest{Name: "Home"})
	if err != nil {
		return err
	}

	products := []*model.Product{
		{Name: "Pocket Phone X", CategoryID: phones.ID},
		{Name: "Noise-cancelling Headphones", CategoryID: electronics.ID},
		{Name: "Cast Iron Pan", CategoryID: home.ID},
	}
	for _, p := range products {
		if err := productRepo.Create(p); err != nil {
			return fmt.Errorf("create product %s: %w", p.Name, err)
		}
	}

	if _, err := assignmentService.Assign(ids["moderator"], electronics.ID); err != nil {
		return fmt.Errorf("assign moderator: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"users":      len(accounts),
		"categories": 3,
		"products":   len(products),
	}).Info("Demo data seeded")
	return nil
}
