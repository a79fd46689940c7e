package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/storefront_server/config"
	"github.com/qs3c/storefront_server/internal/api/handler"
	"github.com/qs3c/storefront_server/internal/api/middleware"
	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/pkg/metrics"
)

type Router struct {
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	commentHandler      *handler.CommentHandler
	categoryHandler     *handler.CategoryHandler
	assignmentHandler   *handler.ModeratorCategoryHandler
	notificationHandler *handler.NotificationHandler
	users               middleware.UserLoader
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	commentHandler *handler.CommentHandler,
	categoryHandler *handler.CategoryHandler,
	assignmentHandler *handler.ModeratorCategoryHandler,
	notificationHandler *handler.NotificationHandler,
	users middleware.UserLoader,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		userHandler:         userHandler,
		commentHandler:      commentHandler,
		categoryHandler:     categoryHandler,
		assignmentHandler:   assignmentHandler,
		notificationHandler: notificationHandler,
		users:               users,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler.RegisterValidators()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(r.cfg.CORS))

	engine.GET("/metrics", metrics.Handler())

	optional := []gin.HandlerFunc{
		middleware.OptionalAuth(r.cfg.JWT.Secret),
		middleware.OptionalActor(r.users),
	}
	required := []gin.HandlerFunc{
		middleware.Auth(r.cfg.JWT.Secret),
		middleware.LoadActor(r.users),
	}
	elevated := middleware.RequireRoles(model.RoleAdmin, model.RoleModerator)
	adminOnly := middleware.RequireRoles(model.RoleAdmin)

	api := engine.Group("/api/v1")
	{
		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
		}

		// 公开接口 - 分类
		api.GET("/categories", r.categoryHandler.Tree)

		// 评论 - 公开读取（可选认证）
		commentsPublic := api.Group("/comments")
		commentsPublic.Use(optional...)
		{
			commentsPublic.GET("/product/:productId", r.commentHandler.ListByProduct)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(required...)
		{
			authenticated.GET("/users/me", r.userHandler.Me)

			comments := authenticated.Group("/comments")
			{
				comments.POST("", r.commentHandler.Create)
				comments.PUT("/:id", r.commentHandler.Update)
				comments.DELETE("/:id", r.commentHandler.Delete)
				comments.POST("/:id/vote", r.commentHandler.Vote)

				// 审核
				comments.GET("/pending", elevated, r.commentHandler.Pending)
				comments.PATCH("/:id/moderate", elevated, r.commentHandler.Moderate)
			}

			notifications := authenticated.Group("/notifications")
			{
				notifications.GET("", r.notificationHandler.List)
				notifications.PATCH("/read-all", r.notificationHandler.MarkAllRead)
				notifications.PATCH("/:id/read", r.notificationHandler.MarkRead)
			}

			// 管理员
			admin := authenticated.Group("")
			admin.Use(adminOnly)
			{
				admin.POST("/categories", r.categoryHandler.Create)
				admin.PUT("/categories/:id", r.categoryHandler.Update)
				admin.DELETE("/categories/:id", r.categoryHandler.Delete)

				admin.GET("/moderator-categories", r.assignmentHandler.List)
				admin.POST("/moderator-categories", r.assignmentHandler.Create)
				admin.DELETE("/moderator-categories/:id", r.assignmentHandler.Delete)

				admin.PATCH("/users/:id/role", r.userHandler.SetRole)
			}
		}
	}

	return engine
}
