package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/pkg/response"
)

const (
	ActorKey = "actor"
)

// UserLoader 按 ID 读取用户
type UserLoader interface {
	GetByID(id int64) (*model.User, error)
}

// LoadActor 读取当前用户并写入上下文，必须在 Auth 之后使用
// 角色以数据库为准，令牌里不携带角色
func LoadActor(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		user, err := users.GetByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.AuthError(c, "用户不存在")
			} else {
				logrus.WithError(err).WithField("user_id", userID).Error("load actor failed")
				response.ServerError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(ActorKey, model.ActorOf(user))
		c.Next()
	}
}

// OptionalActor 与 OptionalAuth 搭配，用户不存在时按匿名处理
func OptionalActor(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			c.Next()
			return
		}

		user, err := users.GetByID(userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logrus.WithError(err).WithField("user_id", userID).Warn("load optional actor failed")
			}
			c.Next()
			return
		}

		c.Set(ActorKey, model.ActorOf(user))
		c.Next()
	}
}

// GetActor 从上下文获取当前操作者
func GetActor(c *gin.Context) (*model.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return nil, false
	}
	actor, ok := v.(model.Actor)
	if !ok {
		return nil, false
	}
	return &actor, true
}

// RequireRoles 限制角色
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		response.PermissionError(c, "")
		c.Abort()
	}
}
