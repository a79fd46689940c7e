package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/qs3c/storefront_server/internal/api/middleware"
	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/pkg/response"
	"github.com/qs3c/storefront_server/internal/service"
)

type errorMapping struct {
	targets []error
	respond func(c *gin.Context, message string)
}

// 业务错误到响应码的映射，按顺序匹配
var errorMappings = []errorMapping{
	{
		targets: []error{
			service.ErrCommentNotFound,
			service.ErrProductNotFound,
			service.ErrCategoryNotFound,
			service.ErrParentNotFound,
			service.ErrAssignmentNotFound,
			service.ErrUserNotFound,
			service.ErrNotificationNotFound,
		},
		respond: response.NotFoundError,
	},
	{
		targets: []error{
			service.ErrCommentPermission,
			service.ErrSelfVote,
		},
		respond: response.PermissionError,
	},
	{
		targets: []error{
			service.ErrCommentNotPending,
			service.ErrInvalidVote,
			service.ErrInvalidModerationStatus,
			service.ErrCategoryCycle,
			service.ErrNotAModerator,
			service.ErrCategoryHasChildren,
			service.ErrCategoryHasProducts,
			service.ErrParentNotInProduct,
			service.ErrEmptyContent,
		},
		respond: response.InvalidStateError,
	},
	{
		targets: []error{service.ErrDuplicateAssignment},
		respond: response.DuplicateError,
	},
	{
		targets: []error{
			service.ErrModerationConflict,
			service.ErrVoteConflict,
		},
		respond: response.ConflictError,
	},
	{
		targets: []error{
			service.ErrEmailExists,
			service.ErrUsernameExists,
			service.ErrInvalidRole,
		},
		respond: response.ParamError,
	},
	{
		targets: []error{service.ErrInvalidCredentials},
		respond: response.AuthError,
	},
}

// respondError 把 service 层错误转换为统一响应，未知错误记日志后返回 5000
func respondError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		for _, target := range m.targets {
			if errors.Is(err, target) {
				m.respond(c, target.Error())
				return
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"request_id": middleware.GetRequestID(c),
		"path":       c.FullPath(),
	}).WithError(err).Error("unhandled service error")
	response.ServerError(c, "")
}

// requireActor 取当前操作者，缺失时直接返回认证错误
func requireActor(c *gin.Context) (*model.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.AuthError(c, "")
		return nil, false
	}
	return actor, true
}
