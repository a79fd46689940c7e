package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/pkg/response"
	"github.com/qs3c/storefront_server/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me 当前用户信息
// GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, profile)
}

// SetRole 修改用户角色，降级的版主保留分配记录但不再生效
// PATCH /api/v1/users/:id/role
func (h *UserHandler) SetRole(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	profile, err := h.userService.SetRole(userID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "修改成功", profile)
}
