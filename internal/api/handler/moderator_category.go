package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/pkg/response"
	"github.com/qs3c/storefront_server/internal/service"
)

type ModeratorCategoryHandler struct {
	assignmentService *service.ModeratorCategoryService
}

func NewModeratorCategoryHandler(assignmentService *service.ModeratorCategoryService) *ModeratorCategoryHandler {
	return &ModeratorCategoryHandler{
		assignmentService: assignmentService,
	}
}

// List 版主分类分配列表，可按 user_id 过滤
// GET /api/v1/moderator-categories
func (h *ModeratorCategoryHandler) List(c *gin.Context) {
	var userID *int64
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.ParamError(c, "无效的用户ID")
			return
		}
		userID = &id
	}

	items, err := h.assignmentService.List(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, items)
}

// Create 分配分类给版主
// POST /api/v1/moderator-categories
func (h *ModeratorCategoryHandler) Create(c *gin.Context) {
	var req dto.AssignModeratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.assignmentService.Assign(req.UserID, req.CategoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "分配成功", item)
}

// Delete 取消分配
// DELETE /api/v1/moderator-categories/:id
func (h *ModeratorCategoryHandler) Delete(c *gin.Context) {
	assignmentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.assignmentService.Unassign(assignmentID); err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "已取消分配", nil)
}
