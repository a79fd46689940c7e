package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/pkg/response"
	"github.com/qs3c/storefront_server/internal/service"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// Tree 分类树
// GET /api/v1/categories
func (h *CategoryHandler) Tree(c *gin.Context) {
	tree, err := h.categoryService.Tree()
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, tree)
}

// Create 创建分类
// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	node, err := h.categoryService.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "创建成功", node)
}

// Update 修改分类名称或移动分类
// PUT /api/v1/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	categoryID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	node, err := h.categoryService.Update(categoryID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "修改成功", node)
}

// Delete 删除分类，同时移除该分类的版主分配
// DELETE /api/v1/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	categoryID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(categoryID); err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
