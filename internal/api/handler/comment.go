package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/storefront_server/internal/api/middleware"
	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/pkg/response"
	"github.com/qs3c/storefront_server/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
	voteService    *service.VoteService
}

func NewCommentHandler(commentService *service.CommentService, voteService *service.VoteService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		voteService:    voteService,
	}
}

// ListByProduct 商品评论列表，按访问者过滤可见评论
// GET /api/v1/comments/product/:productId
func (h *CommentHandler) ListByProduct(c *gin.Context) {
	productID, ok := idParam(c, "productId")
	if !ok {
		return
	}

	var viewer service.Viewer
	if actor, ok := middleware.GetActor(c); ok {
		viewer = service.ViewerFor(actor)
	} else {
		viewer = service.AnonymousViewer()
	}

	page, pageSize := pageParams(c)
	items, total, page, pageSize, err := h.commentService.ListByProduct(viewer, productID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Create 发表评论或回复
// POST /api/v1/comments
func (h *CommentHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.commentService.Create(c.Request.Context(), *actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "评论已提交，等待审核"
	if item.Status != model.CommentStatusPending {
		message = "评论成功"
	}
	response.SuccessWithMessage(c, message, item)
}

// Update 编辑待审核的评论
// PUT /api/v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	commentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.commentService.Update(*actor, commentID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "修改成功", item)
}

// Delete 删除评论
// DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	commentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(*actor, commentID); err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Vote 投票，重复同值投票视为撤销
// POST /api/v1/comments/:id/vote
func (h *CommentHandler) Vote(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	commentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if failedTag(err, tagVoteValue) {
			respondError(c, service.ErrInvalidVote)
			return
		}
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.voteService.Vote(*actor, commentID, req.Vote)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}

// Pending 待审核队列，版主只能看到负责分类下的评论
// GET /api/v1/comments/pending
func (h *CommentHandler) Pending(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	page, pageSize := pageParams(c)
	items, total, page, pageSize, err := h.commentService.ListPending(*actor, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Moderate 审核评论
// PATCH /api/v1/comments/:id/moderate
func (h *CommentHandler) Moderate(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	commentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.ModerateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if failedTag(err, tagModerationStatus) {
			respondError(c, service.ErrInvalidModerationStatus)
			return
		}
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.commentService.Moderate(c.Request.Context(), *actor, commentID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "审核成功", item)
}
