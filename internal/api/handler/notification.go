package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/storefront_server/internal/pkg/response"
	"github.com/qs3c/storefront_server/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// List 当前用户的通知
// GET /api/v1/notifications?unread=true
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	page, pageSize := pageParams(c)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))

	items, total, err := h.notificationService.List(actor.ID, unreadOnly, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// MarkRead 标记单条已读
// PATCH /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	notificationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(actor.ID, notificationID); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, nil)
}

// MarkAllRead 全部标记已读
// PATCH /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllRead(actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"updated": updated})
}
