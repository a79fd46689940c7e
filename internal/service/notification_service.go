package service

import (
	"context"
	"errors"
	"time"

	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/repository"
)

var ErrNotificationNotFound = errors.New("通知不存在")

// NotificationService 站内通知，同时可作为直接写库的 NotificationSink
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
}

func NewNotificationService(notificationRepo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// Push 写入一条通知
func (s *NotificationService) Push(ctx context.Context, msg *dto.NotificationMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.notificationRepo.Create(&model.Notification{
		UserID:      msg.RecipientUserID,
		Type:        msg.Type,
		Message:     msg.Message,
		RelatedID:   msg.RelatedID,
		RelatedType: msg.RelatedType,
	})
}

// List 用户通知列表
func (s *NotificationService) List(userID int64, unreadOnly bool, page, pageSize int) ([]*dto.NotificationItem, int64, error) {
	notifications, total, err := s.notificationRepo.ListByUser(userID, unreadOnly, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.NotificationItem, len(notifications))
	for i, n := range notifications {
		items[i] = &dto.NotificationItem{
			ID:          n.ID,
			Type:        n.Type,
			Message:     n.Message,
			RelatedID:   n.RelatedID,
			RelatedType: n.RelatedType,
			IsRead:      n.IsRead,
			CreatedAt:   n.CreatedAt.Format(time.RFC3339),
		}
	}
	return items, total, nil
}

// MarkRead 标记已读，不存在或不属于该用户时返回 ErrNotificationNotFound
func (s *NotificationService) MarkRead(userID, notificationID int64) error {
	rows, err := s.notificationRepo.MarkRead(notificationID, userID)
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	// 已读的通知再次标记时 MySQL 不计入影响行数
	exists, err := s.notificationRepo.ExistsForUser(notificationID, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead 全部已读，返回更新条数
func (s *NotificationService) MarkAllRead(userID int64) (int64, error) {
	return s.notificationRepo.MarkAllRead(userID)
}
