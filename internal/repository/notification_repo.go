package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/internal/model"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.db.Create(n).Error
}

// ListByUser 获取用户通知
func (r *NotificationRepository) ListByUser(userID int64, unreadOnly bool, page, pageSize int) ([]*model.Notification, int64, error) {
	var notifications []*model.Notification
	var total int64

	query := r.db.Model(&model.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(pageSize).Find(&notifications).Error
	return notifications, total, err
}

// MarkRead 标记单条已读，只能操作自己的通知
func (r *NotificationRepository) MarkRead(id, userID int64) (int64, error) {
	result := r.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// ExistsForUser 通知是否属于该用户
func (r *NotificationRepository) ExistsForUser(id, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error
	return count > 0, err
}

// MarkAllRead 全部已读
func (r *NotificationRepository) MarkAllRead(userID int64) (int64, error) {
	result := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// DeleteReadBefore 删除早于 before 的已读通知
func (r *NotificationRepository) DeleteReadBefore(before time.Time) (int64, error) {
	result := r.db.Where("is_read = ? AND created_at < ?", true, before).Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}
