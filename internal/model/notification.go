package model

import (
	"time"
)

// 通知类型
const (
	NotificationCommentPending  = "comment_pending"
	NotificationCommentApproved = "comment_approved"
	NotificationCommentRejected = "comment_rejected"
)

type Notification struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"not null;index" json:"user_id"` // 接收者
	Type        string    `gorm:"size:30;not null" json:"type"`
	Message     string    `gorm:"type:text" json:"message"`
	RelatedID   int64     `json:"related_id"`
	RelatedType string    `gorm:"size:30" json:"related_type"`
	IsRead      bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
