package model

import (
	"time"
)

// 评论状态
const (
	CommentStatusPending  = "pending"
	CommentStatusApproved = "approved"
	CommentStatusRejected = "rejected"
)

type Comment struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	UserID      int64      `gorm:"not null;index" json:"user_id"`
	ProductID   int64      `gorm:"not null;index" json:"product_id"`
	ParentID    *int64     `gorm:"index" json:"parent_id,omitempty"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Status      string     `gorm:"size:20;not null;default:pending;index" json:"status"`
	Rating      int        `gorm:"not null;default:0" json:"rating"`
	ModeratedBy *int64     `json:"moderated_by,omitempty"`
	ModeratedAt *time.Time `json:"moderated_at,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// 关联
	User    *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Replies []*Comment `gorm:"-" json:"replies,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) IsPending() bool {
	return c.Status == CommentStatusPending
}

// CommentVote 用户对评论的投票，每个用户每条评论仅一条
type CommentVote struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_comment_vote_user" json:"user_id"`
	CommentID int64     `gorm:"not null;uniqueIndex:idx_comment_vote_user;index" json:"comment_id"`
	Vote      int       `gorm:"not null" json:"vote"` // 1 or -1
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CommentVote) TableName() string {
	return "comment_votes"
}
