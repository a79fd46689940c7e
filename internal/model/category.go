package model

import (
	"time"
)

type Category struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	ParentID  *int64    `gorm:"index" json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Product 商品，仅保留评论审核需要的字段
type Product struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:200;not null" json:"name"`
	CategoryID int64     `gorm:"not null;index" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}

// ModeratorCategory 版主负责的分类（含其全部子分类）
type ModeratorCategory struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	UserID     int64     `gorm:"not null;uniqueIndex:idx_moderator_category" json:"user_id"`
	CategoryID int64     `gorm:"not null;uniqueIndex:idx_moderator_category;index" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`

	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (ModeratorCategory) TableName() string {
	return "moderator_categories"
}
