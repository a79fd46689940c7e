package dto

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// UpdateCategoryRequest 更新分类请求，ParentID 为空表示移动到根
type UpdateCategoryRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	ParentID *int64 `json:"parent_id"`
}

// CategoryNode 分类树节点
type CategoryNode struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	ParentID *int64          `json:"parent_id"`
	Children []*CategoryNode `json:"children,omitempty"`
}

// AssignModeratorRequest 分配版主分类请求
type AssignModeratorRequest struct {
	UserID     int64 `json:"user_id" binding:"required,min=1"`
	CategoryID int64 `json:"category_id" binding:"required,min=1"`
}

// ModeratorCategoryItem 版主分类分配
type ModeratorCategoryItem struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	Username     string `json:"username,omitempty"`
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	CreatedAt    string `json:"created_at"`
}
