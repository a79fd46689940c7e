package dto

// CreateCommentRequest 创建评论请求
type CreateCommentRequest struct {
	ProductID int64  `json:"product_id" binding:"required,min=1"`
	Content   string `json:"content" binding:"required,min=1,max=2000"`
	ParentID  *int64 `json:"parent_id,omitempty"`
}

// UpdateCommentRequest 编辑评论请求
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// ModerateCommentRequest 审核请求
type ModerateCommentRequest struct {
	Status string `json:"status" binding:"moderation_status"`
}

// VoteRequest 投票请求
type VoteRequest struct {
	Vote int `json:"vote" binding:"vote_value"`
}

// VoteResponse 投票结果
type VoteResponse struct {
	CommentID int64 `json:"comment_id"`
	Rating    int   `json:"rating"`
}

// CommentItem 评论项
type CommentItem struct {
	ID          int64          `json:"id"`
	ProductID   int64          `json:"product_id"`
	User        *CommentUser   `json:"user"`
	Content     string         `json:"content"`
	ContentHTML string         `json:"content_html"`
	Status      string         `json:"status"`
	Rating      int            `json:"rating"`
	ParentID    *int64         `json:"parent_id"`
	ModeratedBy *int64         `json:"moderated_by,omitempty"`
	ModeratedAt string         `json:"moderated_at,omitempty"`
	Replies     []*CommentItem `json:"replies,omitempty"`
	CreatedAt   string         `json:"created_at"`
}

// CommentUser 评论用户信息
type CommentUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
