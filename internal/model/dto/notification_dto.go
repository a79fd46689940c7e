package dto

// NotificationMessage 待投递的通知
type NotificationMessage struct {
	RecipientUserID int64  `json:"recipient_user_id"`
	Type            string `json:"type"`
	Message         string `json:"message"`
	RelatedID       int64  `json:"related_id"`
	RelatedType     string `json:"related_type"`
}

// NotificationItem 通知项
type NotificationItem struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Message     string `json:"message"`
	RelatedID   int64  `json:"related_id"`
	RelatedType string `json:"related_type"`
	IsRead      bool   `json:"is_read"`
	CreatedAt   string `json:"created_at"`
}
