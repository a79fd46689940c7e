package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/internal/model"
)

var seq int64

func nextSeq() int64 {
	return atomic.AddInt64(&seq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	n := nextSeq()
	user := &model.User{
		Username:     fmt.Sprintf("user_%d", n),
		Email:        fmt.Sprintf("user_%d_%s", n, faker.Email()),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // bcrypt hash placeholder
		FirstName:    faker.FirstName(),
		LastName:     faker.LastName(),
		Role:         model.RoleUser,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// WithPasswordHash 设置密码哈希
func WithPasswordHash(hash string) func(*model.User) {
	return func(u *model.User) {
		u.PasswordHash = hash
	}
}

// TestAdmin 创建管理员
func TestAdmin(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	return TestUser(t, db, WithRole(model.RoleAdmin))
}

// TestModerator 创建版主
func TestModerator(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	return TestUser(t, db, WithRole(model.RoleModerator))
}

// TestCategory 创建分类，parentID 为 nil 时为根分类
func TestCategory(t *testing.T, db *gorm.DB, name string, parentID *int64) *model.Category {
	t.Helper()

	category := &model.Category{
		Name:     name,
		ParentID: parentID,
	}

	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}

	return category
}

// TestProduct 创建测试商品
func TestProduct(t *testing.T, db *gorm.DB, categoryID int64) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:       fmt.Sprintf("Product %d", nextSeq()),
		CategoryID: categoryID,
	}

	if err := db.Create(product).Error; err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}

	return product
}

// TestAssignment 给版主分配分类
func TestAssignment(t *testing.T, db *gorm.DB, userID, categoryID int64) *model.ModeratorCategory {
	t.Helper()

	assignment := &model.ModeratorCategory{
		UserID:     userID,
		CategoryID: categoryID,
	}

	if err := db.Create(assignment).Error; err != nil {
		t.Fatalf("Failed to create test assignment: %v", err)
	}

	return assignment
}

// TestComment 创建测试评论
func TestComment(t *testing.T, db *gorm.DB, userID, productID int64, opts ...func(*model.Comment)) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		UserID:    userID,
		ProductID: productID,
		Content:   faker.Sentence(),
		Status:    model.CommentStatusPending,
	}

	for _, opt := range opts {
		opt(comment)
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}

	return comment
}

// WithContent 设置评论内容
func WithContent(content string) func(*model.Comment) {
	return func(c *model.Comment) {
		c.Content = content
	}
}

// WithCommentStatus 设置评论状态，非 pending 时同时填充审核信息
func WithCommentStatus(status string, moderatorID int64) func(*model.Comment) {
	return func(c *model.Comment) {
		c.Status = status
		if status != model.CommentStatusPending {
			now := time.Now()
			c.ModeratedBy = &moderatorID
			c.ModeratedAt = &now
		}
	}
}

// Approved 已通过的评论
func Approved(moderatorID int64) func(*model.Comment) {
	return WithCommentStatus(model.CommentStatusApproved, moderatorID)
}

// WithParent 设置父评论
func WithParent(parentID int64) func(*model.Comment) {
	return func(c *model.Comment) {
		c.ParentID = &parentID
	}
}

// WithCreatedAt 设置创建时间
func WithCreatedAt(at time.Time) func(*model.Comment) {
	return func(c *model.Comment) {
		c.CreatedAt = at
	}
}

// TestVote 创建投票记录（不调整评分）
func TestVote(t *testing.T, db *gorm.DB, userID, commentID int64, vote int) *model.CommentVote {
	t.Helper()

	v := &model.CommentVote{
		UserID:    userID,
		CommentID: commentID,
		Vote:      vote,
	}

	if err := db.Create(v).Error; err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return v
}

// TestNotification 创建测试通知
func TestNotification(t *testing.T, db *gorm.DB, userID int64, isRead bool) *model.Notification {
	t.Helper()

	n := &model.Notification{
		UserID:      userID,
		Type:        model.NotificationCommentPending,
		Message:     faker.Sentence(),
		RelatedType: "comment",
		IsRead:      isRead,
	}

	if err := db.Create(n).Error; err != nil {
		t.Fatalf("Failed to create test notification: %v", err)
	}

	return n
}

// Int64Ptr 返回指针
func Int64Ptr(v int64) *int64 {
	return &v
}
