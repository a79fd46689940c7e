package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create 创建评论
func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// GetByID 根据 ID 获取评论
func (r *CommentRepository) GetByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetByIDWithUser 获取评论及用户信息
func (r *CommentRepository) GetByIDWithUser(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Preload("User").Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdatePendingContent 仅在评论仍待审核时修改内容
func (r *CommentRepository) UpdatePendingContent(id int64, content string) (int64, error) {
	result := r.db.Model(&model.Comment{}).
		Where("id = ? AND status = ?", id, model.CommentStatusPending).
		Update("content", content)
	return result.RowsAffected, result.Error
}

// TransitionFromPending 审核状态流转，只有当前仍为 pending 才会生效
func (r *CommentRepository) TransitionFromPending(id int64, status string, moderatorID int64, at time.Time) (int64, error) {
	result := r.db.Model(&model.Comment{}).
		Where("id = ? AND status = ?", id, model.CommentStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"moderated_by": moderatorID,
			"moderated_at": at,
		})
	return result.RowsAffected, result.Error
}

// DeleteWithReplies 删除评论、其回复以及相关投票
func (r *CommentRepository) DeleteWithReplies(id int64) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ids []int64
		if err := tx.Model(&model.Comment{}).Where("parent_id = ?", id).Pluck("id", &ids).Error; err != nil {
			return err
		}
		ids = append(ids, id)

		if err := tx.Where("comment_id IN ?", ids).Delete(&model.CommentVote{}).Error; err != nil {
			return err
		}

		result := tx.Where("id IN ?", ids).Delete(&model.Comment{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

// visibleTo 已通过的评论，或 viewerID 本人的评论；viewerID 为 0 表示匿名
func visibleTo(db *gorm.DB, viewerID int64) *gorm.DB {
	if viewerID == 0 {
		return db.Where("status = ?", model.CommentStatusApproved)
	}
	return db.Where("(status = ? OR user_id = ?)", model.CommentStatusApproved, viewerID)
}

// ListVisibleRoots 获取商品下对 viewer 可见的一级评论，先过滤再分页
func (r *CommentRepository) ListVisibleRoots(productID, viewerID int64, page, pageSize int) ([]*model.Comment, int64, error) {
	var comments []*model.Comment
	var total int64

	query := visibleTo(r.db.Model(&model.Comment{}), viewerID).
		Where("product_id = ? AND parent_id IS NULL", productID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("User").
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(pageSize).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// GetRepliesByParentIDs 批量获取回复
func (r *CommentRepository) GetRepliesByParentIDs(parentIDs []int64) ([]*model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var replies []*model.Comment
	err := r.db.Preload("User").
		Where("parent_id IN ?", parentIDs).
		Order("created_at ASC").Order("id ASC").
		Find(&replies).Error
	return replies, err
}

// ListPending 获取待审核评论，categoryIDs 为 nil 表示不限分类
func (r *CommentRepository) ListPending(categoryIDs []int64, page, pageSize int) ([]*model.Comment, int64, error) {
	var comments []*model.Comment
	var total int64

	query := r.db.Model(&model.Comment{}).Where("status = ?", model.CommentStatusPending)
	if categoryIDs != nil {
		if len(categoryIDs) == 0 {
			return []*model.Comment{}, 0, nil
		}
		query = query.Where("product_id IN (?)",
			r.db.Model(&model.Product{}).Select("id").Where("category_id IN ?", categoryIDs))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("User").
		Order("created_at ASC").Order("id ASC").
		Offset(offset).Limit(pageSize).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}
