package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/internal/model"
)

// VoteRepository 投票记录以及由投票派生的评论评分
// 评分只能通过这里修改
type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Transaction 在同一事务中执行 fn
func (r *VoteRepository) Transaction(fn func(tx *VoteRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&VoteRepository{db: tx})
	})
}

// Get 获取用户对评论的投票，不存在时返回 nil
func (r *VoteRepository) Get(userID, commentID int64) (*model.CommentVote, error) {
	var vote model.CommentVote
	err := r.db.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

func (r *VoteRepository) Create(vote *model.CommentVote) error {
	return r.db.Create(vote).Error
}

// Delete 删除投票，value 不匹配时不删除
func (r *VoteRepository) Delete(id int64, value int) (int64, error) {
	result := r.db.Where("id = ? AND vote = ?", id, value).Delete(&model.CommentVote{})
	return result.RowsAffected, result.Error
}

// Flip 将投票从 from 改为 to
func (r *VoteRepository) Flip(id int64, from, to int) (int64, error) {
	result := r.db.Model(&model.CommentVote{}).
		Where("id = ? AND vote = ?", id, from).
		Update("vote", to)
	return result.RowsAffected, result.Error
}

// AdjustRating 原子地调整评论评分
func (r *VoteRepository) AdjustRating(commentID int64, delta int) error {
	return r.db.Model(&model.Comment{}).Where("id = ?", commentID).
		UpdateColumn("rating", gorm.Expr("rating + ?", delta)).Error
}

// GetRating 读取评论评分
func (r *VoteRepository) GetRating(commentID int64) (int, error) {
	var rating int
	err := r.db.Model(&model.Comment{}).Where("id = ?", commentID).
		Select("rating").Scan(&rating).Error
	return rating, err
}

// ReconcileRatings 用投票记录重算所有与之不一致的评分
func (r *VoteRepository) ReconcileRatings() (int64, error) {
	sum := "(SELECT COALESCE(SUM(comment_votes.vote), 0) FROM comment_votes WHERE comment_votes.comment_id = comments.id)"
	result := r.db.Exec("UPDATE comments SET rating = " + sum + " WHERE rating <> " + sum)
	return result.RowsAffected, result.Error
}
