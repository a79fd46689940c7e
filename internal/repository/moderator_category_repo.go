package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/internal/model"
)

type ModeratorCategoryRepository struct {
	db *gorm.DB
}

func NewModeratorCategoryRepository(db *gorm.DB) *ModeratorCategoryRepository {
	return &ModeratorCategoryRepository{db: db}
}

func (r *ModeratorCategoryRepository) Create(assignment *model.ModeratorCategory) error {
	return r.db.Create(assignment).Error
}

func (r *ModeratorCategoryRepository) GetByID(id int64) (*model.ModeratorCategory, error) {
	var assignment model.ModeratorCategory
	err := r.db.Where("id = ?", id).First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Exists 检查分配是否存在
func (r *ModeratorCategoryRepository) Exists(userID, categoryID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.ModeratorCategory{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Count(&count).Error
	return count > 0, err
}

func (r *ModeratorCategoryRepository) Delete(id int64) error {
	return r.db.Delete(&model.ModeratorCategory{}, id).Error
}

// CategoryIDsByUser 版主直接负责的分类
func (r *ModeratorCategoryRepository) CategoryIDsByUser(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.ModeratorCategory{}).
		Where("user_id = ?", userID).
		Order("category_id ASC").
		Pluck("category_id", &ids).Error
	return ids, err
}

// List 获取分配列表，userID 为空时返回全部
func (r *ModeratorCategoryRepository) List(userID *int64) ([]*model.ModeratorCategory, error) {
	var assignments []*model.ModeratorCategory

	query := r.db.Preload("User").Preload("Category")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	err := query.Order("id ASC").Find(&assignments).Error
	return assignments, err
}

// ModeratorIDsForCategories 负责任一给定分类的版主（去重）
func (r *ModeratorCategoryRepository) ModeratorIDsForCategories(categoryIDs []int64) ([]int64, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}

	var ids []int64
	err := r.db.Model(&model.ModeratorCategory{}).
		Distinct("moderator_categories.user_id").
		Joins("JOIN users ON users.id = moderator_categories.user_id").
		Where("moderator_categories.category_id IN ? AND users.role = ?", categoryIDs, model.RoleModerator).
		Order("moderator_categories.user_id ASC").
		Pluck("moderator_categories.user_id", &ids).Error
	return ids, err
}
