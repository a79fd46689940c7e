package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/internal/model"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *CategoryRepository) GetByID(id int64) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// List 获取全部分类
func (r *CategoryRepository) List() ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.Order("id ASC").Find(&categories).Error
	return categories, err
}

// ListChildIDs 获取一批分类的直接子分类 ID
func (r *CategoryRepository) ListChildIDs(parentIDs []int64) ([]int64, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var ids []int64
	err := r.db.Model(&model.Category{}).
		Where("parent_id IN ?", parentIDs).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// Update 更新名称和父分类
func (r *CategoryRepository) Update(id int64, name string, parentID *int64) error {
	return r.db.Model(&model.Category{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":      name,
		"parent_id": parentID,
	}).Error
}

// CountChildren 子分类数量
func (r *CategoryRepository) CountChildren(id int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Category{}).Where("parent_id = ?", id).Count(&count).Error
	return count, err
}

// DeleteWithAssignments 删除分类并级联删除版主分配
func (r *CategoryRepository) DeleteWithAssignments(id int64) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("category_id = ?", id).Delete(&model.ModeratorCategory{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected

		return tx.Delete(&model.Category{}, id).Error
	})
	return removed, err
}
