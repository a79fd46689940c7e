package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/repository"
)

var (
	ErrNotAModerator       = errors.New("该用户不是版主")
	ErrDuplicateAssignment = errors.New("该版主已负责此分类")
	ErrAssignmentNotFound  = errors.New("分配记录不存在")
)

type ModeratorCategoryService struct {
	assignmentRepo *repository.ModeratorCategoryRepository
	userRepo       *repository.UserRepository
	categoryRepo   *repository.CategoryRepository
}

func NewModeratorCategoryService(
	assignmentRepo *repository.ModeratorCategoryRepository,
	userRepo *repository.UserRepository,
	categoryRepo *repository.CategoryRepository,
) *ModeratorCategoryService {
	return &ModeratorCategoryService{
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		categoryRepo:   categoryRepo,
	}
}

// Assign 给版主分配分类
func (s *ModeratorCategoryService) Assign(userID, categoryID int64) (*dto.ModeratorCategoryItem, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Role != model.RoleModerator {
		return nil, ErrNotAModerator
	}

	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	exists, err := s.assignmentRepo.Exists(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateAssignment
	}

	assignment := &model.ModeratorCategory{
		UserID:     userID,
		CategoryID: categoryID,
	}
	if err := s.assignmentRepo.Create(assignment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateAssignment
		}
		return nil, err
	}

	assignment.User = user
	assignment.Category = category
	return buildAssignmentItem(assignment), nil
}

// Unassign 删除分配
func (s *ModeratorCategoryService) Unassign(assignmentID int64) error {
	if _, err := s.assignmentRepo.GetByID(assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	return s.assignmentRepo.Delete(assignmentID)
}

// AssignmentsFor 版主直接负责的分类 ID
func (s *ModeratorCategoryService) AssignmentsFor(userID int64) ([]int64, error) {
	return s.assignmentRepo.CategoryIDsByUser(userID)
}

// List 分配列表，userID 为空时返回全部
func (s *ModeratorCategoryService) List(userID *int64) ([]*dto.ModeratorCategoryItem, error) {
	assignments, err := s.assignmentRepo.List(userID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ModeratorCategoryItem, len(assignments))
	for i, a := range assignments {
		items[i] = buildAssignmentItem(a)
	}
	return items, nil
}

func buildAssignmentItem(a *model.ModeratorCategory) *dto.ModeratorCategoryItem {
	item := &dto.ModeratorCategoryItem{
		ID:         a.ID,
		UserID:     a.UserID,
		CategoryID: a.CategoryID,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
	if a.User != nil {
		item.Username = a.User.Username
	}
	if a.Category != nil {
		item.CategoryName = a.Category.Name
	}
	return item
}
