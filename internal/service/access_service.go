package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/repository"
)

var ErrProductNotFound = errors.New("商品不存在")

// PendingScope 待审核队列可见范围，All 为 true 时不限分类
type PendingScope struct {
	All         bool
	CategoryIDs []int64
}

type AccessService struct {
	tree           *CategoryTree
	assignmentRepo *repository.ModeratorCategoryRepository
	productRepo    *repository.ProductRepository
}

func NewAccessService(
	tree *CategoryTree,
	assignmentRepo *repository.ModeratorCategoryRepository,
	productRepo *repository.ProductRepository,
) *AccessService {
	return &AccessService{
		tree:           tree,
		assignmentRepo: assignmentRepo,
		productRepo:    productRepo,
	}
}

// CanAutoApprove 操作者在该商品下发表的评论能否直接通过
func (s *AccessService) CanAutoApprove(actor model.Actor, product *model.Product) (bool, error) {
	switch {
	case actor.IsAdmin():
		return true, nil
	case actor.IsModerator():
		return s.coversProduct(actor.ID, product)
	default:
		return false, nil
	}
}

// CanModerate 操作者能否审核该评论
func (s *AccessService) CanModerate(actor model.Actor, comment *model.Comment) (bool, error) {
	switch {
	case actor.IsAdmin():
		return true, nil
	case actor.IsModerator():
		product, err := s.productRepo.GetByID(comment.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, ErrProductNotFound
			}
			return false, err
		}
		return s.coversProduct(actor.ID, product)
	default:
		return false, nil
	}
}

// coversProduct 版主的分配是否落在商品分类的祖先链上
func (s *AccessService) coversProduct(moderatorID int64, product *model.Product) (bool, error) {
	assigned, err := s.assignmentRepo.CategoryIDsByUser(moderatorID)
	if err != nil {
		return false, err
	}
	if len(assigned) == 0 {
		return false, nil
	}

	chain, err := s.tree.AncestorChain(product.CategoryID)
	if err != nil {
		return false, err
	}

	set := make(map[int64]struct{}, len(assigned))
	for _, id := range assigned {
		set[id] = struct{}{}
	}
	for _, id := range chain {
		if _, ok := set[id]; ok {
			return true, nil
		}
	}
	return false, nil
}

// VisiblePendingCategoryScope 操作者能看到哪些分类的待审核评论
func (s *AccessService) VisiblePendingCategoryScope(actor model.Actor) (*PendingScope, error) {
	switch {
	case actor.IsAdmin():
		return &PendingScope{All: true}, nil
	case actor.IsModerator():
		assigned, err := s.assignmentRepo.CategoryIDsByUser(actor.ID)
		if err != nil {
			return nil, err
		}
		ids, err := s.tree.AllDescendantIDs(assigned)
		if err != nil {
			return nil, err
		}
		return &PendingScope{CategoryIDs: ids}, nil
	default:
		return nil, ErrCommentPermission
	}
}

// ModeratorsForProduct 负责该商品的版主，用于待审核通知
func (s *AccessService) ModeratorsForProduct(product *model.Product) ([]int64, error) {
	chain, err := s.tree.AncestorChain(product.CategoryID)
	if err != nil {
		return nil, err
	}
	return s.assignmentRepo.ModeratorIDsForCategories(chain)
}
