package service

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/model/dto"
	"github.com/qs3c/storefront_server/internal/repository"
)

var (
	ErrCategoryHasChildren = errors.New("分类下还有子分类，无法删除")
	ErrCategoryHasProducts = errors.New("分类下还有商品，无法删除")
)

type CategoryService struct {
	categoryRepo *repository.CategoryRepository
	productRepo  *repository.ProductRepository
	tree         *CategoryTree
}

func NewCategoryService(
	categoryRepo *repository.CategoryRepository,
	productRepo *repository.ProductRepository,
	tree *CategoryTree,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		tree:         tree,
	}
}

// Create 创建分类
func (s *CategoryService) Create(req *dto.CreateCategoryRequest) (*dto.CategoryNode, error) {
	if req.ParentID != nil {
		if err := s.ensureExists(*req.ParentID); err != nil {
			return nil, err
		}
	}

	category := &model.Category{
		Name:     req.Name,
		ParentID: req.ParentID,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	return &dto.CategoryNode{ID: category.ID, Name: category.Name, ParentID: category.ParentID}, nil
}

// Update 修改名称或移动分类，不允许移动到自身或自身的后代下
func (s *CategoryService) Update(id int64, req *dto.UpdateCategoryRequest) (*dto.CategoryNode, error) {
	if err := s.ensureExists(id); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		chain, err := s.tree.AncestorChain(*req.ParentID)
		if err != nil {
			return nil, err
		}
		for _, ancestor := range chain {
			if ancestor == id {
				return nil, ErrCategoryCycle
			}
		}
	}

	if err := s.categoryRepo.Update(id, req.Name, req.ParentID); err != nil {
		return nil, err
	}

	return &dto.CategoryNode{ID: id, Name: req.Name, ParentID: req.ParentID}, nil
}

// Delete 删除空分类，同时删除该分类的版主分配
func (s *CategoryService) Delete(id int64) error {
	if err := s.ensureExists(id); err != nil {
		return err
	}

	children, err := s.categoryRepo.CountChildren(id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrCategoryHasChildren
	}

	products, err := s.productRepo.CountByCategory(id)
	if err != nil {
		return err
	}
	if products > 0 {
		return ErrCategoryHasProducts
	}

	removed, err := s.categoryRepo.DeleteWithAssignments(id)
	if err != nil {
		return err
	}
	if removed > 0 {
		logrus.WithFields(logrus.Fields{
			"category_id": id,
			"assignments": removed,
		}).Info("Removed moderator assignments of deleted category")
	}
	return nil
}

// Tree 返回分类森林，父分类缺失的节点作为根
func (s *CategoryService) Tree() ([]*dto.CategoryNode, error) {
	categories, err := s.categoryRepo.List()
	if err != nil {
		return nil, err
	}

	nodes := make(map[int64]*dto.CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &dto.CategoryNode{ID: c.ID, Name: c.Name, ParentID: c.ParentID}
	}

	roots := make([]*dto.CategoryNode, 0)
	for _, c := range categories {
		node := nodes[c.ID]
		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	return roots, nil
}

func (s *CategoryService) ensureExists(id int64) error {
	if _, err := s.categoryRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
