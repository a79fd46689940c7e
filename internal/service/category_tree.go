package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/storefront_server/internal/repository"
)

var (
	ErrCategoryNotFound = errors.New("分类不存在")
	ErrCategoryCycle    = errors.New("分类层级存在循环")
)

// CategoryTree 分类树的两种遍历：
// AncestorChain 向上（判断能否处理某个商品），AllDescendantIDs 向下（判断能看到哪些分类）
type CategoryTree struct {
	categoryRepo *repository.CategoryRepository
}

func NewCategoryTree(categoryRepo *repository.CategoryRepository) *CategoryTree {
	return &CategoryTree{categoryRepo: categoryRepo}
}

// AncestorChain 返回 [自身, 父, 祖父, ..., 根]
func (t *CategoryTree) AncestorChain(categoryID int64) ([]int64, error) {
	var chain []int64
	visited := make(map[int64]bool)

	id := categoryID
	for {
		if visited[id] {
			return nil, ErrCategoryCycle
		}
		visited[id] = true

		category, err := t.categoryRepo.GetByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if len(chain) == 0 {
					return nil, ErrCategoryNotFound
				}
				// 父分类已不存在，按根处理
				return chain, nil
			}
			return nil, err
		}

		chain = append(chain, category.ID)
		if category.ParentID == nil {
			return chain, nil
		}
		id = *category.ParentID
	}
}

// AllDescendantIDs 返回输入分类及其全部后代，按层展开
func (t *CategoryTree) AllDescendantIDs(categoryIDs []int64) ([]int64, error) {
	result := make([]int64, 0, len(categoryIDs))
	visited := make(map[int64]bool)
	// 遍历中每个节点是从哪个节点展开出来的，种子节点没有记录
	reachedFrom := make(map[int64]int64)

	var frontier []int64
	for _, id := range categoryIDs {
		if visited[id] {
			continue
		}
		visited[id] = true
		result = append(result, id)
		frontier = append(frontier, id)
	}

	for len(frontier) > 0 {
		var next []int64
		for _, parentID := range frontier {
			children, err := t.categoryRepo.ListChildIDs([]int64{parentID})
			if err != nil {
				return nil, err
			}

			for _, child := range children {
				if visited[child] {
					// 只有种子会被再次遇到：要么是另一个种子的后代，要么处在环上
					if onPath(reachedFrom, parentID, child) {
						return nil, ErrCategoryCycle
					}
					continue
				}
				visited[child] = true
				reachedFrom[child] = parentID
				result = append(result, child)
				next = append(next, child)
			}
		}
		frontier = next
	}

	return result, nil
}

// onPath 判断 target 是否在 from 沿展开路径回溯的链上（含 from 本身）
func onPath(reachedFrom map[int64]int64, from, target int64) bool {
	for node := from; ; {
		if node == target {
			return true
		}
		parent, ok := reachedFrom[node]
		if !ok {
			return false
		}
		node = parent
	}
}
