package service

import (
	"context"
	"strings"

	"zooback/internal/domain"
	"zooback/internal/repository"

	"go.uber.org/zap"
)

// CategoryService 动物类别服务接口
type CategoryService interface {
	ListCategories(ctx context.Context, filter repository.CategoriesFilter, page, size int) (*CategoryPage, error)
	GetCategory(ctx context.Context, categoryID string) (*CategoryView, error)
	CreateCategory(ctx context.Context, req CategoryRequest) (*CategoryView, error)
	UpdateCategory(ctx context.Context, categoryID string, req CategoryRequest) (*CategoryView, error)
	DeleteCategory(ctx context.Context, categoryID string) error

	// 按动物数量检索
	ListByAnimalCount(ctx context.Context, minCount, maxCount *int, page, size int) (*CategoryPage, error)
	ListEmpty(ctx context.Context, page, size int) (*CategoryPage, error)
}

// categoryService 实现
type categoryService struct {
	categories repository.CategoriesRepository
	animals    repository.AnimalsRepository
	logger     *zap.Logger
}

// NewCategoryService 创建 CategoryService 实例
func NewCategoryService(categories repository.CategoriesRepository, animals repository.AnimalsRepository, logger *zap.Logger) CategoryService {
	return &categoryService{
		categories: categories,
		animals:    animals,
		logger:     logger,
	}
}

// CategoryRequest 类别创建/更新请求
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// CategoryView 类别视图，附带动物数量
type CategoryView struct {
	CategoryID  string `json:"categoryId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	AnimalCount int    `json:"animalCount"`
}

// CategoryPage 分页列表
type CategoryPage struct {
	Items []*CategoryView `json:"items"`
	Total int             `json:"total"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
}

func (s *categoryService) view(ctx context.Context, c *domain.Category) (*CategoryView, error) {
	count, err := s.animals.CountByCategory(ctx, c.CategoryID)
	if err != nil {
		return nil, err
	}
	return &CategoryView{
		CategoryID:  c.CategoryID,
		Name:        c.Name,
		Description: c.Description.String,
		ImageURL:    c.ImageURL.String,
		AnimalCount: count,
	}, nil
}

func (s *categoryService) ListCategories(ctx context.Context, filter repository.CategoriesFilter, page, size int) (*CategoryPage, error) {
	page, size = normalizePage(page, size)
	items, total, err := s.categories.ListCategories(ctx, filter, page, size)
	if err != nil {
		return nil, err
	}
	views := make([]*CategoryView, 0, len(items))
	for _, c := range items {
		v, err := s.view(ctx, c)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return &CategoryPage{Items: views, Total: total, Page: page, Size: size}, nil
}

func (s *categoryService) GetCategory(ctx context.Context, categoryID string) (*CategoryView, error) {
	c, err := s.categories.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

func (s *categoryService) CreateCategory(ctx context.Context, req CategoryRequest) (*CategoryView, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, domain.Validationf("Category name is required")
	}
	if exists, err := s.categories.NameExists(ctx, req.Name, ""); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.Conflictf("Category with name '%s' already exists", req.Name)
	}

	id, err := s.categories.CreateCategory(ctx, &domain.Category{
		Name:        req.Name,
		Description: nullString(req.Description),
		ImageURL:    nullString(req.ImageURL),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Category created", zap.String("category_id", id), zap.String("name", req.Name))
	return s.GetCategory(ctx, id)
}

func (s *categoryService) UpdateCategory(ctx context.Context, categoryID string, req CategoryRequest) (*CategoryView, error) {
	if _, err := s.categories.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, domain.Validationf("Category name is required")
	}
	if exists, err := s.categories.NameExists(ctx, req.Name, categoryID); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.Conflictf("Category with name '%s' already exists", req.Name)
	}

	err := s.categories.UpdateCategory(ctx, categoryID, &domain.Category{
		Name:        req.Name,
		Description: nullString(req.Description),
		ImageURL:    nullString(req.ImageURL),
	})
	if err != nil {
		return nil, err
	}
	return s.GetCategory(ctx, categoryID)
}

func (s *categoryService) listByCount(ctx context.Context, page, size int, keep func(view *CategoryView) bool) (*CategoryPage, error) {
	page, size = normalizePage(page, size)

	// 动物数量在仓储层拿不到，全集过滤后内存分页
	all, _, err := s.categories.ListCategories(ctx, repository.CategoriesFilter{}, 1, 1<<30)
	if err != nil {
		return nil, err
	}
	kept := []*CategoryView{}
	for _, c := range all {
		v, err := s.view(ctx, c)
		if err != nil {
			return nil, err
		}
		if keep(v) {
			kept = append(kept, v)
		}
	}

	total := len(kept)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return &CategoryPage{Items: kept[start:end], Total: total, Page: page, Size: size}, nil
}

func (s *categoryService) ListByAnimalCount(ctx context.Context, minCount, maxCount *int, page, size int) (*CategoryPage, error) {
	return s.listByCount(ctx, page, size, func(v *CategoryView) bool {
		if minCount != nil && v.AnimalCount < *minCount {
			return false
		}
		if maxCount != nil && v.AnimalCount > *maxCount {
			return false
		}
		return true
	})
}

func (s *categoryService) ListEmpty(ctx context.Context, page, size int) (*CategoryPage, error) {
	return s.listByCount(ctx, page, size, func(v *CategoryView) bool {
		return v.AnimalCount == 0
	})
}

// DeleteCategory 尚有动物归属时拒绝删除
func (s *categoryService) DeleteCategory(ctx context.Context, categoryID string) error {
	if _, err := s.categories.GetCategory(ctx, categoryID); err != nil {
		return err
	}
	count, err := s.animals.CountByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.Conflictf("Cannot delete category with %d animals assigned", count)
	}
	if err := s.categories.DeleteCategory(ctx, categoryID); err != nil {
		return err
	}
	s.logger.Info("Category deleted", zap.String("category_id", categoryID))
	return nil
}
