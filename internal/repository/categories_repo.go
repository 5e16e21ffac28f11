package repository

import (
	"context"

	"zooback/internal/domain"
)

// CategoriesRepository 类别Repository接口
type CategoriesRepository interface {
	ListCategories(ctx context.Context, filter CategoriesFilter, page, size int) ([]*domain.Category, int, error)
	GetCategory(ctx context.Context, categoryID string) (*domain.Category, error)
	CategoryExists(ctx context.Context, categoryID string) (bool, error)
	// NameExists 大小写敏感精确匹配；excludeID 排除自身（更新时）
	NameExists(ctx context.Context, name, excludeID string) (bool, error)
	CreateCategory(ctx context.Context, category *domain.Category) (string, error)
	UpdateCategory(ctx context.Context, categoryID string, category *domain.Category) error
	DeleteCategory(ctx context.Context, categoryID string) error
}

// CategoriesFilter 类别查询过滤器
type CategoriesFilter struct {
	Name string // 子串匹配（大小写敏感）
}
