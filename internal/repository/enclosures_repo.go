package repository

import (
	"context"

	"zooback/internal/domain"
)

// EnclosuresRepository 圈舍Repository接口
type EnclosuresRepository interface {
	ListEnclosures(ctx context.Context, filter EnclosuresFilter, page, size int) ([]*domain.Enclosure, int, error)
	GetEnclosure(ctx context.Context, enclosureID string) (*domain.Enclosure, error)
	EnclosureExists(ctx context.Context, enclosureID string) (bool, error)
	// NameExists 大小写敏感精确匹配；excludeID 排除自身（更新时）
	NameExists(ctx context.Context, name, excludeID string) (bool, error)
	CreateEnclosure(ctx context.Context, enclosure *domain.Enclosure) (string, error)
	UpdateEnclosure(ctx context.Context, enclosureID string, enclosure *domain.Enclosure) error
	DeleteEnclosure(ctx context.Context, enclosureID string) error
}

// EnclosuresFilter 圈舍查询过滤器
type EnclosuresFilter struct {
	Name        string // 子串匹配
	Type        string // 子串匹配
	Location    string // 子串匹配
	MinCapacity *int   // 闭区间下界
	MaxCapacity *int   // 闭区间上界
}
