package repository

import (
	"context"
	"time"

	"zooback/internal/domain"
)

// AnimalsRepository 动物Repository接口
type AnimalsRepository interface {
	ListAnimals(ctx context.Context, filter AnimalsFilter, page, size int) ([]*domain.Animal, int, error)
	GetAnimal(ctx context.Context, animalID string) (*domain.Animal, error)
	AnimalExists(ctx context.Context, animalID string) (bool, error)
	// TripleExists (name, species, category_id) 三元组唯一性检查；excludeID 排除自身
	TripleExists(ctx context.Context, name, species, categoryID, excludeID string) (bool, error)
	CreateAnimal(ctx context.Context, animal *domain.Animal) (string, error)
	UpdateAnimal(ctx context.Context, animalID string, animal *domain.Animal) error
	DeleteAnimal(ctx context.Context, animalID string) error

	// 容量与删除守卫依赖的计数
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	CountByEnclosure(ctx context.Context, enclosureID string) (int, error)
}

// AnimalsFilter 动物查询过滤器
type AnimalsFilter struct {
	Name        string // 子串匹配
	Species     string // 子串匹配
	Gender      string // 精确匹配
	CategoryID  string // 精确匹配
	EnclosureID string // 精确匹配
	ArrivalFrom *time.Time
	ArrivalTo   *time.Time
	MinAge      *int // 按出生年份粗粒度计算，无出生日期的动物不命中
	MaxAge      *int
}
