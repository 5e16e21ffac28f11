package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"zooback/internal/domain"

	"github.com/google/uuid"
)

// MemoryCategoriesRepository supports category management when DB is disabled.
type MemoryCategoriesRepository struct {
	mu         sync.RWMutex
	categories map[string]domain.Category // categoryID -> Category
}

func NewMemoryCategoriesRepository() *MemoryCategoriesRepository {
	return &MemoryCategoriesRepository{categories: map[string]domain.Category{}}
}

var _ CategoriesRepository = (*MemoryCategoriesRepository)(nil)

func (r *MemoryCategoriesRepository) ListCategories(_ context.Context, filter CategoriesFilter, page, size int) ([]*domain.Category, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.Category{}
	for _, c := range r.categories {
		c := c
		if !matches(c.Name, filter.Name) {
			continue
		}
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CategoryID < all[j].CategoryID
	})
	return paginate(all, page, size), len(all), nil
}

func (r *MemoryCategoriesRepository) GetCategory(_ context.Context, categoryID string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[categoryID]
	if !ok {
		return nil, domain.NotFoundf("Category with ID %s not found", categoryID)
	}
	return &c, nil
}

func (r *MemoryCategoriesRepository) CategoryExists(_ context.Context, categoryID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.categories[categoryID]
	return ok, nil
}

func (r *MemoryCategoriesRepository) NameExists(_ context.Context, name, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, c := range r.categories {
		if c.Name == name && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryCategoriesRepository) CreateCategory(_ context.Context, category *domain.Category) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.categories {
		if c.Name == category.Name {
			return "", domain.Conflictf("Category with name '%s' already exists", category.Name)
		}
	}

	id := uuid.NewString()
	now := time.Now()
	c := *category
	c.CategoryID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	r.categories[id] = c
	return id, nil
}

func (r *MemoryCategoriesRepository) UpdateCategory(_ context.Context, categoryID string, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.categories[categoryID]
	if !ok {
		return domain.NotFoundf("Category with ID %s not found", categoryID)
	}
	for id, other := range r.categories {
		if other.Name == category.Name && id != categoryID {
			return domain.Conflictf("Category with name '%s' already exists", category.Name)
		}
	}
	c.Name = category.Name
	c.Description = category.Description
	c.ImageURL = category.ImageURL
	c.UpdatedAt = time.Now()
	r.categories[categoryID] = c
	return nil
}

func (r *MemoryCategoriesRepository) DeleteCategory(_ context.Context, categoryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[categoryID]; !ok {
		return domain.NotFoundf("Category with ID %s not found", categoryID)
	}
	delete(r.categories, categoryID)
	return nil
}
