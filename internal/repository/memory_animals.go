package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"zooback/internal/domain"

	"github.com/google/uuid"
)

// MemoryAnimalsRepository supports animal management when DB is disabled.
type MemoryAnimalsRepository struct {
	mu      sync.RWMutex
	animals map[string]domain.Animal // animalID -> Animal
}

func NewMemoryAnimalsRepository() *MemoryAnimalsRepository {
	return &MemoryAnimalsRepository{animals: map[string]domain.Animal{}}
}

var _ AnimalsRepository = (*MemoryAnimalsRepository)(nil)

func (r *MemoryAnimalsRepository) ListAnimals(_ context.Context, filter AnimalsFilter, page, size int) ([]*domain.Animal, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.Animal{}
	for _, a := range r.animals {
		a := a
		if !matches(a.Name, filter.Name) {
			continue
		}
		if !matches(a.Species, filter.Species) {
			continue
		}
		if filter.Gender != "" && a.Gender.String != filter.Gender {
			continue
		}
		if filter.CategoryID != "" && a.CategoryID != filter.CategoryID {
			continue
		}
		if filter.EnclosureID != "" && a.EnclosureID.String != filter.EnclosureID {
			continue
		}
		if filter.ArrivalFrom != nil && a.ArrivalDate.Before(*filter.ArrivalFrom) {
			continue
		}
		if filter.ArrivalTo != nil && a.ArrivalDate.After(*filter.ArrivalTo) {
			continue
		}
		if filter.MinAge != nil || filter.MaxAge != nil {
			if !a.DateOfBirth.Valid {
				continue
			}
			age := a.Age(time.Now())
			if filter.MinAge != nil && age < *filter.MinAge {
				continue
			}
			if filter.MaxAge != nil && age > *filter.MaxAge {
				continue
			}
		}
		all = append(all, &a)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].AnimalID < all[j].AnimalID
	})
	return paginate(all, page, size), len(all), nil
}

func (r *MemoryAnimalsRepository) GetAnimal(_ context.Context, animalID string) (*domain.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.animals[animalID]
	if !ok {
		return nil, domain.NotFoundf("Animal with ID %s not found", animalID)
	}
	return &a, nil
}

func (r *MemoryAnimalsRepository) AnimalExists(_ context.Context, animalID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.animals[animalID]
	return ok, nil
}

func (r *MemoryAnimalsRepository) TripleExists(_ context.Context, name, species, categoryID, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, a := range r.animals {
		if a.Name == name && a.Species == species && a.CategoryID == categoryID && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryAnimalsRepository) CreateAnimal(_ context.Context, animal *domain.Animal) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	now := time.Now()
	a := *animal
	a.AnimalID = id
	a.CreatedAt = now
	a.UpdatedAt = now
	r.animals[id] = a
	return id, nil
}

func (r *MemoryAnimalsRepository) UpdateAnimal(_ context.Context, animalID string, animal *domain.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.animals[animalID]
	if !ok {
		return domain.NotFoundf("Animal with ID %s not found", animalID)
	}
	created := a.CreatedAt
	a = *animal
	a.AnimalID = animalID
	a.CreatedAt = created
	a.UpdatedAt = time.Now()
	r.animals[animalID] = a
	return nil
}

func (r *MemoryAnimalsRepository) DeleteAnimal(_ context.Context, animalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.animals[animalID]; !ok {
		return domain.NotFoundf("Animal with ID %s not found", animalID)
	}
	delete(r.animals, animalID)
	return nil
}

func (r *MemoryAnimalsRepository) CountByCategory(_ context.Context, categoryID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, a := range r.animals {
		if a.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryAnimalsRepository) CountByEnclosure(_ context.Context, enclosureID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, a := range r.animals {
		if a.EnclosureID.Valid && a.EnclosureID.String == enclosureID {
			n++
		}
	}
	return n, nil
}
