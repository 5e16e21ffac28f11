package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"zooback/internal/domain"

	"github.com/google/uuid"
)

// MemoryEnclosuresRepository supports enclosure management when DB is disabled.
type MemoryEnclosuresRepository struct {
	mu         sync.RWMutex
	enclosures map[string]domain.Enclosure // enclosureID -> Enclosure
}

func NewMemoryEnclosuresRepository() *MemoryEnclosuresRepository {
	return &MemoryEnclosuresRepository{enclosures: map[string]domain.Enclosure{}}
}

var _ EnclosuresRepository = (*MemoryEnclosuresRepository)(nil)

func (r *MemoryEnclosuresRepository) ListEnclosures(_ context.Context, filter EnclosuresFilter, page, size int) ([]*domain.Enclosure, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.Enclosure{}
	for _, e := range r.enclosures {
		e := e
		if !matches(e.Name, filter.Name) {
			continue
		}
		if filter.Type != "" && e.Type.String != filter.Type {
			continue
		}
		if !matches(e.Location.String, filter.Location) {
			continue
		}
		if filter.MinCapacity != nil && e.Capacity < *filter.MinCapacity {
			continue
		}
		if filter.MaxCapacity != nil && e.Capacity > *filter.MaxCapacity {
			continue
		}
		all = append(all, &e)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].EnclosureID < all[j].EnclosureID
	})
	return paginate(all, page, size), len(all), nil
}

func (r *MemoryEnclosuresRepository) GetEnclosure(_ context.Context, enclosureID string) (*domain.Enclosure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.enclosures[enclosureID]
	if !ok {
		return nil, domain.NotFoundf("Enclosure with ID %s not found", enclosureID)
	}
	return &e, nil
}

func (r *MemoryEnclosuresRepository) EnclosureExists(_ context.Context, enclosureID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.enclosures[enclosureID]
	return ok, nil
}

func (r *MemoryEnclosuresRepository) NameExists(_ context.Context, name, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, e := range r.enclosures {
		if e.Name == name && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryEnclosuresRepository) CreateEnclosure(_ context.Context, enclosure *domain.Enclosure) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.enclosures {
		if e.Name == enclosure.Name {
			return "", domain.Conflictf("Enclosure with name '%s' already exists", enclosure.Name)
		}
	}

	id := uuid.NewString()
	now := time.Now()
	e := *enclosure
	e.EnclosureID = id
	e.CreatedAt = now
	e.UpdatedAt = now
	r.enclosures[id] = e
	return id, nil
}

func (r *MemoryEnclosuresRepository) UpdateEnclosure(_ context.Context, enclosureID string, enclosure *domain.Enclosure) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.enclosures[enclosureID]
	if !ok {
		return domain.NotFoundf("Enclosure with ID %s not found", enclosureID)
	}
	for id, other := range r.enclosures {
		if other.Name == enclosure.Name && id != enclosureID {
			return domain.Conflictf("Enclosure with name '%s' already exists", enclosure.Name)
		}
	}
	e.Name = enclosure.Name
	e.Type = enclosure.Type
	e.Capacity = enclosure.Capacity
	e.Location = enclosure.Location
	e.UpdatedAt = time.Now()
	r.enclosures[enclosureID] = e
	return nil
}

func (r *MemoryEnclosuresRepository) DeleteEnclosure(_ context.Context, enclosureID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.enclosures[enclosureID]; !ok {
		return domain.NotFoundf("Enclosure with ID %s not found", enclosureID)
	}
	delete(r.enclosures, enclosureID)
	return nil
}
