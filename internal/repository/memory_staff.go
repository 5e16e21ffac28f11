package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"zooback/internal/domain"

	"github.com/google/uuid"
)

// MemoryStaffRepository supports staff management when DB is disabled.
type MemoryStaffRepository struct {
	mu    sync.RWMutex
	staff map[string]domain.Staff // staffID -> Staff
}

func NewMemoryStaffRepository() *MemoryStaffRepository {
	return &MemoryStaffRepository{staff: map[string]domain.Staff{}}
}

var _ StaffRepository = (*MemoryStaffRepository)(nil)

func (r *MemoryStaffRepository) ListStaff(_ context.Context, filter StaffFilter, page, size int) ([]*domain.Staff, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.Staff{}
	for _, s := range r.staff {
		s := s
		if !matches(s.Department, filter.Department) {
			continue
		}
		if !matches(s.Position, filter.Position) {
			continue
		}
		if filter.MinSalary != nil && s.Salary < *filter.MinSalary {
			continue
		}
		if filter.MaxSalary != nil && s.Salary > *filter.MaxSalary {
			continue
		}
		if filter.HiredAfter != nil && s.HireDate.Before(*filter.HiredAfter) {
			continue
		}
		if filter.HiredBefore != nil && s.HireDate.After(*filter.HiredBefore) {
			continue
		}
		all = append(all, &s)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].StaffID < all[j].StaffID
	})
	return paginate(all, page, size), len(all), nil
}

func (r *MemoryStaffRepository) GetStaff(_ context.Context, staffID string) (*domain.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.staff[staffID]
	if !ok {
		return nil, domain.NotFoundf("Staff with ID %s not found", staffID)
	}
	return &s, nil
}

func (r *MemoryStaffRepository) GetStaffByAccount(_ context.Context, accountID string) (*domain.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.staff {
		if s.AccountID == accountID {
			s := s
			return &s, nil
		}
	}
	return nil, domain.NotFoundf("Staff for account %s not found", accountID)
}

func (r *MemoryStaffRepository) StaffExists(_ context.Context, staffID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.staff[staffID]
	return ok, nil
}

func (r *MemoryStaffRepository) AccountHasStaff(_ context.Context, accountID, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, s := range r.staff {
		if s.AccountID == accountID && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryStaffRepository) CreateStaff(_ context.Context, staff *domain.Staff) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.staff {
		if s.AccountID == staff.AccountID {
			return "", domain.Conflictf("Account already has a staff profile")
		}
	}

	id := uuid.NewString()
	now := time.Now()
	s := *staff
	s.StaffID = id
	s.CreatedAt = now
	s.UpdatedAt = now
	r.staff[id] = s
	return id, nil
}

func (r *MemoryStaffRepository) UpdateStaff(_ context.Context, staffID string, staff *domain.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.staff[staffID]
	if !ok {
		return domain.NotFoundf("Staff with ID %s not found", staffID)
	}
	for id, other := range r.staff {
		if other.AccountID == staff.AccountID && id != staffID {
			return domain.Conflictf("Account already has a staff profile")
		}
	}
	created := s.CreatedAt
	s = *staff
	s.StaffID = staffID
	s.CreatedAt = created
	s.UpdatedAt = time.Now()
	r.staff[staffID] = s
	return nil
}

func (r *MemoryStaffRepository) DeleteStaff(_ context.Context, staffID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.staff[staffID]; !ok {
		return domain.NotFoundf("Staff with ID %s not found", staffID)
	}
	delete(r.staff, staffID)
	return nil
}
