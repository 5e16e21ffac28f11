package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"zooback/internal/domain"
)

// MemoryAssignmentsRepository supports assignment management when DB is disabled.
// 复合主键 (staff_id, animal_id) 用拼接串作为 map key
type MemoryAssignmentsRepository struct {
	mu          sync.RWMutex
	assignments map[string]domain.Assignment // staffID+"/"+animalID -> Assignment
}

func NewMemoryAssignmentsRepository() *MemoryAssignmentsRepository {
	return &MemoryAssignmentsRepository{assignments: map[string]domain.Assignment{}}
}

var _ AssignmentsRepository = (*MemoryAssignmentsRepository)(nil)

func assignmentKey(staffID, animalID string) string {
	return staffID + "/" + animalID
}

func (r *MemoryAssignmentsRepository) ListAssignments(_ context.Context, filter AssignmentsFilter, page, size int) ([]*domain.Assignment, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.Assignment{}
	for _, a := range r.assignments {
		a := a
		if filter.StaffID != "" && a.StaffID != filter.StaffID {
			continue
		}
		if filter.AnimalID != "" && a.AnimalID != filter.AnimalID {
			continue
		}
		if filter.CreatedFrom != nil && a.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && a.CreatedAt.After(*filter.CreatedTo) {
			continue
		}
		if filter.WithObservations && a.Observations == "" {
			continue
		}
		all = append(all, &a)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].StaffID != all[j].StaffID {
			return all[i].StaffID < all[j].StaffID
		}
		return all[i].AnimalID < all[j].AnimalID
	})
	return paginate(all, page, size), len(all), nil
}

func (r *MemoryAssignmentsRepository) GetAssignment(_ context.Context, staffID, animalID string) (*domain.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.assignments[assignmentKey(staffID, animalID)]
	if !ok {
		return nil, domain.NotFoundf("Assignment for staff %s and animal %s not found", staffID, animalID)
	}
	return &a, nil
}

func (r *MemoryAssignmentsRepository) AssignmentExists(_ context.Context, staffID, animalID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.assignments[assignmentKey(staffID, animalID)]
	return ok, nil
}

func (r *MemoryAssignmentsRepository) CreateAssignment(_ context.Context, assignment *domain.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := assignmentKey(assignment.StaffID, assignment.AnimalID)
	if _, ok := r.assignments[key]; ok {
		return domain.Conflictf("Assignment already exists")
	}
	a := *assignment
	a.CreatedAt = time.Now()
	r.assignments[key] = a
	return nil
}

func (r *MemoryAssignmentsRepository) UpdateObservations(_ context.Context, staffID, animalID, observations string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := assignmentKey(staffID, animalID)
	a, ok := r.assignments[key]
	if !ok {
		return domain.NotFoundf("Assignment for staff %s and animal %s not found", staffID, animalID)
	}
	a.Observations = observations
	r.assignments[key] = a
	return nil
}

func (r *MemoryAssignmentsRepository) DeleteAssignment(_ context.Context, staffID, animalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := assignmentKey(staffID, animalID)
	if _, ok := r.assignments[key]; !ok {
		return domain.NotFoundf("Assignment for staff %s and animal %s not found", staffID, animalID)
	}
	delete(r.assignments, key)
	return nil
}

func (r *MemoryAssignmentsRepository) CountByStaff(_ context.Context, staffID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, a := range r.assignments {
		if a.StaffID == staffID {
			n++
		}
	}
	return n, nil
}
