package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"zooback/internal/domain"

	"github.com/google/uuid"
)

// MemoryFeedingRepository supports feeding schedules when DB is disabled.
type MemoryFeedingRepository struct {
	mu        sync.RWMutex
	schedules map[string]domain.FeedingSchedule // feedingID -> FeedingSchedule
}

func NewMemoryFeedingRepository() *MemoryFeedingRepository {
	return &MemoryFeedingRepository{schedules: map[string]domain.FeedingSchedule{}}
}

var _ FeedingRepository = (*MemoryFeedingRepository)(nil)

func (r *MemoryFeedingRepository) ListSchedules(_ context.Context, filter FeedingFilter, page, size int) ([]*domain.FeedingSchedule, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.FeedingSchedule{}
	for _, f := range r.schedules {
		f := f
		if filter.AnimalID != "" && f.AnimalID != filter.AnimalID {
			continue
		}
		if filter.StaffID != "" && f.StaffID.String != filter.StaffID {
			continue
		}
		if filter.Status != "" && string(f.Status) != filter.Status {
			continue
		}
		if filter.From != nil && f.FeedingTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && f.FeedingTime.After(*filter.To) {
			continue
		}
		all = append(all, &f)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].FeedingTime.Equal(all[j].FeedingTime) {
			return all[i].FeedingTime.Before(all[j].FeedingTime)
		}
		return all[i].FeedingID < all[j].FeedingID
	})
	return paginate(all, page, size), len(all), nil
}

func (r *MemoryFeedingRepository) GetSchedule(_ context.Context, feedingID string) (*domain.FeedingSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.schedules[feedingID]
	if !ok {
		return nil, domain.NotFoundf("Feeding schedule with ID %s not found", feedingID)
	}
	return &f, nil
}

func (r *MemoryFeedingRepository) CreateSchedule(_ context.Context, schedule *domain.FeedingSchedule) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	now := time.Now()
	f := *schedule
	f.FeedingID = id
	f.CreatedAt = now
	f.UpdatedAt = now
	r.schedules[id] = f
	return id, nil
}

func (r *MemoryFeedingRepository) UpdateSchedule(_ context.Context, feedingID string, schedule *domain.FeedingSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.schedules[feedingID]
	if !ok {
		return domain.NotFoundf("Feeding schedule with ID %s not found", feedingID)
	}
	created := f.CreatedAt
	f = *schedule
	f.FeedingID = feedingID
	f.CreatedAt = created
	f.UpdatedAt = time.Now()
	r.schedules[feedingID] = f
	return nil
}

func (r *MemoryFeedingRepository) DeleteSchedule(_ context.Context, feedingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schedules[feedingID]; !ok {
		return domain.NotFoundf("Feeding schedule with ID %s not found", feedingID)
	}
	delete(r.schedules, feedingID)
	return nil
}

func (r *MemoryFeedingRepository) CountByStaff(_ context.Context, staffID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, f := range r.schedules {
		if f.StaffID.Valid && f.StaffID.String == staffID {
			n++
		}
	}
	return n, nil
}
