package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"zooback/internal/domain"

	"github.com/google/uuid"
)

// MemoryMedicalRepository supports medical records when DB is disabled.
type MemoryMedicalRepository struct {
	mu      sync.RWMutex
	records map[string]domain.MedicalRecord // recordID -> MedicalRecord
}

func NewMemoryMedicalRepository() *MemoryMedicalRepository {
	return &MemoryMedicalRepository{records: map[string]domain.MedicalRecord{}}
}

var _ MedicalRepository = (*MemoryMedicalRepository)(nil)

func (r *MemoryMedicalRepository) ListRecords(_ context.Context, filter MedicalFilter, page, size int) ([]*domain.MedicalRecord, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.MedicalRecord{}
	for _, m := range r.records {
		m := m
		if filter.AnimalID != "" && m.AnimalID != filter.AnimalID {
			continue
		}
		if filter.StaffID != "" && m.StaffID.String != filter.StaffID {
			continue
		}
		if filter.Status != "" && string(m.Status) != filter.Status {
			continue
		}
		if filter.From != nil && m.RecordDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.RecordDate.After(*filter.To) {
			continue
		}
		all = append(all, &m)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].RecordDate.Equal(all[j].RecordDate) {
			return all[i].RecordDate.After(all[j].RecordDate)
		}
		return all[i].RecordID < all[j].RecordID
	})
	return paginate(all, page, size), len(all), nil
}

func (r *MemoryMedicalRepository) GetRecord(_ context.Context, recordID string) (*domain.MedicalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.records[recordID]
	if !ok {
		return nil, domain.NotFoundf("Medical record with ID %s not found", recordID)
	}
	return &m, nil
}

func (r *MemoryMedicalRepository) CreateRecord(_ context.Context, record *domain.MedicalRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	m := *record
	m.RecordID = id
	m.CreatedAt = time.Now()
	r.records[id] = m
	return id, nil
}

func (r *MemoryMedicalRepository) UpdateRecord(_ context.Context, recordID string, record *domain.MedicalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.records[recordID]
	if !ok {
		return domain.NotFoundf("Medical record with ID %s not found", recordID)
	}
	created := m.CreatedAt
	m = *record
	m.RecordID = recordID
	m.CreatedAt = created
	r.records[recordID] = m
	return nil
}

func (r *MemoryMedicalRepository) DeleteRecord(_ context.Context, recordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[recordID]; !ok {
		return domain.NotFoundf("Medical record with ID %s not found", recordID)
	}
	delete(r.records, recordID)
	return nil
}

func (r *MemoryMedicalRepository) CountByStaff(_ context.Context, staffID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, m := range r.records {
		if m.StaffID.Valid && m.StaffID.String == staffID {
			n++
		}
	}
	return n, nil
}
