package repository

import (
	"context"
	"time"

	"zooback/internal/domain"
)

// MedicalRepository 医疗记录Repository接口
type MedicalRepository interface {
	ListRecords(ctx context.Context, filter MedicalFilter, page, size int) ([]*domain.MedicalRecord, int, error)
	GetRecord(ctx context.Context, recordID string) (*domain.MedicalRecord, error)
	CreateRecord(ctx context.Context, record *domain.MedicalRecord) (string, error)
	UpdateRecord(ctx context.Context, recordID string, record *domain.MedicalRecord) error
	DeleteRecord(ctx context.Context, recordID string) error
	CountByStaff(ctx context.Context, staffID string) (int, error)
}

// MedicalFilter 医疗记录查询过滤器
type MedicalFilter struct {
	AnimalID string
	StaffID  string
	Status   string // 精确匹配
	From     *time.Time
	To       *time.Time
}
