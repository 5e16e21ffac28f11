package repository

import (
	"context"
	"time"

	"zooback/internal/domain"
)

// AssignmentsRepository 员工-动物分配Repository接口
// 复合主键 (staff_id, animal_id)；主键变更由 Service 层删旧建新
type AssignmentsRepository interface {
	ListAssignments(ctx context.Context, filter AssignmentsFilter, page, size int) ([]*domain.Assignment, int, error)
	GetAssignment(ctx context.Context, staffID, animalID string) (*domain.Assignment, error)
	AssignmentExists(ctx context.Context, staffID, animalID string) (bool, error)
	CreateAssignment(ctx context.Context, assignment *domain.Assignment) error
	UpdateObservations(ctx context.Context, staffID, animalID, observations string) error
	DeleteAssignment(ctx context.Context, staffID, animalID string) error
	CountByStaff(ctx context.Context, staffID string) (int, error)
}

// AssignmentsFilter 分配查询过滤器
type AssignmentsFilter struct {
	StaffID          string
	AnimalID         string
	CreatedFrom      *time.Time
	CreatedTo        *time.Time
	WithObservations bool // 只返回 observations 非空的记录
}
