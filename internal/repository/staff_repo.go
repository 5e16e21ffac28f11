package repository

import (
	"context"
	"time"

	"zooback/internal/domain"
)

// StaffRepository 员工Repository接口
type StaffRepository interface {
	ListStaff(ctx context.Context, filter StaffFilter, page, size int) ([]*domain.Staff, int, error)
	GetStaff(ctx context.Context, staffID string) (*domain.Staff, error)
	GetStaffByAccount(ctx context.Context, accountID string) (*domain.Staff, error)
	StaffExists(ctx context.Context, staffID string) (bool, error)
	// AccountHasStaff 账号是否已有员工档案；excludeID 排除自身
	AccountHasStaff(ctx context.Context, accountID, excludeID string) (bool, error)
	CreateStaff(ctx context.Context, staff *domain.Staff) (string, error)
	UpdateStaff(ctx context.Context, staffID string, staff *domain.Staff) error
	DeleteStaff(ctx context.Context, staffID string) error
}

// StaffFilter 员工查询过滤器
type StaffFilter struct {
	Department  string // 子串匹配
	Position    string // 子串匹配
	MinSalary   *float64
	MaxSalary   *float64
	HiredAfter  *time.Time
	HiredBefore *time.Time
}
