package repository

import (
	"context"
	"time"

	"zooback/internal/domain"
)

// FeedingRepository 喂食计划Repository接口
type FeedingRepository interface {
	ListSchedules(ctx context.Context, filter FeedingFilter, page, size int) ([]*domain.FeedingSchedule, int, error)
	GetSchedule(ctx context.Context, feedingID string) (*domain.FeedingSchedule, error)
	CreateSchedule(ctx context.Context, schedule *domain.FeedingSchedule) (string, error)
	UpdateSchedule(ctx context.Context, feedingID string, schedule *domain.FeedingSchedule) error
	DeleteSchedule(ctx context.Context, feedingID string) error
	CountByStaff(ctx context.Context, staffID string) (int, error)
}

// FeedingFilter 喂食计划查询过滤器
type FeedingFilter struct {
	AnimalID string
	StaffID  string
	Status   string // 精确匹配
	From     *time.Time
	To       *time.Time
}
