package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"zooback/internal/domain"
	"zooback/internal/repository"

	"go.uber.org/zap"
)

// FeedingService 喂食计划服务接口
type FeedingService interface {
	ListSchedules(ctx context.Context, filter repository.FeedingFilter, page, size int) (*FeedingPage, error)
	GetSchedule(ctx context.Context, feedingID string) (*FeedingView, error)
	CreateSchedule(ctx context.Context, req FeedingRequest) (*FeedingView, error)
	UpdateSchedule(ctx context.Context, feedingID string, req FeedingRequest) (*FeedingView, error)
	DeleteSchedule(ctx context.Context, feedingID string) error
}

// feedingService 实现
type feedingService struct {
	feeding repository.FeedingRepository
	animals repository.AnimalsRepository
	staff   repository.StaffRepository
	logger  *zap.Logger
}

// NewFeedingService 创建 FeedingService 实例
func NewFeedingService(feeding repository.FeedingRepository, animals repository.AnimalsRepository, staff repository.StaffRepository, logger *zap.Logger) FeedingService {
	return &feedingService{
		feeding: feeding,
		animals: animals,
		staff:   staff,
		logger:  logger,
	}
}

// FeedingRequest 喂食计划创建/更新请求
type FeedingRequest struct {
	AnimalID    string  `json:"animalId"`
	StaffID     string  `json:"staffId,omitempty"` // 可选
	FoodType    string  `json:"foodType"`
	QuantityKg  float64 `json:"quantityKg"`
	FeedingTime string  `json:"feedingTime"`      // RFC3339
	Status      string  `json:"status,omitempty"` // 默认 Scheduled
	Notes       string  `json:"notes,omitempty"`
}

// FeedingView 喂食计划视图
type FeedingView struct {
	FeedingID   string    `json:"feedingId"`
	AnimalID    string    `json:"animalId"`
	StaffID     string    `json:"staffId,omitempty"`
	FoodType    string    `json:"foodType"`
	QuantityKg  float64   `json:"quantityKg"`
	FeedingTime time.Time `json:"feedingTime"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FeedingPage 分页列表
type FeedingPage struct {
	Items []*FeedingView `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

func feedingView(f *domain.FeedingSchedule) *FeedingView {
	return &FeedingView{
		FeedingID:   f.FeedingID,
		AnimalID:    f.AnimalID,
		StaffID:     f.StaffID.String,
		FoodType:    f.FoodType,
		QuantityKg:  f.QuantityKg,
		FeedingTime: f.FeedingTime,
		Status:      string(f.Status),
		Notes:       f.Notes.String,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func (s *feedingService) ListSchedules(ctx context.Context, filter repository.FeedingFilter, page, size int) (*FeedingPage, error) {
	page, size = normalizePage(page, size)
	items, total, err := s.feeding.ListSchedules(ctx, filter, page, size)
	if err != nil {
		return nil, err
	}
	views := make([]*FeedingView, 0, len(items))
	for _, f := range items {
		views = append(views, feedingView(f))
	}
	return &FeedingPage{Items: views, Total: total, Page: page, Size: size}, nil
}

func (s *feedingService) GetSchedule(ctx context.Context, feedingID string) (*FeedingView, error) {
	f, err := s.feeding.GetSchedule(ctx, feedingID)
	if err != nil {
		return nil, err
	}
	return feedingView(f), nil
}

func (s *feedingService) buildSchedule(req FeedingRequest) (*domain.FeedingSchedule, error) {
	req.FoodType = strings.TrimSpace(req.FoodType)
	if req.AnimalID == "" {
		return nil, domain.Validationf("Animal is required")
	}
	if req.FoodType == "" {
		return nil, domain.Validationf("Food type is required")
	}
	if req.QuantityKg <= 0 {
		return nil, domain.Validationf("Quantity must be positive")
	}

	status := domain.FeedingScheduled
	if req.Status != "" {
		status = domain.FeedingStatus(req.Status)
		if !status.Valid() {
			return nil, domain.Validationf("Invalid feeding status '%s'", req.Status)
		}
	}

	feedingTime, err := time.Parse(time.RFC3339, req.FeedingTime)
	if err != nil {
		return nil, domain.Validationf("Invalid feeding time '%s', expected RFC3339", req.FeedingTime)
	}

	return &domain.FeedingSchedule{
		AnimalID:    req.AnimalID,
		StaffID:     sql.NullString{String: req.StaffID, Valid: req.StaffID != ""},
		FoodType:    req.FoodType,
		QuantityKg:  req.QuantityKg,
		FeedingTime: feedingTime,
		Status:      status,
		Notes:       nullString(req.Notes),
	}, nil
}

func (s *feedingService) checkReferences(ctx context.Context, f *domain.FeedingSchedule) error {
	if exists, err := s.animals.AnimalExists(ctx, f.AnimalID); err != nil {
		return err
	} else if !exists {
		return domain.NotFoundf("Animal with ID %s not found", f.AnimalID)
	}
	if f.StaffID.Valid {
		if exists, err := s.staff.StaffExists(ctx, f.StaffID.String); err != nil {
			return err
		} else if !exists {
			return domain.NotFoundf("Staff with ID %s not found", f.StaffID.String)
		}
	}
	return nil
}

func (s *feedingService) CreateSchedule(ctx context.Context, req FeedingRequest) (*FeedingView, error) {
	f, err := s.buildSchedule(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, f); err != nil {
		return nil, err
	}

	id, err := s.feeding.CreateSchedule(ctx, f)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Feeding schedule created",
		zap.String("feeding_id", id),
		zap.String("animal_id", f.AnimalID),
	)
	return s.GetSchedule(ctx, id)
}

func (s *feedingService) UpdateSchedule(ctx context.Context, feedingID string, req FeedingRequest) (*FeedingView, error) {
	if _, err := s.feeding.GetSchedule(ctx, feedingID); err != nil {
		return nil, err
	}
	f, err := s.buildSchedule(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, f); err != nil {
		return nil, err
	}
	if err := s.feeding.UpdateSchedule(ctx, feedingID, f); err != nil {
		return nil, err
	}
	return s.GetSchedule(ctx, feedingID)
}

func (s *feedingService) DeleteSchedule(ctx context.Context, feedingID string) error {
	if err := s.feeding.DeleteSchedule(ctx, feedingID); err != nil {
		return err
	}
	s.logger.Info("Feeding schedule deleted", zap.String("feeding_id", feedingID))
	return nil
}
