package service

import (
	"context"
	"time"

	"zooback/internal/domain"
	"zooback/internal/repository"

	"go.uber.org/zap"
)

// AssignmentService 员工-动物分配服务接口
type AssignmentService interface {
	ListAssignments(ctx context.Context, filter repository.AssignmentsFilter, page, size int) (*AssignmentPage, error)
	GetAssignment(ctx context.Context, staffID, animalID string) (*AssignmentView, error)
	CreateAssignment(ctx context.Context, req AssignmentRequest) (*AssignmentView, error)
	UpdateAssignment(ctx context.Context, staffID, animalID string, req AssignmentRequest) (*AssignmentView, error)
	DeleteAssignment(ctx context.Context, staffID, animalID string) error
}

// assignmentService 实现
type assignmentService struct {
	assignments repository.AssignmentsRepository
	staff       repository.StaffRepository
	animals     repository.AnimalsRepository
	logger      *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(assignments repository.AssignmentsRepository, staff repository.StaffRepository, animals repository.AnimalsRepository, logger *zap.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		staff:       staff,
		animals:     animals,
		logger:      logger,
	}
}

// AssignmentRequest 分配创建/更新请求
type AssignmentRequest struct {
	StaffID      string `json:"staffId"`
	AnimalID     string `json:"animalId"`
	Observations string `json:"observations,omitempty"`
}

// AssignmentView 分配视图
type AssignmentView struct {
	StaffID      string    `json:"staffId"`
	AnimalID     string    `json:"animalId"`
	Observations string    `json:"observations,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AssignmentPage 分页列表
type AssignmentPage struct {
	Items []*AssignmentView `json:"items"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
}

func assignmentView(a *domain.Assignment) *AssignmentView {
	return &AssignmentView{
		StaffID:      a.StaffID,
		AnimalID:     a.AnimalID,
		Observations: a.Observations,
		CreatedAt:    a.CreatedAt,
	}
}

func (s *assignmentService) ListAssignments(ctx context.Context, filter repository.AssignmentsFilter, page, size int) (*AssignmentPage, error) {
	page, size = normalizePage(page, size)
	items, total, err := s.assignments.ListAssignments(ctx, filter, page, size)
	if err != nil {
		return nil, err
	}
	views := make([]*AssignmentView, 0, len(items))
	for _, a := range items {
		views = append(views, assignmentView(a))
	}
	return &AssignmentPage{Items: views, Total: total, Page: page, Size: size}, nil
}

func (s *assignmentService) GetAssignment(ctx context.Context, staffID, animalID string) (*AssignmentView, error) {
	a, err := s.assignments.GetAssignment(ctx, staffID, animalID)
	if err != nil {
		return nil, err
	}
	return assignmentView(a), nil
}

func (s *assignmentService) checkPair(ctx context.Context, staffID, animalID string) error {
	if staffID == "" || animalID == "" {
		return domain.Validationf("Staff and animal are required")
	}
	if exists, err := s.staff.StaffExists(ctx, staffID); err != nil {
		return err
	} else if !exists {
		return domain.NotFoundf("Staff with ID %s not found", staffID)
	}
	if exists, err := s.animals.AnimalExists(ctx, animalID); err != nil {
		return err
	} else if !exists {
		return domain.NotFoundf("Animal with ID %s not found", animalID)
	}
	return nil
}

func (s *assignmentService) CreateAssignment(ctx context.Context, req AssignmentRequest) (*AssignmentView, error) {
	if err := s.checkPair(ctx, req.StaffID, req.AnimalID); err != nil {
		return nil, err
	}
	if exists, err := s.assignments.AssignmentExists(ctx, req.StaffID, req.AnimalID); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.Conflictf("Assignment already exists")
	}

	err := s.assignments.CreateAssignment(ctx, &domain.Assignment{
		StaffID:      req.StaffID,
		AnimalID:     req.AnimalID,
		Observations: req.Observations,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Assignment created",
		zap.String("staff_id", req.StaffID),
		zap.String("animal_id", req.AnimalID),
	)
	return s.GetAssignment(ctx, req.StaffID, req.AnimalID)
}

// UpdateAssignment 仅观察记录变更时原地更新；
// 复合键变更时校验新键对并 delete-then-recreate
func (s *assignmentService) UpdateAssignment(ctx context.Context, staffID, animalID string, req AssignmentRequest) (*AssignmentView, error) {
	if _, err := s.assignments.GetAssignment(ctx, staffID, animalID); err != nil {
		return nil, err
	}

	if req.StaffID == "" {
		req.StaffID = staffID
	}
	if req.AnimalID == "" {
		req.AnimalID = animalID
	}

	if req.StaffID == staffID && req.AnimalID == animalID {
		if err := s.assignments.UpdateObservations(ctx, staffID, animalID, req.Observations); err != nil {
			return nil, err
		}
		return s.GetAssignment(ctx, staffID, animalID)
	}

	if err := s.checkPair(ctx, req.StaffID, req.AnimalID); err != nil {
		return nil, err
	}
	if exists, err := s.assignments.AssignmentExists(ctx, req.StaffID, req.AnimalID); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.Conflictf("Assignment already exists")
	}

	if err := s.assignments.DeleteAssignment(ctx, staffID, animalID); err != nil {
		return nil, err
	}
	err := s.assignments.CreateAssignment(ctx, &domain.Assignment{
		StaffID:      req.StaffID,
		AnimalID:     req.AnimalID,
		Observations: req.Observations,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Assignment re-keyed",
		zap.String("old_staff_id", staffID),
		zap.String("old_animal_id", animalID),
		zap.String("staff_id", req.StaffID),
		zap.String("animal_id", req.AnimalID),
	)
	return s.GetAssignment(ctx, req.StaffID, req.AnimalID)
}

func (s *assignmentService) DeleteAssignment(ctx context.Context, staffID, animalID string) error {
	if err := s.assignments.DeleteAssignment(ctx, staffID, animalID); err != nil {
		return err
	}
	s.logger.Info("Assignment deleted",
		zap.String("staff_id", staffID),
		zap.String("animal_id", animalID),
	)
	return nil
}
