package service

import (
	"context"
	"strings"
	"time"

	"zooback/internal/domain"
	"zooback/internal/repository"

	"go.uber.org/zap"
)

// StaffService 员工服务接口
type StaffService interface {
	ListStaff(ctx context.Context, filter repository.StaffFilter, page, size int) (*StaffPage, error)
	GetStaff(ctx context.Context, staffID string) (*StaffView, error)
	CreateStaff(ctx context.Context, req StaffRequest) (*StaffView, error)
	UpdateStaff(ctx context.Context, staffID string, req StaffRequest) (*StaffView, error)
	DeleteStaff(ctx context.Context, staffID string) error
}

// staffService 实现
type staffService struct {
	staff       repository.StaffRepository
	accounts    repository.AccountsRepository
	feeding     repository.FeedingRepository
	medical     repository.MedicalRepository
	assignments repository.AssignmentsRepository
	logger      *zap.Logger
}

// NewStaffService 创建 StaffService 实例
func NewStaffService(
	staff repository.StaffRepository,
	accounts repository.AccountsRepository,
	feeding repository.FeedingRepository,
	medical repository.MedicalRepository,
	assignments repository.AssignmentsRepository,
	logger *zap.Logger,
) StaffService {
	return &staffService{
		staff:       staff,
		accounts:    accounts,
		feeding:     feeding,
		medical:     medical,
		assignments: assignments,
		logger:      logger,
	}
}

// StaffRequest 员工创建/更新请求
type StaffRequest struct {
	AccountID  string  `json:"accountId"`
	HireDate   string  `json:"hireDate,omitempty"` // YYYY-MM-DD，默认今天
	Department string  `json:"department"`
	Position   string  `json:"position"`
	Salary     float64 `json:"salary"`
}

// StaffView 员工视图
type StaffView struct {
	StaffID    string    `json:"staffId"`
	AccountID  string    `json:"accountId"`
	Username   string    `json:"username,omitempty"`
	HireDate   time.Time `json:"hireDate"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
	Salary     float64   `json:"salary"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// StaffPage 分页列表
type StaffPage struct {
	Items []*StaffView `json:"items"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Size  int          `json:"size"`
}

func (s *staffService) view(ctx context.Context, st *domain.Staff) *StaffView {
	v := &StaffView{
		StaffID:    st.StaffID,
		AccountID:  st.AccountID,
		HireDate:   st.HireDate,
		Department: st.Department,
		Position:   st.Position,
		Salary:     st.Salary,
		CreatedAt:  st.CreatedAt,
		UpdatedAt:  st.UpdatedAt,
	}
	if account, err := s.accounts.GetAccount(ctx, st.AccountID); err == nil {
		v.Username = account.Username
	}
	return v
}

func (s *staffService) ListStaff(ctx context.Context, filter repository.StaffFilter, page, size int) (*StaffPage, error) {
	page, size = normalizePage(page, size)
	items, total, err := s.staff.ListStaff(ctx, filter, page, size)
	if err != nil {
		return nil, err
	}
	views := make([]*StaffView, 0, len(items))
	for _, st := range items {
		views = append(views, s.view(ctx, st))
	}
	return &StaffPage{Items: views, Total: total, Page: page, Size: size}, nil
}

func (s *staffService) GetStaff(ctx context.Context, staffID string) (*StaffView, error) {
	st, err := s.staff.GetStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, st), nil
}

func (s *staffService) buildStaff(req StaffRequest) (*domain.Staff, error) {
	req.Department = strings.TrimSpace(req.Department)
	req.Position = strings.TrimSpace(req.Position)
	if req.AccountID == "" {
		return nil, domain.Validationf("Account is required")
	}
	if req.Department == "" {
		return nil, domain.Validationf("Department is required")
	}
	if req.Position == "" {
		return nil, domain.Validationf("Position is required")
	}
	if req.Salary < 0 {
		return nil, domain.Validationf("Salary cannot be negative")
	}

	st := &domain.Staff{
		AccountID:  req.AccountID,
		Department: req.Department,
		Position:   req.Position,
		Salary:     req.Salary,
	}
	st.HireDate = today()
	if req.HireDate != "" {
		t, err := time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			return nil, domain.Validationf("Invalid hire date '%s', expected YYYY-MM-DD", req.HireDate)
		}
		st.HireDate = t
	}
	return st, nil
}

func (s *staffService) CreateStaff(ctx context.Context, req StaffRequest) (*StaffView, error) {
	st, err := s.buildStaff(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.accounts.GetAccount(ctx, st.AccountID); err != nil {
		return nil, err
	}
	if has, err := s.staff.AccountHasStaff(ctx, st.AccountID, ""); err != nil {
		return nil, err
	} else if has {
		return nil, domain.Conflictf("Account already has a staff profile")
	}

	id, err := s.staff.CreateStaff(ctx, st)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Staff created",
		zap.String("staff_id", id),
		zap.String("account_id", st.AccountID),
		zap.String("department", st.Department),
	)
	return s.GetStaff(ctx, id)
}

func (s *staffService) UpdateStaff(ctx context.Context, staffID string, req StaffRequest) (*StaffView, error) {
	current, err := s.staff.GetStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	st, err := s.buildStaff(req)
	if err != nil {
		return nil, err
	}
	// 未携带入职日期时保留原值，而不是重置为今天
	if req.HireDate == "" {
		st.HireDate = current.HireDate
	}
	if _, err := s.accounts.GetAccount(ctx, st.AccountID); err != nil {
		return nil, err
	}
	if has, err := s.staff.AccountHasStaff(ctx, st.AccountID, staffID); err != nil {
		return nil, err
	} else if has {
		return nil, domain.Conflictf("Account already has a staff profile")
	}

	if err := s.staff.UpdateStaff(ctx, staffID, st); err != nil {
		return nil, err
	}
	return s.GetStaff(ctx, staffID)
}

// DeleteStaff 喂食计划、医疗记录或分配仍引用该员工时拒绝删除
func (s *staffService) DeleteStaff(ctx context.Context, staffID string) error {
	if _, err := s.staff.GetStaff(ctx, staffID); err != nil {
		return err
	}

	if n, err := s.feeding.CountByStaff(ctx, staffID); err != nil {
		return err
	} else if n > 0 {
		return domain.Conflictf("Cannot delete staff with %d feeding schedules assigned", n)
	}
	if n, err := s.medical.CountByStaff(ctx, staffID); err != nil {
		return err
	} else if n > 0 {
		return domain.Conflictf("Cannot delete staff with %d medical records assigned", n)
	}
	if n, err := s.assignments.CountByStaff(ctx, staffID); err != nil {
		return err
	} else if n > 0 {
		return domain.Conflictf("Cannot delete staff with %d animal assignments", n)
	}

	if err := s.staff.DeleteStaff(ctx, staffID); err != nil {
		return err
	}
	s.logger.Info("Staff deleted", zap.String("staff_id", staffID))
	return nil
}
