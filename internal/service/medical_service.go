package service

import (
	"context"
	"database/sql"
	"time"

	"zooback/internal/domain"
	"zooback/internal/repository"

	"go.uber.org/zap"
)

// MedicalService 医疗记录服务接口
type MedicalService interface {
	ListRecords(ctx context.Context, filter repository.MedicalFilter, page, size int) (*MedicalPage, error)
	GetRecord(ctx context.Context, recordID string) (*MedicalView, error)
	CreateRecord(ctx context.Context, req MedicalRequest) (*MedicalView, error)
	UpdateRecord(ctx context.Context, recordID string, req MedicalRequest) (*MedicalView, error)
	DeleteRecord(ctx context.Context, recordID string) error
}

// medicalService 实现
type medicalService struct {
	medical repository.MedicalRepository
	animals repository.AnimalsRepository
	staff   repository.StaffRepository
	logger  *zap.Logger
}

// NewMedicalService 创建 MedicalService 实例
func NewMedicalService(medical repository.MedicalRepository, animals repository.AnimalsRepository, staff repository.StaffRepository, logger *zap.Logger) MedicalService {
	return &medicalService{
		medical: medical,
		animals: animals,
		staff:   staff,
		logger:  logger,
	}
}

// MedicalRequest 医疗记录创建/更新请求
type MedicalRequest struct {
	AnimalID    string `json:"animalId"`
	StaffID     string `json:"staffId,omitempty"` // 可选
	Status      string `json:"status"`
	RecordDate  string `json:"recordDate,omitempty"` // YYYY-MM-DD，默认今天
	Description string `json:"description,omitempty"`
}

// MedicalView 医疗记录视图
type MedicalView struct {
	RecordID    string    `json:"recordId"`
	AnimalID    string    `json:"animalId"`
	StaffID     string    `json:"staffId,omitempty"`
	Status      string    `json:"status"`
	RecordDate  time.Time `json:"recordDate"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MedicalPage 分页列表
type MedicalPage struct {
	Items []*MedicalView `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

func medicalView(m *domain.MedicalRecord) *MedicalView {
	return &MedicalView{
		RecordID:    m.RecordID,
		AnimalID:    m.AnimalID,
		StaffID:     m.StaffID.String,
		Status:      string(m.Status),
		RecordDate:  m.RecordDate,
		Description: m.Description.String,
		CreatedAt:   m.CreatedAt,
	}
}

func (s *medicalService) ListRecords(ctx context.Context, filter repository.MedicalFilter, page, size int) (*MedicalPage, error) {
	page, size = normalizePage(page, size)
	items, total, err := s.medical.ListRecords(ctx, filter, page, size)
	if err != nil {
		return nil, err
	}
	views := make([]*MedicalView, 0, len(items))
	for _, m := range items {
		views = append(views, medicalView(m))
	}
	return &MedicalPage{Items: views, Total: total, Page: page, Size: size}, nil
}

func (s *medicalService) GetRecord(ctx context.Context, recordID string) (*MedicalView, error) {
	m, err := s.medical.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return medicalView(m), nil
}

func (s *medicalService) buildRecord(req MedicalRequest) (*domain.MedicalRecord, error) {
	if req.AnimalID == "" {
		return nil, domain.Validationf("Animal is required")
	}
	status := domain.HealthStatus(req.Status)
	if !status.Valid() {
		return nil, domain.Validationf("Invalid health status '%s'", req.Status)
	}

	m := &domain.MedicalRecord{
		AnimalID:    req.AnimalID,
		StaffID:     sql.NullString{String: req.StaffID, Valid: req.StaffID != ""},
		Status:      status,
		Description: nullString(req.Description),
	}
	m.RecordDate = today()
	if req.RecordDate != "" {
		t, err := time.Parse("2006-01-02", req.RecordDate)
		if err != nil {
			return nil, domain.Validationf("Invalid record date '%s', expected YYYY-MM-DD", req.RecordDate)
		}
		m.RecordDate = t
	}
	return m, nil
}

func (s *medicalService) checkReferences(ctx context.Context, m *domain.MedicalRecord) error {
	if exists, err := s.animals.AnimalExists(ctx, m.AnimalID); err != nil {
		return err
	} else if !exists {
		return domain.NotFoundf("Animal with ID %s not found", m.AnimalID)
	}
	if m.StaffID.Valid {
		if exists, err := s.staff.StaffExists(ctx, m.StaffID.String); err != nil {
			return err
		} else if !exists {
			return domain.NotFoundf("Staff with ID %s not found", m.StaffID.String)
		}
	}
	return nil
}

func (s *medicalService) CreateRecord(ctx context.Context, req MedicalRequest) (*MedicalView, error) {
	m, err := s.buildRecord(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, m); err != nil {
		return nil, err
	}

	id, err := s.medical.CreateRecord(ctx, m)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Medical record created",
		zap.String("record_id", id),
		zap.String("animal_id", m.AnimalID),
		zap.String("status", string(m.Status)),
	)
	return s.GetRecord(ctx, id)
}

func (s *medicalService) UpdateRecord(ctx context.Context, recordID string, req MedicalRequest) (*MedicalView, error) {
	current, err := s.medical.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	m, err := s.buildRecord(req)
	if err != nil {
		return nil, err
	}
	// 未携带记录日期时保留原值，而不是重置为今天
	if req.RecordDate == "" {
		m.RecordDate = current.RecordDate
	}
	if err := s.checkReferences(ctx, m); err != nil {
		return nil, err
	}
	if err := s.medical.UpdateRecord(ctx, recordID, m); err != nil {
		return nil, err
	}
	return s.GetRecord(ctx, recordID)
}

func (s *medicalService) DeleteRecord(ctx context.Context, recordID string) error {
	if err := s.medical.DeleteRecord(ctx, recordID); err != nil {
		return err
	}
	s.logger.Info("Medical record deleted", zap.String("record_id", recordID))
	return nil
}
