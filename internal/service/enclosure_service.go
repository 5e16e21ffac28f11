package service

import (
	"context"
	"strings"

	"zooback/internal/domain"
	"zooback/internal/repository"

	"go.uber.org/zap"
)

// EnclosureService 围栏服务接口
type EnclosureService interface {
	ListEnclosures(ctx context.Context, filter repository.EnclosuresFilter, page, size int) (*EnclosurePage, error)
	GetEnclosure(ctx context.Context, enclosureID string) (*EnclosureView, error)
	CreateEnclosure(ctx context.Context, req EnclosureRequest) (*EnclosureView, error)
	UpdateEnclosure(ctx context.Context, enclosureID string, req EnclosureRequest) (*EnclosureView, error)
	DeleteEnclosure(ctx context.Context, enclosureID string) error

	// search 端点支撑
	ListAtCapacity(ctx context.Context, page, size int) (*EnclosurePage, error)
	ListAvailable(ctx context.Context, page, size int) (*EnclosurePage, error)
	ListEmpty(ctx context.Context, page, size int) (*EnclosurePage, error)
}

// enclosureService 实现
type enclosureService struct {
	enclosures repository.EnclosuresRepository
	animals    repository.AnimalsRepository
	logger     *zap.Logger
}

// NewEnclosureService 创建 EnclosureService 实例
func NewEnclosureService(enclosures repository.EnclosuresRepository, animals repository.AnimalsRepository, logger *zap.Logger) EnclosureService {
	return &enclosureService{
		enclosures: enclosures,
		animals:    animals,
		logger:     logger,
	}
}

// EnclosureRequest 围栏创建/更新请求
type EnclosureRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Capacity int    `json:"capacity"`
	Location string `json:"location,omitempty"`
}

// EnclosureView 围栏视图，附带当前占用数
type EnclosureView struct {
	EnclosureID string `json:"enclosureId"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Capacity    int    `json:"capacity"`
	Location    string `json:"location,omitempty"`
	Occupancy   int    `json:"occupancy"`
}

// EnclosurePage 分页列表
type EnclosurePage struct {
	Items []*EnclosureView `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
}

func (s *enclosureService) view(ctx context.Context, e *domain.Enclosure) (*EnclosureView, error) {
	occupancy, err := s.animals.CountByEnclosure(ctx, e.EnclosureID)
	if err != nil {
		return nil, err
	}
	return &EnclosureView{
		EnclosureID: e.EnclosureID,
		Name:        e.Name,
		Type:        e.Type.String,
		Capacity:    e.Capacity,
		Location:    e.Location.String,
		Occupancy:   occupancy,
	}, nil
}

func (s *enclosureService) ListEnclosures(ctx context.Context, filter repository.EnclosuresFilter, page, size int) (*EnclosurePage, error) {
	page, size = normalizePage(page, size)
	items, total, err := s.enclosures.ListEnclosures(ctx, filter, page, size)
	if err != nil {
		return nil, err
	}
	views := make([]*EnclosureView, 0, len(items))
	for _, e := range items {
		v, err := s.view(ctx, e)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return &EnclosurePage{Items: views, Total: total, Page: page, Size: size}, nil
}

func (s *enclosureService) GetEnclosure(ctx context.Context, enclosureID string) (*EnclosureView, error) {
	e, err := s.enclosures.GetEnclosure(ctx, enclosureID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, e)
}

func (s *enclosureService) validate(req *EnclosureRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Validationf("Enclosure name is required")
	}
	if req.Capacity <= 0 {
		return domain.Validationf("Capacity must be positive")
	}
	return nil
}

func (s *enclosureService) CreateEnclosure(ctx context.Context, req EnclosureRequest) (*EnclosureView, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	if exists, err := s.enclosures.NameExists(ctx, req.Name, ""); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.Conflictf("Enclosure with name '%s' already exists", req.Name)
	}

	id, err := s.enclosures.CreateEnclosure(ctx, &domain.Enclosure{
		Name:     req.Name,
		Type:     nullString(req.Type),
		Capacity: req.Capacity,
		Location: nullString(req.Location),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Enclosure created", zap.String("enclosure_id", id), zap.String("name", req.Name))
	return s.GetEnclosure(ctx, id)
}

// UpdateEnclosure 容量不得低于当前占用数
func (s *enclosureService) UpdateEnclosure(ctx context.Context, enclosureID string, req EnclosureRequest) (*EnclosureView, error) {
	if _, err := s.enclosures.GetEnclosure(ctx, enclosureID); err != nil {
		return nil, err
	}
	if err := s.validate(&req); err != nil {
		return nil, err
	}
	if exists, err := s.enclosures.NameExists(ctx, req.Name, enclosureID); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.Conflictf("Enclosure with name '%s' already exists", req.Name)
	}

	occupancy, err := s.animals.CountByEnclosure(ctx, enclosureID)
	if err != nil {
		return nil, err
	}
	if req.Capacity < occupancy {
		return nil, domain.Conflictf("Capacity %d is below current occupancy %d", req.Capacity, occupancy)
	}

	err = s.enclosures.UpdateEnclosure(ctx, enclosureID, &domain.Enclosure{
		Name:     req.Name,
		Type:     nullString(req.Type),
		Capacity: req.Capacity,
		Location: nullString(req.Location),
	})
	if err != nil {
		return nil, err
	}
	return s.GetEnclosure(ctx, enclosureID)
}

// DeleteEnclosure 尚有动物居住时拒绝删除
func (s *enclosureService) DeleteEnclosure(ctx context.Context, enclosureID string) error {
	if _, err := s.enclosures.GetEnclosure(ctx, enclosureID); err != nil {
		return err
	}
	occupancy, err := s.animals.CountByEnclosure(ctx, enclosureID)
	if err != nil {
		return err
	}
	if occupancy > 0 {
		return domain.Conflictf("Cannot delete enclosure with %d animals housed", occupancy)
	}
	if err := s.enclosures.DeleteEnclosure(ctx, enclosureID); err != nil {
		return err
	}
	s.logger.Info("Enclosure deleted", zap.String("enclosure_id", enclosureID))
	return nil
}

func (s *enclosureService) listByOccupancy(ctx context.Context, page, size int, keep func(view *EnclosureView) bool) (*EnclosurePage, error) {
	page, size = normalizePage(page, size)

	// 占用数在仓储层拿不到，全集过滤后内存分页
	all, _, err := s.enclosures.ListEnclosures(ctx, repository.EnclosuresFilter{}, 1, 1<<30)
	if err != nil {
		return nil, err
	}
	kept := []*EnclosureView{}
	for _, e := range all {
		v, err := s.view(ctx, e)
		if err != nil {
			return nil, err
		}
		if keep(v) {
			kept = append(kept, v)
		}
	}

	total := len(kept)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return &EnclosurePage{Items: kept[start:end], Total: total, Page: page, Size: size}, nil
}

func (s *enclosureService) ListAtCapacity(ctx context.Context, page, size int) (*EnclosurePage, error) {
	return s.listByOccupancy(ctx, page, size, func(v *EnclosureView) bool {
		return v.Occupancy >= v.Capacity
	})
}

func (s *enclosureService) ListAvailable(ctx context.Context, page, size int) (*EnclosurePage, error) {
	return s.listByOccupancy(ctx, page, size, func(v *EnclosureView) bool {
		return v.Occupancy < v.Capacity
	})
}

func (s *enclosureService) ListEmpty(ctx context.Context, page, size int) (*EnclosurePage, error) {
	return s.listByOccupancy(ctx, page, size, func(v *EnclosureView) bool {
		return v.Occupancy == 0
	})
}
