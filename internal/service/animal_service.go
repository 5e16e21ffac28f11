package service

import (
	"context"
	"strings"
	"time"

	"zooback/internal/domain"
	"zooback/internal/repository"

	"go.uber.org/zap"
)

// AnimalService 动物服务接口
type AnimalService interface {
	ListAnimals(ctx context.Context, filter repository.AnimalsFilter, page, size int) (*AnimalPage, error)
	GetAnimal(ctx context.Context, animalID string) (*AnimalView, error)
	CreateAnimal(ctx context.Context, req AnimalRequest) (*AnimalView, error)
	UpdateAnimal(ctx context.Context, animalID string, req AnimalRequest) (*AnimalView, error)
	DeleteAnimal(ctx context.Context, animalID string) error
}

// animalService 实现
type animalService struct {
	animals    repository.AnimalsRepository
	categories repository.CategoriesRepository
	enclosures repository.EnclosuresRepository
	logger     *zap.Logger
}

// NewAnimalService 创建 AnimalService 实例
func NewAnimalService(animals repository.AnimalsRepository, categories repository.CategoriesRepository, enclosures repository.EnclosuresRepository, logger *zap.Logger) AnimalService {
	return &animalService{
		animals:    animals,
		categories: categories,
		enclosures: enclosures,
		logger:     logger,
	}
}

// AnimalRequest 动物创建/更新请求
type AnimalRequest struct {
	Name        string `json:"name"`
	Species     string `json:"species"`
	ImageURL    string `json:"imageUrl,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	Gender      string `json:"gender,omitempty"`
	ArrivalDate string `json:"arrivalDate,omitempty"` // YYYY-MM-DD，默认今天
	CategoryID  string `json:"categoryId"`
	EnclosureID string `json:"enclosureId,omitempty"` // 可选
}

// AnimalView 动物视图，附带年龄
type AnimalView struct {
	AnimalID    string     `json:"animalId"`
	Name        string     `json:"name"`
	Species     string     `json:"species"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Age         *int       `json:"age,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	ArrivalDate time.Time  `json:"arrivalDate"`
	CategoryID  string     `json:"categoryId"`
	EnclosureID string     `json:"enclosureId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// AnimalPage 分页列表
type AnimalPage struct {
	Items []*AnimalView `json:"items"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
}

func animalView(a *domain.Animal) *AnimalView {
	v := &AnimalView{
		AnimalID:    a.AnimalID,
		Name:        a.Name,
		Species:     a.Species,
		ImageURL:    a.ImageURL.String,
		Gender:      a.Gender.String,
		ArrivalDate: a.ArrivalDate,
		CategoryID:  a.CategoryID,
		EnclosureID: a.EnclosureID.String,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.DateOfBirth.Valid {
		t := a.DateOfBirth.Time
		v.DateOfBirth = &t
		age := a.Age(time.Now())
		v.Age = &age
	}
	return v
}

func (s *animalService) ListAnimals(ctx context.Context, filter repository.AnimalsFilter, page, size int) (*AnimalPage, error) {
	page, size = normalizePage(page, size)
	items, total, err := s.animals.ListAnimals(ctx, filter, page, size)
	if err != nil {
		return nil, err
	}
	views := make([]*AnimalView, 0, len(items))
	for _, a := range items {
		views = append(views, animalView(a))
	}
	return &AnimalPage{Items: views, Total: total, Page: page, Size: size}, nil
}

func (s *animalService) GetAnimal(ctx context.Context, animalID string) (*AnimalView, error) {
	a, err := s.animals.GetAnimal(ctx, animalID)
	if err != nil {
		return nil, err
	}
	return animalView(a), nil
}

func (s *animalService) buildAnimal(req AnimalRequest) (*domain.Animal, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Species = strings.TrimSpace(req.Species)
	if req.Name == "" {
		return nil, domain.Validationf("Animal name is required")
	}
	if req.Species == "" {
		return nil, domain.Validationf("Species is required")
	}
	if req.CategoryID == "" {
		return nil, domain.Validationf("Category is required")
	}
	if req.Gender != "" && !domain.Gender(req.Gender).Valid() {
		return nil, domain.Validationf("Invalid gender '%s'", req.Gender)
	}

	a := &domain.Animal{
		Name:        req.Name,
		Species:     req.Species,
		ImageURL:    nullString(req.ImageURL),
		Gender:      nullString(req.Gender),
		CategoryID:  req.CategoryID,
		EnclosureID: nullString(req.EnclosureID),
	}

	if req.DateOfBirth != "" {
		t, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, domain.Validationf("Invalid date of birth '%s', expected YYYY-MM-DD", req.DateOfBirth)
		}
		if t.After(time.Now()) {
			return nil, domain.Validationf("Date of birth cannot be in the future")
		}
		a.DateOfBirth.Time = t
		a.DateOfBirth.Valid = true
	}

	a.ArrivalDate = today()
	if req.ArrivalDate != "" {
		t, err := time.Parse("2006-01-02", req.ArrivalDate)
		if err != nil {
			return nil, domain.Validationf("Invalid arrival date '%s', expected YYYY-MM-DD", req.ArrivalDate)
		}
		a.ArrivalDate = t
	}
	return a, nil
}

// mergeAnimal 更新语义：只覆盖请求中携带的字段，缺省字段保留库中原值
func (s *animalService) mergeAnimal(current *domain.Animal, req AnimalRequest) (*domain.Animal, error) {
	a := *current
	if name := strings.TrimSpace(req.Name); name != "" {
		a.Name = name
	}
	if species := strings.TrimSpace(req.Species); species != "" {
		a.Species = species
	}
	if req.CategoryID != "" {
		a.CategoryID = req.CategoryID
	}
	if req.ImageURL != "" {
		a.ImageURL = nullString(req.ImageURL)
	}
	if req.Gender != "" {
		if !domain.Gender(req.Gender).Valid() {
			return nil, domain.Validationf("Invalid gender '%s'", req.Gender)
		}
		a.Gender = nullString(req.Gender)
	}
	if req.EnclosureID != "" {
		a.EnclosureID = nullString(req.EnclosureID)
	}
	if req.DateOfBirth != "" {
		t, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, domain.Validationf("Invalid date of birth '%s', expected YYYY-MM-DD", req.DateOfBirth)
		}
		if t.After(time.Now()) {
			return nil, domain.Validationf("Date of birth cannot be in the future")
		}
		a.DateOfBirth.Time = t
		a.DateOfBirth.Valid = true
	}
	if req.ArrivalDate != "" {
		t, err := time.Parse("2006-01-02", req.ArrivalDate)
		if err != nil {
			return nil, domain.Validationf("Invalid arrival date '%s', expected YYYY-MM-DD", req.ArrivalDate)
		}
		a.ArrivalDate = t
	}
	return &a, nil
}

// checkReferences 校验顺序：类别存在 -> 围栏存在 -> 容量
// skipCapacity 为真时只校验围栏存在（更新且围栏未变）
func (s *animalService) checkReferences(ctx context.Context, a *domain.Animal, skipCapacity bool) error {
	if exists, err := s.categories.CategoryExists(ctx, a.CategoryID); err != nil {
		return err
	} else if !exists {
		return domain.NotFoundf("Category with ID %s not found", a.CategoryID)
	}

	if !a.EnclosureID.Valid {
		return nil
	}
	enclosure, err := s.enclosures.GetEnclosure(ctx, a.EnclosureID.String)
	if err != nil {
		return err
	}
	if skipCapacity {
		return nil
	}
	occupancy, err := s.animals.CountByEnclosure(ctx, enclosure.EnclosureID)
	if err != nil {
		return err
	}
	if occupancy >= enclosure.Capacity {
		return domain.Conflictf("Enclosure '%s' is at full capacity (%d)", enclosure.Name, enclosure.Capacity)
	}
	return nil
}

func (s *animalService) CreateAnimal(ctx context.Context, req AnimalRequest) (*AnimalView, error) {
	a, err := s.buildAnimal(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, a, false); err != nil {
		return nil, err
	}
	if exists, err := s.animals.TripleExists(ctx, a.Name, a.Species, a.CategoryID, ""); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.Conflictf("Animal '%s' (%s) already exists in this category", a.Name, a.Species)
	}

	id, err := s.animals.CreateAnimal(ctx, a)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Animal created",
		zap.String("animal_id", id),
		zap.String("name", a.Name),
		zap.String("species", a.Species),
	)
	return s.GetAnimal(ctx, id)
}

// UpdateAnimal 部分更新；围栏未变时跳过容量检查，防止满员围栏内的动物无法更新
func (s *animalService) UpdateAnimal(ctx context.Context, animalID string, req AnimalRequest) (*AnimalView, error) {
	current, err := s.animals.GetAnimal(ctx, animalID)
	if err != nil {
		return nil, err
	}
	a, err := s.mergeAnimal(current, req)
	if err != nil {
		return nil, err
	}

	sameEnclosure := a.EnclosureID.Valid == current.EnclosureID.Valid &&
		a.EnclosureID.String == current.EnclosureID.String
	if err := s.checkReferences(ctx, a, sameEnclosure); err != nil {
		return nil, err
	}
	if exists, err := s.animals.TripleExists(ctx, a.Name, a.Species, a.CategoryID, animalID); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.Conflictf("Animal '%s' (%s) already exists in this category", a.Name, a.Species)
	}

	if err := s.animals.UpdateAnimal(ctx, animalID, a); err != nil {
		return nil, err
	}
	return s.GetAnimal(ctx, animalID)
}

func (s *animalService) DeleteAnimal(ctx context.Context, animalID string) error {
	if _, err := s.animals.GetAnimal(ctx, animalID); err != nil {
		return err
	}
	if err := s.animals.DeleteAnimal(ctx, animalID); err != nil {
		return err
	}
	s.logger.Info("Animal deleted", zap.String("animal_id", animalID))
	return nil
}
