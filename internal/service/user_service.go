package service

import (
	"context"
	"strings"
	"time"

	"zooback/internal/domain"
	"zooback/internal/repository"

	"go.uber.org/zap"
)

// UserService 账号管理服务接口
type UserService interface {
	ListAccounts(ctx context.Context, filter repository.AccountsFilter, page, size int) (*AccountPage, error)
	GetAccount(ctx context.Context, accountID string) (*AccountView, error)
	UpdateAccount(ctx context.Context, accountID string, req UpdateAccountRequest) (*AccountView, error)
	DeleteAccount(ctx context.Context, accountID string) error

	GetDetails(ctx context.Context, accountID string) (*domain.AccountDetails, error)
	UpdateDetails(ctx context.Context, accountID string, req UpdateDetailsRequest) (*domain.AccountDetails, error)

	ListRoles(ctx context.Context) ([]*domain.Role, error)
	ListGrantedRoles(ctx context.Context, accountID string) ([]*domain.Role, error)
	GrantRole(ctx context.Context, accountID, roleName string) error
	RemoveGrantedRole(ctx context.Context, accountID, roleName string) error
	ChangeCurrentRole(ctx context.Context, accountID, roleName string) error
}

// userService 实现
type userService struct {
	accounts repository.AccountsRepository
	roles    repository.RolesRepository
	staff    repository.StaffRepository
	logger   *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(accounts repository.AccountsRepository, roles repository.RolesRepository, staff repository.StaffRepository, logger *zap.Logger) UserService {
	return &userService{
		accounts: accounts,
		roles:    roles,
		staff:    staff,
		logger:   logger,
	}
}

// AccountView 账号视图（不含密码散列）
type AccountView struct {
	AccountID   string     `json:"accountId"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// AccountPage 分页列表
type AccountPage struct {
	Items []*AccountView `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

// UpdateAccountRequest 账号更新（nil 表示不修改）
type UpdateAccountRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// UpdateDetailsRequest 账号明细更新
type UpdateDetailsRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	BirthDate   string `json:"birthDate"` // YYYY-MM-DD，空串清空
	Gender      string `json:"gender"`
	Phone       string `json:"phone"`
	HomeAddress string `json:"homeAddress"`
	ImageURL    string `json:"imageUrl"`
}

func accountView(a *domain.Account) *AccountView {
	v := &AccountView{
		AccountID: a.AccountID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      string(a.CurrentRole),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.LastLoginAt.Valid {
		t := a.LastLoginAt.Time
		v.LastLoginAt = &t
	}
	return v
}

func (s *userService) ListAccounts(ctx context.Context, filter repository.AccountsFilter, page, size int) (*AccountPage, error) {
	page, size = normalizePage(page, size)
	items, total, err := s.accounts.ListAccounts(ctx, filter, page, size)
	if err != nil {
		return nil, err
	}
	views := make([]*AccountView, 0, len(items))
	for _, a := range items {
		views = append(views, accountView(a))
	}
	return &AccountPage{Items: views, Total: total, Page: page, Size: size}, nil
}

func (s *userService) GetAccount(ctx context.Context, accountID string) (*AccountView, error) {
	a, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return accountView(a), nil
}

func (s *userService) UpdateAccount(ctx context.Context, accountID string, req UpdateAccountRequest) (*AccountView, error) {
	if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	if req.Username != nil {
		u := strings.TrimSpace(*req.Username)
		if u == "" {
			return nil, domain.Validationf("Username cannot be empty")
		}
		if exists, err := s.accounts.UsernameExists(ctx, u, accountID); err != nil {
			return nil, err
		} else if exists {
			return nil, domain.Conflictf("Username already exists")
		}
		req.Username = &u
	}
	if req.Email != nil {
		e := strings.TrimSpace(*req.Email)
		if e == "" || !strings.Contains(e, "@") {
			return nil, domain.Validationf("A valid email is required")
		}
		if exists, err := s.accounts.EmailExists(ctx, e, accountID); err != nil {
			return nil, err
		} else if exists {
			return nil, domain.Conflictf("Email already exists")
		}
		req.Email = &e
	}

	if err := s.accounts.UpdateAccount(ctx, accountID, req.Username, req.Email); err != nil {
		return nil, err
	}
	return s.GetAccount(ctx, accountID)
}

// DeleteAccount 账号删除；关联 staff 档案存在时拒绝
func (s *userService) DeleteAccount(ctx context.Context, accountID string) error {
	if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
		return err
	}
	if has, err := s.staff.AccountHasStaff(ctx, accountID, ""); err != nil {
		return err
	} else if has {
		return domain.Conflictf("Cannot delete account with an active staff profile")
	}
	if err := s.accounts.DeleteAccount(ctx, accountID); err != nil {
		return err
	}
	s.logger.Info("Account deleted", zap.String("account_id", accountID))
	return nil
}

func (s *userService) GetDetails(ctx context.Context, accountID string) (*domain.AccountDetails, error) {
	return s.accounts.GetDetails(ctx, accountID)
}

func (s *userService) UpdateDetails(ctx context.Context, accountID string, req UpdateDetailsRequest) (*domain.AccountDetails, error) {
	if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	if req.Gender != "" && !domain.Gender(req.Gender).Valid() {
		return nil, domain.Validationf("Invalid gender '%s'", req.Gender)
	}

	details := &domain.AccountDetails{
		AccountID:   accountID,
		FirstName:   nullString(req.FirstName),
		LastName:    nullString(req.LastName),
		Gender:      nullString(req.Gender),
		Phone:       nullString(req.Phone),
		HomeAddress: nullString(req.HomeAddress),
		ImageURL:    nullString(req.ImageURL),
	}
	if req.BirthDate != "" {
		t, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, domain.Validationf("Invalid birth date '%s', expected YYYY-MM-DD", req.BirthDate)
		}
		details.BirthDate.Time = t
		details.BirthDate.Valid = true
	}

	if err := s.accounts.UpdateDetails(ctx, details); err != nil {
		return nil, err
	}
	return s.accounts.GetDetails(ctx, accountID)
}

func (s *userService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.roles.ListRoles(ctx)
}

func (s *userService) ListGrantedRoles(ctx context.Context, accountID string) ([]*domain.Role, error) {
	if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return s.accounts.ListGrantedRoles(ctx, accountID)
}

func (s *userService) resolveRole(ctx context.Context, roleName string) (*domain.Role, error) {
	name := domain.RoleName(roleName)
	if !name.Valid() {
		return nil, domain.Validationf("Invalid role '%s'", roleName)
	}
	return s.roles.GetRoleByName(ctx, name)
}

func (s *userService) GrantRole(ctx context.Context, accountID, roleName string) error {
	if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
		return err
	}
	role, err := s.resolveRole(ctx, roleName)
	if err != nil {
		return err
	}
	if has, err := s.accounts.HasGrantedRole(ctx, accountID, role.RoleID); err != nil {
		return err
	} else if has {
		return domain.Conflictf("Role '%s' already granted", roleName)
	}
	if err := s.accounts.GrantRole(ctx, accountID, role.RoleID); err != nil {
		return err
	}
	s.logger.Info("Role granted",
		zap.String("account_id", accountID),
		zap.String("role", roleName),
	)
	return nil
}

// RemoveGrantedRole 撤销授予；当前角色不可撤销
func (s *userService) RemoveGrantedRole(ctx context.Context, accountID, roleName string) error {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	role, err := s.resolveRole(ctx, roleName)
	if err != nil {
		return err
	}
	if account.CurrentRoleID == role.RoleID {
		return domain.Conflictf("Cannot remove the current role; switch roles first")
	}
	if has, err := s.accounts.HasGrantedRole(ctx, accountID, role.RoleID); err != nil {
		return err
	} else if !has {
		return domain.NotFoundf("Role '%s' is not granted to this account", roleName)
	}
	if err := s.accounts.RevokeRole(ctx, accountID, role.RoleID); err != nil {
		return err
	}
	s.logger.Info("Role revoked",
		zap.String("account_id", accountID),
		zap.String("role", roleName),
	)
	return nil
}

// ChangeCurrentRole 切换当前角色，未授予时自动授予
func (s *userService) ChangeCurrentRole(ctx context.Context, accountID, roleName string) error {
	if _, err := s.accounts.GetAccount(ctx, accountID); err != nil {
		return err
	}
	role, err := s.resolveRole(ctx, roleName)
	if err != nil {
		return err
	}
	has, err := s.accounts.HasGrantedRole(ctx, accountID, role.RoleID)
	if err != nil {
		return err
	}
	if !has {
		if err := s.accounts.GrantRole(ctx, accountID, role.RoleID); err != nil {
			return err
		}
	}
	if err := s.accounts.SetCurrentRole(ctx, accountID, role.RoleID); err != nil {
		return err
	}
	s.logger.Info("Current role changed",
		zap.String("account_id", accountID),
		zap.String("role", roleName),
	)
	return nil
}

// today 本地日历当天零点（Truncate 会按 UTC 切日，跨时区会差一天）
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// normalizePage 分页默认值：page 1，size 20
func normalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return page, size
}
