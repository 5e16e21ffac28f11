package repository

import (
	"context"

	"zooback/internal/domain"
)

// AccountsRepository 账号Repository接口
// 覆盖 accounts、account_details（一对一，级联删除）和 account_roles（授予集合）
// 业务规则（唯一性提示语、当前角色切换约束）在 Service 层验证
type AccountsRepository interface {
	// 创建：账号 + 明细 + 初始角色授予（current_role_id 对应的授予记录）
	CreateAccount(ctx context.Context, account *domain.Account, details *domain.AccountDetails) (string, error)

	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	FindByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*domain.Account, error)
	ListAccounts(ctx context.Context, filter AccountsFilter, page, size int) ([]*domain.Account, int, error)

	// excludeID 排除自身（更新时）；传空串表示不排除
	UsernameExists(ctx context.Context, username, excludeID string) (bool, error)
	EmailExists(ctx context.Context, email, excludeID string) (bool, error)

	UpdateAccount(ctx context.Context, accountID string, username, email *string) error
	UpdatePassword(ctx context.Context, accountID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, accountID string) error
	DeleteAccount(ctx context.Context, accountID string) error

	GetDetails(ctx context.Context, accountID string) (*domain.AccountDetails, error)
	UpdateDetails(ctx context.Context, details *domain.AccountDetails) error

	ListGrantedRoles(ctx context.Context, accountID string) ([]*domain.Role, error)
	HasGrantedRole(ctx context.Context, accountID, roleID string) (bool, error)
	GrantRole(ctx context.Context, accountID, roleID string) error
	RevokeRole(ctx context.Context, accountID, roleID string) error
	SetCurrentRole(ctx context.Context, accountID, roleID string) error
}

// AccountsFilter 账号查询过滤器（全部 AND 叠加，空值不参与）
type AccountsFilter struct {
	Username string // 子串匹配（大小写敏感）
	Email    string // 子串匹配
	RoleID   string // 精确匹配 current_role_id
	RoleName string // 子串匹配当前角色名
}
