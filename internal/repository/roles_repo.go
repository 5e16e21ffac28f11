package repository

import (
	"context"

	"zooback/internal/domain"
)

// RolesRepository 角色Repository接口
// 角色集合固定（迁移时种子写入），只读访问
type RolesRepository interface {
	ListRoles(ctx context.Context) ([]*domain.Role, error)
	GetRole(ctx context.Context, roleID string) (*domain.Role, error)
	GetRoleByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
}
