package repository

import (
	"context"
	"sort"
	"time"

	"zooback/internal/domain"

	"github.com/google/uuid"
)

// MemoryRolesRepository supports role lookups when DB is disabled.
// 角色集合固定，构造时种子写入
type MemoryRolesRepository struct {
	roles map[string]domain.Role // roleID -> Role
}

func NewMemoryRolesRepository() *MemoryRolesRepository {
	r := &MemoryRolesRepository{roles: map[string]domain.Role{}}
	now := time.Now()
	for _, name := range domain.AllRoles {
		id := uuid.NewString()
		r.roles[id] = domain.Role{
			RoleID:    id,
			Name:      name,
			CreatedAt: now,
		}
	}
	return r
}

var _ RolesRepository = (*MemoryRolesRepository)(nil)

func (r *MemoryRolesRepository) ListRoles(_ context.Context) ([]*domain.Role, error) {
	out := make([]*domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		role := role
		out = append(out, &role)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name.Rank() < out[j].Name.Rank()
	})
	return out, nil
}

func (r *MemoryRolesRepository) GetRole(_ context.Context, roleID string) (*domain.Role, error) {
	role, ok := r.roles[roleID]
	if !ok {
		return nil, domain.NotFoundf("Role with ID %s not found", roleID)
	}
	return &role, nil
}

func (r *MemoryRolesRepository) GetRoleByName(_ context.Context, name domain.RoleName) (*domain.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			role := role
			return &role, nil
		}
	}
	return nil, domain.NotFoundf("Role %s not found", name)
}
