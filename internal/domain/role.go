package domain

import "time"

// RoleName 固定角色集合。用类型化常量代替字符串比较，
// 避免拼写错误并让 rank 查表可穷举。
type RoleName string

const (
	RoleAdmin        RoleName = "Admin"
	RoleZookeeper    RoleName = "Zookeeper"
	RoleVeterinarian RoleName = "Veterinarian"
	RoleVisitor      RoleName = "Visitor"
)

// roleRanks 固定全序 Admin(4) > Zookeeper(3) > Veterinarian(2) > Visitor(1)
var roleRanks = map[RoleName]int{
	RoleAdmin:        4,
	RoleZookeeper:    3,
	RoleVeterinarian: 2,
	RoleVisitor:      1,
}

// AllRoles 按 rank 降序排列的全部角色
var AllRoles = []RoleName{RoleAdmin, RoleZookeeper, RoleVeterinarian, RoleVisitor}

// Rank 角色在层级中的位置；未知角色返回 0（任何门槛检查都失败）
func (r RoleName) Rank() int {
	return roleRanks[r]
}

// Meets 判断当前角色 rank 是否达到要求的最低角色 rank
func (r RoleName) Meets(min RoleName) bool {
	rank := r.Rank()
	return rank > 0 && rank >= min.Rank()
}

// Valid 角色名是否属于固定集合
func (r RoleName) Valid() bool {
	return r.Rank() > 0
}

// Role 角色领域模型（对应 roles 表）
type Role struct {
	RoleID      string    `db:"role_id"`
	Name        RoleName  `db:"name"`        // UNIQUE
	Description string    `db:"description"` // nullable, default ''
	CreatedAt   time.Time `db:"created_at"`
}
