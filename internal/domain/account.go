package domain

import (
	"database/sql"
	"time"
)

// Account 账号领域模型（对应 accounts 表）
// current_role_id 必须属于该账号的已授予角色集合（account_roles）
type Account struct {
	AccountID     string         `db:"account_id"`
	Username      string         `db:"username"` // UNIQUE, NOT NULL
	Email         string         `db:"email"`    // UNIQUE, NOT NULL
	PasswordHash  string         `db:"password_hash"`
	CurrentRoleID string         `db:"current_role_id"` // FK -> roles
	CurrentRole   RoleName       `db:"current_role"`    // join 填充，非表字段
	LastLoginAt   sql.NullTime   `db:"last_login_at"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// AccountDetails 账号明细（对应 account_details 表，一对一，随账号级联删除）
type AccountDetails struct {
	AccountID   string         `db:"account_id"` // PK + FK -> accounts
	FirstName   sql.NullString `db:"first_name"`
	LastName    sql.NullString `db:"last_name"`
	BirthDate   sql.NullTime   `db:"birth_date"`
	Gender      sql.NullString `db:"gender"`
	Phone       sql.NullString `db:"phone"`
	HomeAddress sql.NullString `db:"home_address"`
	ImageURL    sql.NullString `db:"image_url"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// RoleGrant 账号与角色的多对多授予记录（对应 account_roles 表，复合主键）
type RoleGrant struct {
	AccountID  string    `db:"account_id"`
	RoleID     string    `db:"role_id"`
	AssignedAt time.Time `db:"assigned_at"`
}

// Gender 性别枚举（序列化为字符串）
type Gender string

const (
	GenderMale    Gender = "Male"
	GenderFemale  Gender = "Female"
	GenderUnknown Gender = "Unknown"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnknown:
		return true
	}
	return false
}
