package domain

import "time"

// Staff 员工领域模型（对应 staff 表）
// 与 Account 一对一（account_id UNIQUE）；被喂食计划/医疗记录/分配引用时不允许删除
type Staff struct {
	StaffID    string    `db:"staff_id"`
	AccountID  string    `db:"account_id"` // FK -> accounts, UNIQUE
	HireDate   time.Time `db:"hire_date"`
	Department string    `db:"department"` // default ''
	Position   string    `db:"position"`   // default ''
	Salary     float64   `db:"salary"`     // NUMERIC(10,2)
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
