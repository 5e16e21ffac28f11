package domain

import "time"

// Assignment 员工-动物分配记录（对应 staff_animal_assignments 表）
// 复合主键 (staff_id, animal_id)，一对只允许一条；主键不可原地修改，
// 换对时删旧建新。
type Assignment struct {
	StaffID      string    `db:"staff_id"`
	AnimalID     string    `db:"animal_id"`
	Observations string    `db:"observations"` // default ''
	CreatedAt    time.Time `db:"created_at"`
}
