package domain

import (
	"database/sql"
	"time"
)

// Enclosure 圈舍领域模型（对应 enclosures 表）
// 常驻动物数 ≤ capacity 在任何时刻成立：动物创建/迁入和容量下调时都要校验
type Enclosure struct {
	EnclosureID string         `db:"enclosure_id"`
	Name        string         `db:"name"` // UNIQUE, NOT NULL
	Type        sql.NullString `db:"type"`
	Capacity    int            `db:"capacity"` // CHECK (capacity > 0)
	Location    sql.NullString `db:"location"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
