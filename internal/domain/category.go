package domain

import (
	"database/sql"
	"time"
)

// Category 动物类别领域模型（对应 categories 表）
// 名下还有动物时不允许删除
type Category struct {
	CategoryID  string         `db:"category_id"`
	Name        string         `db:"name"` // UNIQUE, NOT NULL
	Description sql.NullString `db:"description"`
	ImageURL    sql.NullString `db:"image_url"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
