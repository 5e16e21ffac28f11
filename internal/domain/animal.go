package domain

import (
	"database/sql"
	"time"
)

// Animal 动物领域模型（对应 animals 表）
// 必须属于一个 Category；Enclosure 可选。(name, species, category_id) 三元组唯一。
type Animal struct {
	AnimalID    string         `db:"animal_id"`
	Name        string         `db:"name"`    // NOT NULL
	Species     string         `db:"species"` // NOT NULL
	ImageURL    sql.NullString `db:"image_url"`
	DateOfBirth sql.NullTime   `db:"date_of_birth"`
	Gender      sql.NullString `db:"gender"`
	ArrivalDate time.Time      `db:"arrival_date"`
	CategoryID  string         `db:"category_id"`  // FK, NOT NULL
	EnclosureID sql.NullString `db:"enclosure_id"` // FK, nullable
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// Age 按出生年份粗粒度计算年龄；无出生日期返回 -1
func (a *Animal) Age(now time.Time) int {
	if !a.DateOfBirth.Valid {
		return -1
	}
	return now.Year() - a.DateOfBirth.Time.Year()
}
