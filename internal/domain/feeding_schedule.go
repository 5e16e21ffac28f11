package domain

import (
	"database/sql"
	"time"
)

// FeedingStatus 喂食状态枚举
type FeedingStatus string

const (
	FeedingScheduled FeedingStatus = "Scheduled"
	FeedingCompleted FeedingStatus = "Completed"
	FeedingMissed    FeedingStatus = "Missed"
)

func (s FeedingStatus) Valid() bool {
	switch s {
	case FeedingScheduled, FeedingCompleted, FeedingMissed:
		return true
	}
	return false
}

// FeedingSchedule 喂食计划（对应 feeding_schedules 表）
// animal 必填；staff 可选，员工被移除时置 NULL
type FeedingSchedule struct {
	FeedingID   string         `db:"feeding_id"`
	AnimalID    string         `db:"animal_id"` // FK, NOT NULL, cascade
	StaffID     sql.NullString `db:"staff_id"`  // FK, nullable, set-null
	FoodType    string         `db:"food_type"` // NOT NULL
	QuantityKg  float64        `db:"quantity_kg"`
	FeedingTime time.Time      `db:"feeding_time"`
	Status      FeedingStatus  `db:"status"`
	Notes       sql.NullString `db:"notes"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
