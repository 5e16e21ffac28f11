package domain

import (
	"database/sql"
	"time"
)

// HealthStatus 动物健康状态枚举
type HealthStatus string

const (
	HealthHealthy        HealthStatus = "Healthy"
	HealthSick           HealthStatus = "Sick"
	HealthQuarantined    HealthStatus = "Quarantined"
	HealthUnderTreatment HealthStatus = "UnderTreatment"
	HealthDeceased       HealthStatus = "Deceased"
)

func (s HealthStatus) Valid() bool {
	switch s {
	case HealthHealthy, HealthSick, HealthQuarantined, HealthUnderTreatment, HealthDeceased:
		return true
	}
	return false
}

// MedicalRecord 医疗记录（对应 medical_records 表）
// animal 必填；staff 可选，员工被移除时置 NULL
type MedicalRecord struct {
	RecordID    string         `db:"record_id"`
	AnimalID    string         `db:"animal_id"` // FK, NOT NULL, cascade
	StaffID     sql.NullString `db:"staff_id"`  // FK, nullable, set-null
	Status      HealthStatus   `db:"status"`
	RecordDate  time.Time      `db:"record_date"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
}
