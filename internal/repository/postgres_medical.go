package repository

import (
	"context"
	"database/sql"
	"fmt"

	"zooback/internal/domain"

	"github.com/google/uuid"
)

// PostgresMedicalRepository 医疗记录Repository实现
type PostgresMedicalRepository struct {
	db *sql.DB
}

func NewPostgresMedicalRepository(db *sql.DB) *PostgresMedicalRepository {
	return &PostgresMedicalRepository{db: db}
}

var _ MedicalRepository = (*PostgresMedicalRepository)(nil)

const medicalColumns = `record_id::text, animal_id::text, staff_id::text, status, record_date, description, created_at`

func scanMedical(row interface{ Scan(...any) error }) (*domain.MedicalRecord, error) {
	var m domain.MedicalRecord
	err := row.Scan(
		&m.RecordID, &m.AnimalID, &m.StaffID, &m.Status, &m.RecordDate,
		&m.Description, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PostgresMedicalRepository) ListRecords(ctx context.Context, filter MedicalFilter, page, size int) ([]*domain.MedicalRecord, int, error) {
	where := []string{}
	args := []any{}
	argN := 1

	if filter.AnimalID != "" {
		where = append(where, fmt.Sprintf("animal_id = $%d", argN))
		args = append(args, filter.AnimalID)
		argN++
	}
	if filter.StaffID != "" {
		where = append(where, fmt.Sprintf("staff_id = $%d", argN))
		args = append(args, filter.StaffID)
		argN++
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argN))
		args = append(args, filter.Status)
		argN++
	}
	if filter.From != nil {
		where = append(where, fmt.Sprintf("record_date >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		where = append(where, fmt.Sprintf("record_date <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + joinAnd(where)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM medical_records`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count medical records: %w", err)
	}

	q := `SELECT ` + medicalColumns + ` FROM medical_records` + whereClause +
		fmt.Sprintf(` ORDER BY record_date DESC, record_id LIMIT $%d OFFSET $%d`, argN, argN+1)
	args = append(args, size, offset(page, size))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query medical records: %w", err)
	}
	defer rows.Close()

	out := []*domain.MedicalRecord{}
	for rows.Next() {
		m, err := scanMedical(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r *PostgresMedicalRepository) GetRecord(ctx context.Context, recordID string) (*domain.MedicalRecord, error) {
	if recordID == "" {
		return nil, domain.Validationf("record id is required")
	}
	m, err := scanMedical(r.db.QueryRowContext(ctx,
		`SELECT `+medicalColumns+` FROM medical_records WHERE record_id = $1`, recordID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("Medical record with ID %s not found", recordID)
		}
		return nil, fmt.Errorf("failed to query medical record: %w", err)
	}
	return m, nil
}

func (r *PostgresMedicalRepository) CreateRecord(ctx context.Context, record *domain.MedicalRecord) (string, error) {
	recordID := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO medical_records (record_id, animal_id, staff_id, status, record_date, description)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		recordID, record.AnimalID, record.StaffID, record.Status, record.RecordDate, record.Description,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert medical record: %w", err)
	}
	return recordID, nil
}

func (r *PostgresMedicalRepository) UpdateRecord(ctx context.Context, recordID string, record *domain.MedicalRecord) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE medical_records
		 SET animal_id = $1, staff_id = $2, status = $3, record_date = $4, description = $5
		 WHERE record_id = $6`,
		record.AnimalID, record.StaffID, record.Status, record.RecordDate, record.Description, recordID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medical record: %w", err)
	}
	return requireRow(res, "Medical record", recordID)
}

func (r *PostgresMedicalRepository) DeleteRecord(ctx context.Context, recordID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medical_records WHERE record_id = $1`, recordID)
	if err != nil {
		return fmt.Errorf("failed to delete medical record: %w", err)
	}
	return requireRow(res, "Medical record", recordID)
}

func (r *PostgresMedicalRepository) CountByStaff(ctx context.Context, staffID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM medical_records WHERE staff_id = $1`, staffID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count medical records by staff: %w", err)
	}
	return n, nil
}
