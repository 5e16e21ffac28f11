package repository

import (
	"context"
	"database/sql"
	"fmt"

	"zooback/internal/domain"

	"github.com/google/uuid"
)

// PostgresFeedingRepository 喂食计划Repository实现
type PostgresFeedingRepository struct {
	db *sql.DB
}

func NewPostgresFeedingRepository(db *sql.DB) *PostgresFeedingRepository {
	return &PostgresFeedingRepository{db: db}
}

var _ FeedingRepository = (*PostgresFeedingRepository)(nil)

const feedingColumns = `feeding_id::text, animal_id::text, staff_id::text, food_type,
	quantity_kg, feeding_time, status, notes, created_at, updated_at`

func scanFeeding(row interface{ Scan(...any) error }) (*domain.FeedingSchedule, error) {
	var f domain.FeedingSchedule
	err := row.Scan(
		&f.FeedingID, &f.AnimalID, &f.StaffID, &f.FoodType, &f.QuantityKg,
		&f.FeedingTime, &f.Status, &f.Notes, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PostgresFeedingRepository) ListSchedules(ctx context.Context, filter FeedingFilter, page, size int) ([]*domain.FeedingSchedule, int, error) {
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
		where = append(where, fmt.Sprintf("feeding_time >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		where = append(where, fmt.Sprintf("feeding_time <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + joinAnd(where)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feeding_schedules`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count feeding schedules: %w", err)
	}

	q := `SELECT ` + feedingColumns + ` FROM feeding_schedules` + whereClause +
		fmt.Sprintf(` ORDER BY feeding_time, feeding_id LIMIT $%d OFFSET $%d`, argN, argN+1)
	args = append(args, size, offset(page, size))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query feeding schedules: %w", err)
	}
	defer rows.Close()

	out := []*domain.FeedingSchedule{}
	for rows.Next() {
		f, err := scanFeeding(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, f)
	}
	return out, total, rows.Err()
}

func (r *PostgresFeedingRepository) GetSchedule(ctx context.Context, feedingID string) (*domain.FeedingSchedule, error) {
	if feedingID == "" {
		return nil, domain.Validationf("feeding id is required")
	}
	f, err := scanFeeding(r.db.QueryRowContext(ctx,
		`SELECT `+feedingColumns+` FROM feeding_schedules WHERE feeding_id = $1`, feedingID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("Feeding schedule with ID %s not found", feedingID)
		}
		return nil, fmt.Errorf("failed to query feeding schedule: %w", err)
	}
	return f, nil
}

func (r *PostgresFeedingRepository) CreateSchedule(ctx context.Context, schedule *domain.FeedingSchedule) (string, error) {
	feedingID := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feeding_schedules (feeding_id, animal_id, staff_id, food_type,
		                                quantity_kg, feeding_time, status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		feedingID, schedule.AnimalID, schedule.StaffID, schedule.FoodType,
		schedule.QuantityKg, schedule.FeedingTime, schedule.Status, schedule.Notes,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert feeding schedule: %w", err)
	}
	return feedingID, nil
}

func (r *PostgresFeedingRepository) UpdateSchedule(ctx context.Context, feedingID string, schedule *domain.FeedingSchedule) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE feeding_schedules
		 SET animal_id = $1, staff_id = $2, food_type = $3, quantity_kg = $4,
		     feeding_time = $5, status = $6, notes = $7, updated_at = now()
		 WHERE feeding_id = $8`,
		schedule.AnimalID, schedule.StaffID, schedule.FoodType, schedule.QuantityKg,
		schedule.FeedingTime, schedule.Status, schedule.Notes, feedingID,
	)
	if err != nil {
		return fmt.Errorf("failed to update feeding schedule: %w", err)
	}
	return requireRow(res, "Feeding schedule", feedingID)
}

func (r *PostgresFeedingRepository) DeleteSchedule(ctx context.Context, feedingID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM feeding_schedules WHERE feeding_id = $1`, feedingID)
	if err != nil {
		return fmt.Errorf("failed to delete feeding schedule: %w", err)
	}
	return requireRow(res, "Feeding schedule", feedingID)
}

func (r *PostgresFeedingRepository) CountByStaff(ctx context.Context, staffID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM feeding_schedules WHERE staff_id = $1`, staffID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count feeding schedules by staff: %w", err)
	}
	return n, nil
}
