package repository

import (
	"context"
	"database/sql"
	"fmt"

	"zooback/internal/domain"
)

// PostgresAssignmentsRepository 员工-动物分配Repository实现
type PostgresAssignmentsRepository struct {
	db *sql.DB
}

func NewPostgresAssignmentsRepository(db *sql.DB) *PostgresAssignmentsRepository {
	return &PostgresAssignmentsRepository{db: db}
}

var _ AssignmentsRepository = (*PostgresAssignmentsRepository)(nil)

const assignmentColumns = `staff_id::text, animal_id::text, observations, created_at`

func scanAssignment(row interface{ Scan(...any) error }) (*domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(&a.StaffID, &a.AnimalID, &a.Observations, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresAssignmentsRepository) ListAssignments(ctx context.Context, filter AssignmentsFilter, page, size int) ([]*domain.Assignment, int, error) {
	where := []string{}
	args := []any{}
	argN := 1

	if filter.StaffID != "" {
		where = append(where, fmt.Sprintf("staff_id = $%d", argN))
		args = append(args, filter.StaffID)
		argN++
	}
	if filter.AnimalID != "" {
		where = append(where, fmt.Sprintf("animal_id = $%d", argN))
		args = append(args, filter.AnimalID)
		argN++
	}
	if filter.CreatedFrom != nil {
		where = append(where, fmt.Sprintf("created_at >= $%d", argN))
		args = append(args, *filter.CreatedFrom)
		argN++
	}
	if filter.CreatedTo != nil {
		where = append(where, fmt.Sprintf("created_at <= $%d", argN))
		args = append(args, *filter.CreatedTo)
		argN++
	}
	if filter.WithObservations {
		where = append(where, "observations <> ''")
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + joinAnd(where)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff_animal_assignments`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	q := `SELECT ` + assignmentColumns + ` FROM staff_animal_assignments` + whereClause +
		fmt.Sprintf(` ORDER BY staff_id, animal_id LIMIT $%d OFFSET $%d`, argN, argN+1)
	args = append(args, size, offset(page, size))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	out := []*domain.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *PostgresAssignmentsRepository) GetAssignment(ctx context.Context, staffID, animalID string) (*domain.Assignment, error) {
	if staffID == "" || animalID == "" {
		return nil, domain.Validationf("staff id and animal id are required")
	}
	a, err := scanAssignment(r.db.QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM staff_animal_assignments
		 WHERE staff_id = $1 AND animal_id = $2`, staffID, animalID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("Assignment for staff %s and animal %s not found", staffID, animalID)
		}
		return nil, fmt.Errorf("failed to query assignment: %w", err)
	}
	return a, nil
}

func (r *PostgresAssignmentsRepository) AssignmentExists(ctx context.Context, staffID, animalID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM staff_animal_assignments WHERE staff_id = $1 AND animal_id = $2
		 )`, staffID, animalID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return exists, nil
}

func (r *PostgresAssignmentsRepository) CreateAssignment(ctx context.Context, assignment *domain.Assignment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO staff_animal_assignments (staff_id, animal_id, observations)
		 VALUES ($1, $2, $3)`,
		assignment.StaffID, assignment.AnimalID, assignment.Observations,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("Assignment already exists")
		}
		return fmt.Errorf("failed to insert assignment: %w", err)
	}
	return nil
}

func (r *PostgresAssignmentsRepository) UpdateObservations(ctx context.Context, staffID, animalID, observations string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE staff_animal_assignments SET observations = $1
		 WHERE staff_id = $2 AND animal_id = $3`,
		observations, staffID, animalID,
	)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	return requireRow(res, "Assignment", staffID+"/"+animalID)
}

func (r *PostgresAssignmentsRepository) DeleteAssignment(ctx context.Context, staffID, animalID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM staff_animal_assignments WHERE staff_id = $1 AND animal_id = $2`,
		staffID, animalID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	return requireRow(res, "Assignment", staffID+"/"+animalID)
}

func (r *PostgresAssignmentsRepository) CountByStaff(ctx context.Context, staffID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM staff_animal_assignments WHERE staff_id = $1`, staffID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count assignments by staff: %w", err)
	}
	return n, nil
}
