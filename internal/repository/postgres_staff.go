package repository

import (
	"context"
	"database/sql"
	"fmt"

	"zooback/internal/domain"

	"github.com/google/uuid"
)

// PostgresStaffRepository 员工Repository实现
type PostgresStaffRepository struct {
	db *sql.DB
}

func NewPostgresStaffRepository(db *sql.DB) *PostgresStaffRepository {
	return &PostgresStaffRepository{db: db}
}

var _ StaffRepository = (*PostgresStaffRepository)(nil)

const staffColumns = `staff_id::text, account_id::text, hire_date, department, position, salary, created_at, updated_at`

func scanStaff(row interface{ Scan(...any) error }) (*domain.Staff, error) {
	var s domain.Staff
	err := row.Scan(
		&s.StaffID, &s.AccountID, &s.HireDate, &s.Department, &s.Position,
		&s.Salary, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresStaffRepository) ListStaff(ctx context.Context, filter StaffFilter, page, size int) ([]*domain.Staff, int, error) {
	where := []string{}
	args := []any{}
	argN := 1

	if filter.Department != "" {
		where = append(where, fmt.Sprintf("department LIKE '%%' || $%d || '%%'", argN))
		args = append(args, filter.Department)
		argN++
	}
	if filter.Position != "" {
		where = append(where, fmt.Sprintf("position LIKE '%%' || $%d || '%%'", argN))
		args = append(args, filter.Position)
		argN++
	}
	if filter.MinSalary != nil {
		where = append(where, fmt.Sprintf("salary >= $%d", argN))
		args = append(args, *filter.MinSalary)
		argN++
	}
	if filter.MaxSalary != nil {
		where = append(where, fmt.Sprintf("salary <= $%d", argN))
		args = append(args, *filter.MaxSalary)
		argN++
	}
	if filter.HiredAfter != nil {
		where = append(where, fmt.Sprintf("hire_date >= $%d", argN))
		args = append(args, *filter.HiredAfter)
		argN++
	}
	if filter.HiredBefore != nil {
		where = append(where, fmt.Sprintf("hire_date <= $%d", argN))
		args = append(args, *filter.HiredBefore)
		argN++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + joinAnd(where)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count staff: %w", err)
	}

	q := `SELECT ` + staffColumns + ` FROM staff` + whereClause +
		fmt.Sprintf(` ORDER BY staff_id LIMIT $%d OFFSET $%d`, argN, argN+1)
	args = append(args, size, offset(page, size))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	out := []*domain.Staff{}
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *PostgresStaffRepository) GetStaff(ctx context.Context, staffID string) (*domain.Staff, error) {
	if staffID == "" {
		return nil, domain.Validationf("staff id is required")
	}
	s, err := scanStaff(r.db.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE staff_id = $1`, staffID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("Staff with ID %s not found", staffID)
		}
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	return s, nil
}

func (r *PostgresStaffRepository) GetStaffByAccount(ctx context.Context, accountID string) (*domain.Staff, error) {
	s, err := scanStaff(r.db.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE account_id = $1`, accountID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("Staff for account %s not found", accountID)
		}
		return nil, fmt.Errorf("failed to query staff by account: %w", err)
	}
	return s, nil
}

func (r *PostgresStaffRepository) StaffExists(ctx context.Context, staffID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM staff WHERE staff_id = $1)`, staffID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check staff: %w", err)
	}
	return exists, nil
}

func (r *PostgresStaffRepository) AccountHasStaff(ctx context.Context, accountID, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM staff WHERE account_id = $1 AND staff_id::text <> $2)`,
		accountID, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check staff account: %w", err)
	}
	return exists, nil
}

func (r *PostgresStaffRepository) CreateStaff(ctx context.Context, staff *domain.Staff) (string, error) {
	staffID := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO staff (staff_id, account_id, hire_date, department, position, salary)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		staffID, staff.AccountID, staff.HireDate, staff.Department, staff.Position, staff.Salary,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.Conflictf("Account already has a staff profile")
		}
		return "", fmt.Errorf("failed to insert staff: %w", err)
	}
	return staffID, nil
}

func (r *PostgresStaffRepository) UpdateStaff(ctx context.Context, staffID string, staff *domain.Staff) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE staff
		 SET account_id = $1, hire_date = $2, department = $3, position = $4, salary = $5, updated_at = now()
		 WHERE staff_id = $6`,
		staff.AccountID, staff.HireDate, staff.Department, staff.Position, staff.Salary, staffID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("Account already has a staff profile")
		}
		return fmt.Errorf("failed to update staff: %w", err)
	}
	return requireRow(res, "Staff", staffID)
}

func (r *PostgresStaffRepository) DeleteStaff(ctx context.Context, staffID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE staff_id = $1`, staffID)
	if err != nil {
		return fmt.Errorf("failed to delete staff: %w", err)
	}
	return requireRow(res, "Staff", staffID)
}
