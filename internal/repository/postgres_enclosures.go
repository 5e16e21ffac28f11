package repository

import (
	"context"
	"database/sql"
	"fmt"

	"zooback/internal/domain"

	"github.com/google/uuid"
)

// PostgresEnclosuresRepository 围栏Repository实现
type PostgresEnclosuresRepository struct {
	db *sql.DB
}

func NewPostgresEnclosuresRepository(db *sql.DB) *PostgresEnclosuresRepository {
	return &PostgresEnclosuresRepository{db: db}
}

var _ EnclosuresRepository = (*PostgresEnclosuresRepository)(nil)

const enclosureColumns = `enclosure_id::text, name, type, capacity, location, created_at, updated_at`

func scanEnclosure(row interface{ Scan(...any) error }) (*domain.Enclosure, error) {
	var e domain.Enclosure
	err := row.Scan(&e.EnclosureID, &e.Name, &e.Type, &e.Capacity, &e.Location, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PostgresEnclosuresRepository) ListEnclosures(ctx context.Context, filter EnclosuresFilter, page, size int) ([]*domain.Enclosure, int, error) {
	where := []string{}
	args := []any{}
	argN := 1

	if filter.Name != "" {
		where = append(where, fmt.Sprintf("name LIKE '%%' || $%d || '%%'", argN))
		args = append(args, filter.Name)
		argN++
	}
	if filter.Type != "" {
		where = append(where, fmt.Sprintf("type = $%d", argN))
		args = append(args, filter.Type)
		argN++
	}
	if filter.Location != "" {
		where = append(where, fmt.Sprintf("location LIKE '%%' || $%d || '%%'", argN))
		args = append(args, filter.Location)
		argN++
	}
	if filter.MinCapacity != nil {
		where = append(where, fmt.Sprintf("capacity >= $%d", argN))
		args = append(args, *filter.MinCapacity)
		argN++
	}
	if filter.MaxCapacity != nil {
		where = append(where, fmt.Sprintf("capacity <= $%d", argN))
		args = append(args, *filter.MaxCapacity)
		argN++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + joinAnd(where)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM enclosures`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count enclosures: %w", err)
	}

	q := `SELECT ` + enclosureColumns + ` FROM enclosures` + whereClause +
		fmt.Sprintf(` ORDER BY enclosure_id LIMIT $%d OFFSET $%d`, argN, argN+1)
	args = append(args, size, offset(page, size))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query enclosures: %w", err)
	}
	defer rows.Close()

	out := []*domain.Enclosure{}
	for rows.Next() {
		e, err := scanEnclosure(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (r *PostgresEnclosuresRepository) GetEnclosure(ctx context.Context, enclosureID string) (*domain.Enclosure, error) {
	if enclosureID == "" {
		return nil, domain.Validationf("enclosure id is required")
	}
	e, err := scanEnclosure(r.db.QueryRowContext(ctx,
		`SELECT `+enclosureColumns+` FROM enclosures WHERE enclosure_id = $1`, enclosureID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("Enclosure with ID %s not found", enclosureID)
		}
		return nil, fmt.Errorf("failed to query enclosure: %w", err)
	}
	return e, nil
}

func (r *PostgresEnclosuresRepository) EnclosureExists(ctx context.Context, enclosureID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM enclosures WHERE enclosure_id = $1)`, enclosureID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check enclosure: %w", err)
	}
	return exists, nil
}

func (r *PostgresEnclosuresRepository) NameExists(ctx context.Context, name, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM enclosures WHERE name = $1 AND enclosure_id::text <> $2)`,
		name, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check enclosure name: %w", err)
	}
	return exists, nil
}

func (r *PostgresEnclosuresRepository) CreateEnclosure(ctx context.Context, enclosure *domain.Enclosure) (string, error) {
	enclosureID := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO enclosures (enclosure_id, name, type, capacity, location)
		 VALUES ($1, $2, $3, $4, $5)`,
		enclosureID, enclosure.Name, enclosure.Type, enclosure.Capacity, enclosure.Location,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.Conflictf("Enclosure with name '%s' already exists", enclosure.Name)
		}
		return "", fmt.Errorf("failed to insert enclosure: %w", err)
	}
	return enclosureID, nil
}

func (r *PostgresEnclosuresRepository) UpdateEnclosure(ctx context.Context, enclosureID string, enclosure *domain.Enclosure) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE enclosures
		 SET name = $1, type = $2, capacity = $3, location = $4, updated_at = now()
		 WHERE enclosure_id = $5`,
		enclosure.Name, enclosure.Type, enclosure.Capacity, enclosure.Location, enclosureID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("Enclosure with name '%s' already exists", enclosure.Name)
		}
		return fmt.Errorf("failed to update enclosure: %w", err)
	}
	return requireRow(res, "Enclosure", enclosureID)
}

func (r *PostgresEnclosuresRepository) DeleteEnclosure(ctx context.Context, enclosureID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM enclosures WHERE enclosure_id = $1`, enclosureID)
	if err != nil {
		return fmt.Errorf("failed to delete enclosure: %w", err)
	}
	return requireRow(res, "Enclosure", enclosureID)
}
