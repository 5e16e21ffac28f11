package repository

import (
	"context"
	"database/sql"
	"fmt"

	"zooback/internal/domain"

	"github.com/google/uuid"
)

// PostgresAnimalsRepository 动物Repository实现
type PostgresAnimalsRepository struct {
	db *sql.DB
}

func NewPostgresAnimalsRepository(db *sql.DB) *PostgresAnimalsRepository {
	return &PostgresAnimalsRepository{db: db}
}

var _ AnimalsRepository = (*PostgresAnimalsRepository)(nil)

const animalColumns = `animal_id::text, name, species, image_url, date_of_birth, gender,
	arrival_date, category_id::text, enclosure_id::text, created_at, updated_at`

func scanAnimal(row interface{ Scan(...any) error }) (*domain.Animal, error) {
	var a domain.Animal
	err := row.Scan(
		&a.AnimalID, &a.Name, &a.Species, &a.ImageURL, &a.DateOfBirth, &a.Gender,
		&a.ArrivalDate, &a.CategoryID, &a.EnclosureID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresAnimalsRepository) ListAnimals(ctx context.Context, filter AnimalsFilter, page, size int) ([]*domain.Animal, int, error) {
	where := []string{}
	args := []any{}
	argN := 1

	if filter.Name != "" {
		where = append(where, fmt.Sprintf("name LIKE '%%' || $%d || '%%'", argN))
		args = append(args, filter.Name)
		argN++
	}
	if filter.Species != "" {
		where = append(where, fmt.Sprintf("species LIKE '%%' || $%d || '%%'", argN))
		args = append(args, filter.Species)
		argN++
	}
	if filter.Gender != "" {
		where = append(where, fmt.Sprintf("gender = $%d", argN))
		args = append(args, filter.Gender)
		argN++
	}
	if filter.CategoryID != "" {
		where = append(where, fmt.Sprintf("category_id = $%d", argN))
		args = append(args, filter.CategoryID)
		argN++
	}
	if filter.EnclosureID != "" {
		where = append(where, fmt.Sprintf("enclosure_id = $%d", argN))
		args = append(args, filter.EnclosureID)
		argN++
	}
	if filter.ArrivalFrom != nil {
		where = append(where, fmt.Sprintf("arrival_date >= $%d", argN))
		args = append(args, *filter.ArrivalFrom)
		argN++
	}
	if filter.ArrivalTo != nil {
		where = append(where, fmt.Sprintf("arrival_date <= $%d", argN))
		args = append(args, *filter.ArrivalTo)
		argN++
	}
	// 年龄按出生年份粗粒度换算，与 domain.Animal.Age 口径一致
	if filter.MinAge != nil {
		where = append(where, fmt.Sprintf("date_of_birth IS NOT NULL AND date_part('year', CURRENT_DATE) - date_part('year', date_of_birth) >= $%d", argN))
		args = append(args, *filter.MinAge)
		argN++
	}
	if filter.MaxAge != nil {
		where = append(where, fmt.Sprintf("date_of_birth IS NOT NULL AND date_part('year', CURRENT_DATE) - date_part('year', date_of_birth) <= $%d", argN))
		args = append(args, *filter.MaxAge)
		argN++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + joinAnd(where)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM animals`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count animals: %w", err)
	}

	q := `SELECT ` + animalColumns + ` FROM animals` + whereClause +
		fmt.Sprintf(` ORDER BY animal_id LIMIT $%d OFFSET $%d`, argN, argN+1)
	args = append(args, size, offset(page, size))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query animals: %w", err)
	}
	defer rows.Close()

	out := []*domain.Animal{}
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *PostgresAnimalsRepository) GetAnimal(ctx context.Context, animalID string) (*domain.Animal, error) {
	if animalID == "" {
		return nil, domain.Validationf("animal id is required")
	}
	a, err := scanAnimal(r.db.QueryRowContext(ctx,
		`SELECT `+animalColumns+` FROM animals WHERE animal_id = $1`, animalID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("Animal with ID %s not found", animalID)
		}
		return nil, fmt.Errorf("failed to query animal: %w", err)
	}
	return a, nil
}

func (r *PostgresAnimalsRepository) AnimalExists(ctx context.Context, animalID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM animals WHERE animal_id = $1)`, animalID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check animal: %w", err)
	}
	return exists, nil
}

func (r *PostgresAnimalsRepository) TripleExists(ctx context.Context, name, species, categoryID, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM animals
		   WHERE name = $1 AND species = $2 AND category_id = $3 AND animal_id::text <> $4
		 )`,
		name, species, categoryID, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check animal uniqueness: %w", err)
	}
	return exists, nil
}

func (r *PostgresAnimalsRepository) CreateAnimal(ctx context.Context, animal *domain.Animal) (string, error) {
	animalID := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO animals (animal_id, name, species, image_url, date_of_birth, gender,
		                      arrival_date, category_id, enclosure_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		animalID, animal.Name, animal.Species, animal.ImageURL, animal.DateOfBirth,
		animal.Gender, animal.ArrivalDate, animal.CategoryID, animal.EnclosureID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.Conflictf("Animal '%s' (%s) already exists in this category", animal.Name, animal.Species)
		}
		return "", fmt.Errorf("failed to insert animal: %w", err)
	}
	return animalID, nil
}

func (r *PostgresAnimalsRepository) UpdateAnimal(ctx context.Context, animalID string, animal *domain.Animal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE animals
		 SET name = $1, species = $2, image_url = $3, date_of_birth = $4, gender = $5,
		     arrival_date = $6, category_id = $7, enclosure_id = $8, updated_at = now()
		 WHERE animal_id = $9`,
		animal.Name, animal.Species, animal.ImageURL, animal.DateOfBirth, animal.Gender,
		animal.ArrivalDate, animal.CategoryID, animal.EnclosureID, animalID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("Animal '%s' (%s) already exists in this category", animal.Name, animal.Species)
		}
		return fmt.Errorf("failed to update animal: %w", err)
	}
	return requireRow(res, "Animal", animalID)
}

func (r *PostgresAnimalsRepository) DeleteAnimal(ctx context.Context, animalID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE animal_id = $1`, animalID)
	if err != nil {
		return fmt.Errorf("failed to delete animal: %w", err)
	}
	return requireRow(res, "Animal", animalID)
}

func (r *PostgresAnimalsRepository) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM animals WHERE category_id = $1`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count animals by category: %w", err)
	}
	return n, nil
}

func (r *PostgresAnimalsRepository) CountByEnclosure(ctx context.Context, enclosureID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM animals WHERE enclosure_id = $1`, enclosureID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count animals by enclosure: %w", err)
	}
	return n, nil
}
