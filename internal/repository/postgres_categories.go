package repository

import (
	"context"
	"database/sql"
	"fmt"

	"zooback/internal/domain"

	"github.com/google/uuid"
)

// PostgresCategoriesRepository 类别Repository实现
type PostgresCategoriesRepository struct {
	db *sql.DB
}

func NewPostgresCategoriesRepository(db *sql.DB) *PostgresCategoriesRepository {
	return &PostgresCategoriesRepository{db: db}
}

var _ CategoriesRepository = (*PostgresCategoriesRepository)(nil)

const categoryColumns = `category_id::text, name, description, image_url, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.CategoryID, &c.Name, &c.Description, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresCategoriesRepository) ListCategories(ctx context.Context, filter CategoriesFilter, page, size int) ([]*domain.Category, int, error) {
	where := []string{}
	args := []any{}
	argN := 1

	if filter.Name != "" {
		where = append(where, fmt.Sprintf("name LIKE '%%' || $%d || '%%'", argN))
		args = append(args, filter.Name)
		argN++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + joinAnd(where)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	q := `SELECT ` + categoryColumns + ` FROM categories` + whereClause +
		fmt.Sprintf(` ORDER BY category_id LIMIT $%d OFFSET $%d`, argN, argN+1)
	args = append(args, size, offset(page, size))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	out := []*domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *PostgresCategoriesRepository) GetCategory(ctx context.Context, categoryID string) (*domain.Category, error) {
	if categoryID == "" {
		return nil, domain.Validationf("category id is required")
	}
	c, err := scanCategory(r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE category_id = $1`, categoryID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("Category with ID %s not found", categoryID)
		}
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return c, nil
}

func (r *PostgresCategoriesRepository) CategoryExists(ctx context.Context, categoryID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE category_id = $1)`, categoryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return exists, nil
}

func (r *PostgresCategoriesRepository) NameExists(ctx context.Context, name, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1 AND category_id::text <> $2)`,
		name, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return exists, nil
}

func (r *PostgresCategoriesRepository) CreateCategory(ctx context.Context, category *domain.Category) (string, error) {
	categoryID := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (category_id, name, description, image_url)
		 VALUES ($1, $2, $3, $4)`,
		categoryID, category.Name, category.Description, category.ImageURL,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.Conflictf("Category with name '%s' already exists", category.Name)
		}
		return "", fmt.Errorf("failed to insert category: %w", err)
	}
	return categoryID, nil
}

func (r *PostgresCategoriesRepository) UpdateCategory(ctx context.Context, categoryID string, category *domain.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories
		 SET name = $1, description = $2, image_url = $3, updated_at = now()
		 WHERE category_id = $4`,
		category.Name, category.Description, category.ImageURL, categoryID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("Category with name '%s' already exists", category.Name)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	return requireRow(res, "Category", categoryID)
}

func (r *PostgresCategoriesRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE category_id = $1`, categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireRow(res, "Category", categoryID)
}
