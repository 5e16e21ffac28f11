package repository

import (
	"context"
	"database/sql"
	"fmt"

	"zooback/internal/domain"
)

// PostgresRolesRepository 角色Repository实现
type PostgresRolesRepository struct {
	db *sql.DB
}

func NewPostgresRolesRepository(db *sql.DB) *PostgresRolesRepository {
	return &PostgresRolesRepository{db: db}
}

var _ RolesRepository = (*PostgresRolesRepository)(nil)

func (r *PostgresRolesRepository) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	q := `
		SELECT role_id::text, name, description, created_at
		FROM roles
		ORDER BY role_id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	out := []*domain.Role{}
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.RoleID, &role.Name, &role.Description, &role.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &role)
	}
	return out, rows.Err()
}

func (r *PostgresRolesRepository) GetRole(ctx context.Context, roleID string) (*domain.Role, error) {
	if roleID == "" {
		return nil, domain.Validationf("role id is required")
	}

	q := `
		SELECT role_id::text, name, description, created_at
		FROM roles
		WHERE role_id = $1
	`
	var role domain.Role
	err := r.db.QueryRowContext(ctx, q, roleID).Scan(&role.RoleID, &role.Name, &role.Description, &role.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("Role with ID %s not found", roleID)
		}
		return nil, fmt.Errorf("failed to query role: %w", err)
	}
	return &role, nil
}

func (r *PostgresRolesRepository) GetRoleByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	q := `
		SELECT role_id::text, name, description, created_at
		FROM roles
		WHERE name = $1
	`
	var role domain.Role
	err := r.db.QueryRowContext(ctx, q, string(name)).Scan(&role.RoleID, &role.Name, &role.Description, &role.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("Role %q not found", name)
		}
		return nil, fmt.Errorf("failed to query role by name: %w", err)
	}
	return &role, nil
}
