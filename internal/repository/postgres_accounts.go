package repository

import (
	"context"
	"database/sql"
	"fmt"

	"zooback/internal/domain"

	"github.com/google/uuid"
)

// PostgresAccountsRepository 账号Repository实现
// 创建账号时在同一事务内写入 accounts + account_details + account_roles
type PostgresAccountsRepository struct {
	db *sql.DB
}

func NewPostgresAccountsRepository(db *sql.DB) *PostgresAccountsRepository {
	return &PostgresAccountsRepository{db: db}
}

var _ AccountsRepository = (*PostgresAccountsRepository)(nil)

const accountColumns = `
	a.account_id::text,
	a.username,
	a.email,
	a.password_hash,
	a.current_role_id::text,
	r.name,
	a.last_login_at,
	a.created_at,
	a.updated_at
`

func scanAccount(row interface{ Scan(...any) error }) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.CurrentRoleID,
		&a.CurrentRole,
		&a.LastLoginAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresAccountsRepository) CreateAccount(ctx context.Context, account *domain.Account, details *domain.AccountDetails) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	accountID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO accounts (account_id, username, email, password_hash, current_role_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		accountID, account.Username, account.Email, account.PasswordHash, account.CurrentRoleID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.Conflictf("Username or email already exists")
		}
		return "", fmt.Errorf("failed to insert account: %w", err)
	}

	if details == nil {
		details = &domain.AccountDetails{}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO account_details (account_id, first_name, last_name, birth_date, gender, phone, home_address, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		accountID, details.FirstName, details.LastName, details.BirthDate,
		details.Gender, details.Phone, details.HomeAddress, details.ImageURL,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert account details: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO account_roles (account_id, role_id) VALUES ($1, $2)`,
		accountID, account.CurrentRoleID,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert role grant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit account create: %w", err)
	}
	return accountID, nil
}

func (r *PostgresAccountsRepository) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	if accountID == "" {
		return nil, domain.Validationf("account id is required")
	}

	q := `SELECT ` + accountColumns + `
		FROM accounts a
		JOIN roles r ON r.role_id = a.current_role_id
		WHERE a.account_id = $1`
	account, err := scanAccount(r.db.QueryRowContext(ctx, q, accountID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("User with ID %s not found", accountID)
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return account, nil
}

func (r *PostgresAccountsRepository) FindByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*domain.Account, error) {
	q := `SELECT ` + accountColumns + `
		FROM accounts a
		JOIN roles r ON r.role_id = a.current_role_id
		WHERE a.username = $1 OR a.email = $1`
	account, err := scanAccount(r.db.QueryRowContext(ctx, q, usernameOrEmail))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("User %q not found", usernameOrEmail)
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return account, nil
}

func (r *PostgresAccountsRepository) ListAccounts(ctx context.Context, filter AccountsFilter, page, size int) ([]*domain.Account, int, error) {
	where := []string{}
	args := []any{}
	argN := 1

	if filter.Username != "" {
		where = append(where, fmt.Sprintf("a.username LIKE '%%' || $%d || '%%'", argN))
		args = append(args, filter.Username)
		argN++
	}
	if filter.Email != "" {
		where = append(where, fmt.Sprintf("a.email LIKE '%%' || $%d || '%%'", argN))
		args = append(args, filter.Email)
		argN++
	}
	if filter.RoleID != "" {
		where = append(where, fmt.Sprintf("a.current_role_id = $%d", argN))
		args = append(args, filter.RoleID)
		argN++
	}
	if filter.RoleName != "" {
		where = append(where, fmt.Sprintf("r.name LIKE '%%' || $%d || '%%'", argN))
		args = append(args, filter.RoleName)
		argN++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + joinAnd(where)
	}
	fromClause := ` FROM accounts a JOIN roles r ON r.role_id = a.current_role_id` + whereClause

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+fromClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	q := `SELECT ` + accountColumns + fromClause +
		fmt.Sprintf(` ORDER BY a.account_id LIMIT $%d OFFSET $%d`, argN, argN+1)
	args = append(args, size, offset(page, size))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	out := []*domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, account)
	}
	return out, total, rows.Err()
}

func (r *PostgresAccountsRepository) UsernameExists(ctx context.Context, username, excludeID string) (bool, error) {
	return r.columnExists(ctx, "username", username, excludeID)
}

func (r *PostgresAccountsRepository) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	return r.columnExists(ctx, "email", email, excludeID)
}

func (r *PostgresAccountsRepository) columnExists(ctx context.Context, column, value, excludeID string) (bool, error) {
	q := `SELECT EXISTS (SELECT 1 FROM accounts WHERE ` + column + ` = $1 AND account_id::text <> $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, value, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", column, err)
	}
	return exists, nil
}

func (r *PostgresAccountsRepository) UpdateAccount(ctx context.Context, accountID string, username, email *string) error {
	set := []string{"updated_at = now()"}
	args := []any{}
	argN := 1

	if username != nil {
		set = append(set, fmt.Sprintf("username = $%d", argN))
		args = append(args, *username)
		argN++
	}
	if email != nil {
		set = append(set, fmt.Sprintf("email = $%d", argN))
		args = append(args, *email)
		argN++
	}

	args = append(args, accountID)
	q := fmt.Sprintf(`UPDATE accounts SET %s WHERE account_id = $%d`, joinComma(set), argN)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("Username or email already exists")
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	return requireRow(res, "User", accountID)
}

func (r *PostgresAccountsRepository) UpdatePassword(ctx context.Context, accountID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = $1, updated_at = now() WHERE account_id = $2`,
		passwordHash, accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireRow(res, "User", accountID)
}

func (r *PostgresAccountsRepository) UpdateLastLogin(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET last_login_at = now() WHERE account_id = $1`, accountID)
	return err
}

func (r *PostgresAccountsRepository) DeleteAccount(ctx context.Context, accountID string) error {
	// account_details 和 account_roles 由外键级联删除
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE account_id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return requireRow(res, "User", accountID)
}

func (r *PostgresAccountsRepository) GetDetails(ctx context.Context, accountID string) (*domain.AccountDetails, error) {
	q := `
		SELECT account_id::text, first_name, last_name, birth_date, gender,
		       phone, home_address, image_url, created_at, updated_at
		FROM account_details
		WHERE account_id = $1
	`
	var d domain.AccountDetails
	err := r.db.QueryRowContext(ctx, q, accountID).Scan(
		&d.AccountID, &d.FirstName, &d.LastName, &d.BirthDate, &d.Gender,
		&d.Phone, &d.HomeAddress, &d.ImageURL, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NotFoundf("Details for user %s not found", accountID)
		}
		return nil, fmt.Errorf("failed to query account details: %w", err)
	}
	return &d, nil
}

func (r *PostgresAccountsRepository) UpdateDetails(ctx context.Context, details *domain.AccountDetails) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE account_details
		 SET first_name = $1, last_name = $2, birth_date = $3, gender = $4,
		     phone = $5, home_address = $6, image_url = $7, updated_at = now()
		 WHERE account_id = $8`,
		details.FirstName, details.LastName, details.BirthDate, details.Gender,
		details.Phone, details.HomeAddress, details.ImageURL, details.AccountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account details: %w", err)
	}
	return requireRow(res, "Details for user", details.AccountID)
}

func (r *PostgresAccountsRepository) ListGrantedRoles(ctx context.Context, accountID string) ([]*domain.Role, error) {
	q := `
		SELECT r.role_id::text, r.name, r.description, r.created_at
		FROM account_roles ar
		JOIN roles r ON r.role_id = ar.role_id
		WHERE ar.account_id = $1
		ORDER BY r.role_id
	`
	rows, err := r.db.QueryContext(ctx, q, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query granted roles: %w", err)
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

func (r *PostgresAccountsRepository) HasGrantedRole(ctx context.Context, accountID, roleID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM account_roles WHERE account_id = $1 AND role_id = $2)`,
		accountID, roleID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check role grant: %w", err)
	}
	return exists, nil
}

func (r *PostgresAccountsRepository) GrantRole(ctx context.Context, accountID, roleID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO account_roles (account_id, role_id) VALUES ($1, $2)`,
		accountID, roleID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("User already has this role")
		}
		return fmt.Errorf("failed to grant role: %w", err)
	}
	return nil
}

func (r *PostgresAccountsRepository) RevokeRole(ctx context.Context, accountID, roleID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM account_roles WHERE account_id = $1 AND role_id = $2`,
		accountID, roleID,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.NotFoundf("User role assignment not found")
	}
	return nil
}

func (r *PostgresAccountsRepository) SetCurrentRole(ctx context.Context, accountID, roleID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET current_role_id = $1, updated_at = now() WHERE account_id = $2`,
		roleID, accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to set current role: %w", err)
	}
	return requireRow(res, "User", accountID)
}
