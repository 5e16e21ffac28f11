package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"zooback/internal/domain"

	"github.com/google/uuid"
)

// MemoryAccountsRepository supports account management when DB is disabled.
// 角色名解析依赖注入的 RolesRepository（与 Postgres JOIN 对应）
type MemoryAccountsRepository struct {
	mu       sync.RWMutex
	roles    RolesRepository
	accounts map[string]domain.Account        // accountID -> Account
	details  map[string]domain.AccountDetails // accountID -> AccountDetails
	grants   map[string]map[string]time.Time  // accountID -> roleID -> assigned_at
}

func NewMemoryAccountsRepository(roles RolesRepository) *MemoryAccountsRepository {
	return &MemoryAccountsRepository{
		roles:    roles,
		accounts: map[string]domain.Account{},
		details:  map[string]domain.AccountDetails{},
		grants:   map[string]map[string]time.Time{},
	}
}

var _ AccountsRepository = (*MemoryAccountsRepository)(nil)

func (r *MemoryAccountsRepository) roleName(ctx context.Context, roleID string) domain.RoleName {
	role, err := r.roles.GetRole(ctx, roleID)
	if err != nil {
		return ""
	}
	return role.Name
}

func (r *MemoryAccountsRepository) CreateAccount(ctx context.Context, account *domain.Account, details *domain.AccountDetails) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Username == account.Username || a.Email == account.Email {
			return "", domain.Conflictf("Username or email already exists")
		}
	}

	id := uuid.NewString()
	now := time.Now()

	a := *account
	a.AccountID = id
	a.CurrentRole = r.roleName(ctx, a.CurrentRoleID)
	a.CreatedAt = now
	a.UpdatedAt = now
	r.accounts[id] = a

	d := domain.AccountDetails{AccountID: id, CreatedAt: now, UpdatedAt: now}
	if details != nil {
		d = *details
		d.AccountID = id
		d.CreatedAt = now
		d.UpdatedAt = now
	}
	r.details[id] = d

	r.grants[id] = map[string]time.Time{account.CurrentRoleID: now}
	return id, nil
}

func (r *MemoryAccountsRepository) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[accountID]
	if !ok {
		return nil, domain.NotFoundf("User with ID %s not found", accountID)
	}
	a.CurrentRole = r.roleName(ctx, a.CurrentRoleID)
	return &a, nil
}

func (r *MemoryAccountsRepository) FindByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Username == usernameOrEmail || a.Email == usernameOrEmail {
			a.CurrentRole = r.roleName(ctx, a.CurrentRoleID)
			return &a, nil
		}
	}
	return nil, domain.NotFoundf("Account %s not found", usernameOrEmail)
}

func (r *MemoryAccountsRepository) ListAccounts(ctx context.Context, filter AccountsFilter, page, size int) ([]*domain.Account, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.Account{}
	for _, a := range r.accounts {
		a := a
		a.CurrentRole = r.roleName(ctx, a.CurrentRoleID)
		if !matches(a.Username, filter.Username) {
			continue
		}
		if !matches(a.Email, filter.Email) {
			continue
		}
		if filter.RoleID != "" && a.CurrentRoleID != filter.RoleID {
			continue
		}
		if !matches(string(a.CurrentRole), filter.RoleName) {
			continue
		}
		all = append(all, &a)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].AccountID < all[j].AccountID
	})
	return paginate(all, page, size), len(all), nil
}

func (r *MemoryAccountsRepository) UsernameExists(_ context.Context, username, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, a := range r.accounts {
		if a.Username == username && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryAccountsRepository) EmailExists(_ context.Context, email, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, a := range r.accounts {
		if a.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryAccountsRepository) UpdateAccount(_ context.Context, accountID string, username, email *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[accountID]
	if !ok {
		return domain.NotFoundf("User with ID %s not found", accountID)
	}
	if username != nil {
		a.Username = *username
	}
	if email != nil {
		a.Email = *email
	}
	a.UpdatedAt = time.Now()
	r.accounts[accountID] = a
	return nil
}

func (r *MemoryAccountsRepository) UpdatePassword(_ context.Context, accountID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[accountID]
	if !ok {
		return domain.NotFoundf("User with ID %s not found", accountID)
	}
	a.PasswordHash = passwordHash
	a.UpdatedAt = time.Now()
	r.accounts[accountID] = a
	return nil
}

func (r *MemoryAccountsRepository) UpdateLastLogin(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[accountID]
	if !ok {
		return domain.NotFoundf("User with ID %s not found", accountID)
	}
	a.LastLoginAt = sql.NullTime{Time: time.Now(), Valid: true}
	r.accounts[accountID] = a
	return nil
}

func (r *MemoryAccountsRepository) DeleteAccount(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[accountID]; !ok {
		return domain.NotFoundf("User with ID %s not found", accountID)
	}
	delete(r.accounts, accountID)
	delete(r.details, accountID)
	delete(r.grants, accountID)
	return nil
}

func (r *MemoryAccountsRepository) GetDetails(_ context.Context, accountID string) (*domain.AccountDetails, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.details[accountID]
	if !ok {
		return nil, domain.NotFoundf("User with ID %s not found", accountID)
	}
	return &d, nil
}

func (r *MemoryAccountsRepository) UpdateDetails(_ context.Context, details *domain.AccountDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.details[details.AccountID]
	if !ok {
		return domain.NotFoundf("User with ID %s not found", details.AccountID)
	}
	created := d.CreatedAt
	d = *details
	d.CreatedAt = created
	d.UpdatedAt = time.Now()
	r.details[details.AccountID] = d
	return nil
}

func (r *MemoryAccountsRepository) ListGrantedRoles(ctx context.Context, accountID string) ([]*domain.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Role{}
	for roleID := range r.grants[accountID] {
		role, err := r.roles.GetRole(ctx, roleID)
		if err != nil {
			continue
		}
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name.Rank() < out[j].Name.Rank()
	})
	return out, nil
}

func (r *MemoryAccountsRepository) HasGrantedRole(_ context.Context, accountID, roleID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.grants[accountID][roleID]
	return ok, nil
}

func (r *MemoryAccountsRepository) GrantRole(_ context.Context, accountID, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[accountID]; !ok {
		return domain.NotFoundf("User with ID %s not found", accountID)
	}
	if r.grants[accountID] == nil {
		r.grants[accountID] = map[string]time.Time{}
	}
	if _, ok := r.grants[accountID][roleID]; ok {
		return domain.Conflictf("Role already granted")
	}
	r.grants[accountID][roleID] = time.Now()
	return nil
}

func (r *MemoryAccountsRepository) RevokeRole(_ context.Context, accountID, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.grants[accountID][roleID]; !ok {
		return domain.NotFoundf("Role grant not found")
	}
	delete(r.grants[accountID], roleID)
	return nil
}

func (r *MemoryAccountsRepository) SetCurrentRole(_ context.Context, accountID, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[accountID]
	if !ok {
		return domain.NotFoundf("User with ID %s not found", accountID)
	}
	a.CurrentRoleID = roleID
	a.UpdatedAt = time.Now()
	r.accounts[accountID] = a
	return nil
}
