package service

import (
	"context"
	"testing"

	"zooback/internal/domain"
	"zooback/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestUserService_ListAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	accountID := env.registerAccount(t, "keeper01", "Zookeeper")
	env.registerAccount(t, "visitor01", "Visitor")

	page, err := env.userSvc.ListAccounts(ctx, repository.AccountsFilter{}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)

	v, err := env.userSvc.GetAccount(ctx, accountID)
	require.NoError(t, err)
	require.Equal(t, "keeper01", v.Username)
	require.Equal(t, "Zookeeper", v.Role)

	page, err = env.userSvc.ListAccounts(ctx, repository.AccountsFilter{Username: "keeper"}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
}

func TestUserService_UpdateAccountConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	accountID := env.registerAccount(t, "keeper01", "Zookeeper")
	env.registerAccount(t, "keeper02", "Zookeeper")

	taken := "keeper02"
	_, err := env.userSvc.UpdateAccount(ctx, accountID, UpdateAccountRequest{Username: &taken})
	require.True(t, domain.IsKind(err, domain.KindConflict))

	fresh := "keeper01-renamed"
	v, err := env.userSvc.UpdateAccount(ctx, accountID, UpdateAccountRequest{Username: &fresh})
	require.NoError(t, err)
	require.Equal(t, "keeper01-renamed", v.Username)
}

// 有员工档案的账号不能删
func TestUserService_DeleteAccountGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	accountID := env.registerAccount(t, "keeper01", "Zookeeper")
	v, err := env.staffSvc.CreateStaff(ctx, StaffRequest{
		AccountID: accountID, Department: "Mammals", Position: "Keeper", Salary: 42000,
	})
	require.NoError(t, err)

	err = env.userSvc.DeleteAccount(ctx, accountID)
	require.True(t, domain.IsKind(err, domain.KindConflict))
	require.EqualError(t, err, "Cannot delete account with an active staff profile")

	require.NoError(t, env.staffSvc.DeleteStaff(ctx, v.StaffID))
	require.NoError(t, env.userSvc.DeleteAccount(ctx, accountID))
	_, err = env.userSvc.GetAccount(ctx, accountID)
	require.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestUserService_RoleGrants(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	accountID := env.registerAccount(t, "keeper01", "Zookeeper")

	granted, err := env.userSvc.ListGrantedRoles(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	require.Equal(t, domain.RoleZookeeper, granted[0].Name)

	require.NoError(t, env.userSvc.GrantRole(ctx, accountID, "Veterinarian"))
	err = env.userSvc.GrantRole(ctx, accountID, "Veterinarian")
	require.True(t, domain.IsKind(err, domain.KindConflict))

	err = env.userSvc.GrantRole(ctx, accountID, "Superuser")
	require.True(t, domain.IsKind(err, domain.KindValidation))

	// 当前角色不能被移除
	err = env.userSvc.RemoveGrantedRole(ctx, accountID, "Zookeeper")
	require.True(t, domain.IsKind(err, domain.KindConflict))

	require.NoError(t, env.userSvc.RemoveGrantedRole(ctx, accountID, "Veterinarian"))
	err = env.userSvc.RemoveGrantedRole(ctx, accountID, "Veterinarian")
	require.True(t, domain.IsKind(err, domain.KindNotFound))
}

// 切换当前角色会自动授予该角色
func TestUserService_ChangeCurrentRoleAutoGrants(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	accountID := env.registerAccount(t, "keeper01", "Zookeeper")

	require.NoError(t, env.userSvc.ChangeCurrentRole(ctx, accountID, "Veterinarian"))

	v, err := env.userSvc.GetAccount(ctx, accountID)
	require.NoError(t, err)
	require.Equal(t, "Veterinarian", v.Role)

	granted, err := env.userSvc.ListGrantedRoles(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, granted, 2)

	// 原角色不再是当前角色，可以被移除
	require.NoError(t, env.userSvc.RemoveGrantedRole(ctx, accountID, "Zookeeper"))
}

func TestUserService_Details(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	accountID := env.registerAccount(t, "keeper01", "Zookeeper")

	d, err := env.userSvc.UpdateDetails(ctx, accountID, UpdateDetailsRequest{
		FirstName: "Jamie",
		BirthDate: "1990-04-02",
	})
	require.NoError(t, err)
	require.Equal(t, "Jamie", d.FirstName.String)
	require.True(t, d.BirthDate.Valid)

	_, err = env.userSvc.UpdateDetails(ctx, accountID, UpdateDetailsRequest{BirthDate: "not-a-date"})
	require.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestUserService_ListRoles(t *testing.T) {
	env := newTestEnv(t)

	roles, err := env.userSvc.ListRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 4)
}
