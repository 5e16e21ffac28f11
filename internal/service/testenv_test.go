package service

import (
	"context"
	"testing"
	"time"

	"zooback/internal/auth"
	"zooback/internal/repository"
	"zooback/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEnv 全内存服务编排，单测共用
type testEnv struct {
	kv     *store.MemoryKV
	tokens *auth.TokenManager

	roles       repository.RolesRepository
	accounts    repository.AccountsRepository
	categories  repository.CategoriesRepository
	enclosures  repository.EnclosuresRepository
	animals     repository.AnimalsRepository
	staff       repository.StaffRepository
	assignments repository.AssignmentsRepository
	feeding     repository.FeedingRepository
	medical     repository.MedicalRepository

	authSvc       AuthService
	userSvc       UserService
	categorySvc   CategoryService
	enclosureSvc  EnclosureService
	animalSvc     AnimalService
	staffSvc      StaffService
	assignmentSvc AssignmentService
	feedingSvc    FeedingService
	medicalSvc    MedicalService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	env := &testEnv{
		kv:     store.NewMemoryKV(),
		tokens: auth.NewTokenManager("test-secret", "zooback-test", time.Hour),
	}
	env.roles = repository.NewMemoryRolesRepository()
	env.accounts = repository.NewMemoryAccountsRepository(env.roles)
	env.categories = repository.NewMemoryCategoriesRepository()
	env.enclosures = repository.NewMemoryEnclosuresRepository()
	env.animals = repository.NewMemoryAnimalsRepository()
	env.staff = repository.NewMemoryStaffRepository()
	env.assignments = repository.NewMemoryAssignmentsRepository()
	env.feeding = repository.NewMemoryFeedingRepository()
	env.medical = repository.NewMemoryMedicalRepository()

	env.authSvc = NewAuthService(env.accounts, env.roles, env.tokens, env.kv, logger)
	env.userSvc = NewUserService(env.accounts, env.roles, env.staff, logger)
	env.categorySvc = NewCategoryService(env.categories, env.animals, logger)
	env.enclosureSvc = NewEnclosureService(env.enclosures, env.animals, logger)
	env.animalSvc = NewAnimalService(env.animals, env.categories, env.enclosures, logger)
	env.staffSvc = NewStaffService(env.staff, env.accounts, env.feeding, env.medical, env.assignments, logger)
	env.assignmentSvc = NewAssignmentService(env.assignments, env.staff, env.animals, logger)
	env.feedingSvc = NewFeedingService(env.feeding, env.animals, env.staff, logger)
	env.medicalSvc = NewMedicalService(env.medical, env.animals, env.staff, logger)
	return env
}

// registerAccount 注册账号并返回 account_id
func (e *testEnv) registerAccount(t *testing.T, username, role string) string {
	t.Helper()
	resp, err := e.authSvc.Register(context.Background(), RegisterRequest{
		Username: username,
		Email:    username + "@zoo.local",
		Password: "pass-123456",
		Role:     role,
	})
	require.NoError(t, err)
	return resp.Account.AccountID
}

// createCategory 创建类别并返回 category_id
func (e *testEnv) createCategory(t *testing.T, name string) string {
	t.Helper()
	v, err := e.categorySvc.CreateCategory(context.Background(), CategoryRequest{Name: name})
	require.NoError(t, err)
	return v.CategoryID
}

// createEnclosure 创建围栏并返回 enclosure_id
func (e *testEnv) createEnclosure(t *testing.T, name string, capacity int) string {
	t.Helper()
	v, err := e.enclosureSvc.CreateEnclosure(context.Background(), EnclosureRequest{
		Name:     name,
		Type:     "Savanna",
		Capacity: capacity,
	})
	require.NoError(t, err)
	return v.EnclosureID
}

// createAnimal 创建动物并返回 animal_id
func (e *testEnv) createAnimal(t *testing.T, name, species, categoryID, enclosureID string) string {
	t.Helper()
	v, err := e.animalSvc.CreateAnimal(context.Background(), AnimalRequest{
		Name:        name,
		Species:     species,
		CategoryID:  categoryID,
		EnclosureID: enclosureID,
	})
	require.NoError(t, err)
	return v.AnimalID
}

// createStaff 注册账号并建立员工档案，返回 staff_id
func (e *testEnv) createStaff(t *testing.T, username string) string {
	t.Helper()
	accountID := e.registerAccount(t, username, "Zookeeper")
	v, err := e.staffSvc.CreateStaff(context.Background(), StaffRequest{
		AccountID:  accountID,
		Department: "Mammals",
		Position:   "Keeper",
		Salary:     42000,
	})
	require.NoError(t, err)
	return v.StaffID
}
