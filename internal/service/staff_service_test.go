package service

import (
	"context"
	"testing"
	"time"

	"zooback/internal/domain"
	"zooback/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestStaffService_CreateRequiresAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.staffSvc.CreateStaff(ctx, StaffRequest{
		AccountID:  "00000000-0000-0000-0000-000000000000",
		Department: "Mammals",
		Position:   "Keeper",
		Salary:     42000,
	})
	require.True(t, domain.IsKind(err, domain.KindNotFound))
}

// 一个账号只能有一份员工档案
func TestStaffService_OneProfilePerAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	accountID := env.registerAccount(t, "keeper01", "Zookeeper")
	_, err := env.staffSvc.CreateStaff(ctx, StaffRequest{
		AccountID: accountID, Department: "Mammals", Position: "Keeper", Salary: 42000,
	})
	require.NoError(t, err)

	_, err = env.staffSvc.CreateStaff(ctx, StaffRequest{
		AccountID: accountID, Department: "Birds", Position: "Keeper", Salary: 40000,
	})
	require.True(t, domain.IsKind(err, domain.KindConflict))
	require.EqualError(t, err, "Account already has a staff profile")
}

func TestStaffService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	accountID := env.registerAccount(t, "keeper01", "Zookeeper")

	cases := []StaffRequest{
		{Department: "Mammals", Position: "Keeper"},                                  // 缺账号
		{AccountID: accountID, Position: "Keeper"},                                   // 缺部门
		{AccountID: accountID, Department: "Mammals"},                                // 缺职位
		{AccountID: accountID, Department: "Mammals", Position: "Keeper", Salary: -1},
		{AccountID: accountID, Department: "Mammals", Position: "Keeper", HireDate: "junk"},
	}
	for i, req := range cases {
		_, err := env.staffSvc.CreateStaff(ctx, req)
		require.Truef(t, domain.IsKind(err, domain.KindValidation), "case %d: %v", i, err)
	}
}

func TestStaffService_DeleteGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	staffID := env.createStaff(t, "keeper01")
	catID := env.createCategory(t, "Felines")
	animalID := env.createAnimal(t, "Simba", "Lion", catID, "")

	// 喂食计划挡删除
	feeding, err := env.feedingSvc.CreateSchedule(ctx, FeedingRequest{
		AnimalID:    animalID,
		StaffID:     staffID,
		FoodType:    "Meat",
		QuantityKg:  5,
		FeedingTime: time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)

	err = env.staffSvc.DeleteStaff(ctx, staffID)
	require.True(t, domain.IsKind(err, domain.KindConflict))

	require.NoError(t, env.feedingSvc.DeleteSchedule(ctx, feeding.FeedingID))

	// 医疗记录挡删除
	record, err := env.medicalSvc.CreateRecord(ctx, MedicalRequest{
		AnimalID: animalID,
		StaffID:  staffID,
		Status:   "Healthy",
	})
	require.NoError(t, err)

	err = env.staffSvc.DeleteStaff(ctx, staffID)
	require.True(t, domain.IsKind(err, domain.KindConflict))

	require.NoError(t, env.medicalSvc.DeleteRecord(ctx, record.RecordID))

	// 动物分配挡删除
	_, err = env.assignmentSvc.CreateAssignment(ctx, AssignmentRequest{StaffID: staffID, AnimalID: animalID})
	require.NoError(t, err)

	err = env.staffSvc.DeleteStaff(ctx, staffID)
	require.True(t, domain.IsKind(err, domain.KindConflict))

	require.NoError(t, env.assignmentSvc.DeleteAssignment(ctx, staffID, animalID))
	require.NoError(t, env.staffSvc.DeleteStaff(ctx, staffID))
}

func TestStaffService_ListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createStaff(t, "keeper01")
	accountID := env.registerAccount(t, "vet01", "Veterinarian")
	_, err := env.staffSvc.CreateStaff(ctx, StaffRequest{
		AccountID: accountID, Department: "Veterinary", Position: "Surgeon", Salary: 65000,
	})
	require.NoError(t, err)

	page, err := env.staffSvc.ListStaff(ctx, repository.StaffFilter{Department: "Veterinary"}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, "Surgeon", page.Items[0].Position)

	minSalary := 50000.0
	page, err = env.staffSvc.ListStaff(ctx, repository.StaffFilter{MinSalary: &minSalary}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
}

// 更新时未携带入职日期应保留原值，而不是重置为今天
func TestStaffService_UpdateKeepsHireDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	accountID := env.registerAccount(t, "keeper01", "Zookeeper")
	created, err := env.staffSvc.CreateStaff(ctx, StaffRequest{
		AccountID: accountID, HireDate: "2021-04-01", Department: "Mammals", Position: "Keeper", Salary: 42000,
	})
	require.NoError(t, err)

	v, err := env.staffSvc.UpdateStaff(ctx, created.StaffID, StaffRequest{
		AccountID: accountID, Department: "Birds", Position: "Senior Keeper", Salary: 45000,
	})
	require.NoError(t, err)
	require.Equal(t, "Birds", v.Department)
	require.Equal(t, "2021-04-01", v.HireDate.Format("2006-01-02"))

	// 显式携带时照常覆盖
	v, err = env.staffSvc.UpdateStaff(ctx, created.StaffID, StaffRequest{
		AccountID: accountID, HireDate: "2022-01-10", Department: "Birds", Position: "Senior Keeper", Salary: 45000,
	})
	require.NoError(t, err)
	require.Equal(t, "2022-01-10", v.HireDate.Format("2006-01-02"))
}
