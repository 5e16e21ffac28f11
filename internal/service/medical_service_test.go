package service

import (
	"context"
	"testing"
	"time"

	"zooback/internal/domain"
	"zooback/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestMedicalService_CreateWithDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	catID := env.createCategory(t, "Felines")
	animalID := env.createAnimal(t, "Simba", "Lion", catID, "")

	v, err := env.medicalSvc.CreateRecord(ctx, MedicalRequest{
		AnimalID:    animalID,
		Status:      "Sick",
		Description: "Loss of appetite",
	})
	require.NoError(t, err)
	require.Equal(t, "Sick", v.Status)
	// record_date 默认今天
	require.WithinDuration(t, time.Now(), v.RecordDate, 25*time.Hour)
}

func TestMedicalService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	catID := env.createCategory(t, "Felines")
	animalID := env.createAnimal(t, "Simba", "Lion", catID, "")

	cases := []MedicalRequest{
		{Status: "Healthy"},                                     // 缺动物
		{AnimalID: animalID},                                    // 缺状态
		{AnimalID: animalID, Status: "Fine"},                    // 非法状态
		{AnimalID: animalID, Status: "Healthy", RecordDate: "x"}, // 非法日期
	}
	for i, req := range cases {
		_, err := env.medicalSvc.CreateRecord(ctx, req)
		require.Truef(t, domain.IsKind(err, domain.KindValidation), "case %d: %v", i, err)
	}
}

func TestMedicalService_AllHealthStatuses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	catID := env.createCategory(t, "Felines")
	animalID := env.createAnimal(t, "Simba", "Lion", catID, "")

	for _, status := range []string{"Healthy", "Sick", "Quarantined", "UnderTreatment", "Deceased"} {
		_, err := env.medicalSvc.CreateRecord(ctx, MedicalRequest{AnimalID: animalID, Status: status})
		require.NoErrorf(t, err, "status %s", status)
	}

	page, err := env.medicalSvc.ListRecords(ctx, repository.MedicalFilter{Status: "Quarantined"}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
}

func TestMedicalService_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	catID := env.createCategory(t, "Felines")
	animalID := env.createAnimal(t, "Simba", "Lion", catID, "")

	v, err := env.medicalSvc.CreateRecord(ctx, MedicalRequest{AnimalID: animalID, Status: "Sick"})
	require.NoError(t, err)

	updated, err := env.medicalSvc.UpdateRecord(ctx, v.RecordID, MedicalRequest{
		AnimalID: animalID, Status: "UnderTreatment", Description: "Antibiotics started",
	})
	require.NoError(t, err)
	require.Equal(t, "UnderTreatment", updated.Status)

	require.NoError(t, env.medicalSvc.DeleteRecord(ctx, v.RecordID))
	_, err = env.medicalSvc.GetRecord(ctx, v.RecordID)
	require.True(t, domain.IsKind(err, domain.KindNotFound))
}

// 更新时未携带记录日期应保留原值，而不是重置为今天
func TestMedicalService_UpdateKeepsRecordDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	catID := env.createCategory(t, "Felines")
	animalID := env.createAnimal(t, "Simba", "Lion", catID, "")

	v, err := env.medicalSvc.CreateRecord(ctx, MedicalRequest{
		AnimalID: animalID, Status: "Sick", RecordDate: "2024-11-20",
	})
	require.NoError(t, err)

	updated, err := env.medicalSvc.UpdateRecord(ctx, v.RecordID, MedicalRequest{
		AnimalID: animalID, Status: "Recovered",
	})
	require.NoError(t, err)
	require.Equal(t, "Recovered", updated.Status)
	require.Equal(t, "2024-11-20", updated.RecordDate.Format("2006-01-02"))
}
