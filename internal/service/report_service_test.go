package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newReportEnv(t *testing.T) (*testEnv, ReportService) {
	t.Helper()
	env := newTestEnv(t)
	svc := NewReportService(env.animals, env.categories, env.enclosures, env.feeding, zap.NewNop())
	return env, svc
}

func TestReportService_AnimalsReport(t *testing.T) {
	env, svc := newReportEnv(t)
	ctx := context.Background()

	catID := env.createCategory(t, "Felines")
	encID := env.createEnclosure(t, "Savanna A", 5)
	env.createAnimal(t, "Simba", "Lion", catID, encID)
	env.createAnimal(t, "Nala", "Lion", catID, "")

	data, err := svc.AnimalsReport(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Animals")
	require.NoError(t, err)
	require.Len(t, rows, 3) // 表头 + 两行数据
	require.Equal(t, "Name", rows[0][0])
	require.Equal(t, "Category", rows[0][5])

	names := []string{rows[1][0], rows[2][0]}
	require.ElementsMatch(t, []string{"Simba", "Nala"}, names)
}

func TestReportService_FeedingSchedulesReport(t *testing.T) {
	env, svc := newReportEnv(t)
	ctx := context.Background()

	catID := env.createCategory(t, "Felines")
	animalID := env.createAnimal(t, "Simba", "Lion", catID, "")
	_, err := env.feedingSvc.CreateSchedule(ctx, FeedingRequest{
		AnimalID:    animalID,
		FoodType:    "Meat",
		QuantityKg:  5,
		FeedingTime: time.Now().Format(time.RFC3339),
		Notes:       "morning round",
	})
	require.NoError(t, err)

	data, err := svc.FeedingSchedulesReport(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Feeding Schedules")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Simba", rows[1][0])
	require.Equal(t, "Meat", rows[1][1])
}

func TestReportService_EmptyDataset(t *testing.T) {
	_, svc := newReportEnv(t)

	data, err := svc.AnimalsReport(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Animals")
	require.NoError(t, err)
	require.Len(t, rows, 1) // 只有表头
}
