package service

import (
	"context"
	"testing"

	"zooback/internal/domain"
	"zooback/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestAssignmentService_CreateAndConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	staffID := env.createStaff(t, "keeper01")
	catID := env.createCategory(t, "Felines")
	animalID := env.createAnimal(t, "Simba", "Lion", catID, "")

	v, err := env.assignmentSvc.CreateAssignment(ctx, AssignmentRequest{
		StaffID:      staffID,
		AnimalID:     animalID,
		Observations: "Calm in the morning",
	})
	require.NoError(t, err)
	require.Equal(t, staffID, v.StaffID)
	require.Equal(t, animalID, v.AnimalID)

	_, err = env.assignmentSvc.CreateAssignment(ctx, AssignmentRequest{StaffID: staffID, AnimalID: animalID})
	require.True(t, domain.IsKind(err, domain.KindConflict))
	require.EqualError(t, err, "Assignment already exists")
}

func TestAssignmentService_UnknownPair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	staffID := env.createStaff(t, "keeper01")
	catID := env.createCategory(t, "Felines")
	animalID := env.createAnimal(t, "Simba", "Lion", catID, "")

	_, err := env.assignmentSvc.CreateAssignment(ctx, AssignmentRequest{
		StaffID: "00000000-0000-0000-0000-000000000000", AnimalID: animalID,
	})
	require.True(t, domain.IsKind(err, domain.KindNotFound))

	_, err = env.assignmentSvc.CreateAssignment(ctx, AssignmentRequest{
		StaffID: staffID, AnimalID: "00000000-0000-0000-0000-000000000000",
	})
	require.True(t, domain.IsKind(err, domain.KindNotFound))
}

// 键不变时只改 observations，created_at 保留
func TestAssignmentService_UpdateObservationsInPlace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	staffID := env.createStaff(t, "keeper01")
	catID := env.createCategory(t, "Felines")
	animalID := env.createAnimal(t, "Simba", "Lion", catID, "")

	created, err := env.assignmentSvc.CreateAssignment(ctx, AssignmentRequest{
		StaffID: staffID, AnimalID: animalID, Observations: "initial",
	})
	require.NoError(t, err)

	updated, err := env.assignmentSvc.UpdateAssignment(ctx, staffID, animalID, AssignmentRequest{
		Observations: "follow-up notes",
	})
	require.NoError(t, err)
	require.Equal(t, "follow-up notes", updated.Observations)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
}

// 换键走删旧建新
func TestAssignmentService_UpdateRekey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	staffID := env.createStaff(t, "keeper01")
	otherStaff := env.createStaff(t, "keeper02")
	catID := env.createCategory(t, "Felines")
	animalID := env.createAnimal(t, "Simba", "Lion", catID, "")

	_, err := env.assignmentSvc.CreateAssignment(ctx, AssignmentRequest{
		StaffID: staffID, AnimalID: animalID, Observations: "initial",
	})
	require.NoError(t, err)

	moved, err := env.assignmentSvc.UpdateAssignment(ctx, staffID, animalID, AssignmentRequest{
		StaffID: otherStaff, AnimalID: animalID, Observations: "handover",
	})
	require.NoError(t, err)
	require.Equal(t, otherStaff, moved.StaffID)

	_, err = env.assignmentSvc.GetAssignment(ctx, staffID, animalID)
	require.True(t, domain.IsKind(err, domain.KindNotFound))

	// 目标键已存在时换键冲突
	_, err = env.assignmentSvc.CreateAssignment(ctx, AssignmentRequest{StaffID: staffID, AnimalID: animalID})
	require.NoError(t, err)
	_, err = env.assignmentSvc.UpdateAssignment(ctx, staffID, animalID, AssignmentRequest{
		StaffID: otherStaff, AnimalID: animalID,
	})
	require.True(t, domain.IsKind(err, domain.KindConflict))
}

func TestAssignmentService_WithObservationsFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	staffID := env.createStaff(t, "keeper01")
	catID := env.createCategory(t, "Felines")
	withObs := env.createAnimal(t, "Simba", "Lion", catID, "")
	withoutObs := env.createAnimal(t, "Nala", "Lion", catID, "")

	_, err := env.assignmentSvc.CreateAssignment(ctx, AssignmentRequest{
		StaffID: staffID, AnimalID: withObs, Observations: "restless at night",
	})
	require.NoError(t, err)
	_, err = env.assignmentSvc.CreateAssignment(ctx, AssignmentRequest{StaffID: staffID, AnimalID: withoutObs})
	require.NoError(t, err)

	page, err := env.assignmentSvc.ListAssignments(ctx, repository.AssignmentsFilter{WithObservations: true}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, withObs, page.Items[0].AnimalID)
}

// 同一 (staff, animal) 对删除后允许重新建立
func TestAssignmentService_RecreateAfterDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	staffID := env.createStaff(t, "keeper01")
	catID := env.createCategory(t, "Felines")
	animalID := env.createAnimal(t, "Simba", "Lion", catID, "")

	_, err := env.assignmentSvc.CreateAssignment(ctx, AssignmentRequest{StaffID: staffID, AnimalID: animalID})
	require.NoError(t, err)
	require.NoError(t, env.assignmentSvc.DeleteAssignment(ctx, staffID, animalID))

	v, err := env.assignmentSvc.CreateAssignment(ctx, AssignmentRequest{
		StaffID: staffID, AnimalID: animalID, Observations: "Back on rotation",
	})
	require.NoError(t, err)
	require.Equal(t, "Back on rotation", v.Observations)
}
