package service

import (
	"context"
	"testing"

	"zooback/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestEnclosureService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.enclosureSvc.CreateEnclosure(ctx, EnclosureRequest{Capacity: 5})
	require.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = env.enclosureSvc.CreateEnclosure(ctx, EnclosureRequest{Name: "Savanna A", Capacity: 0})
	require.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = env.enclosureSvc.CreateEnclosure(ctx, EnclosureRequest{Name: "Savanna A", Capacity: -3})
	require.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestEnclosureService_NameConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createEnclosure(t, "Savanna A", 5)

	_, err := env.enclosureSvc.CreateEnclosure(ctx, EnclosureRequest{Name: "Savanna A", Capacity: 3})
	require.True(t, domain.IsKind(err, domain.KindConflict))
}

func TestEnclosureService_OccupancyInView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	catID := env.createCategory(t, "Felines")
	encID := env.createEnclosure(t, "Savanna A", 5)
	env.createAnimal(t, "Simba", "Lion", catID, encID)
	env.createAnimal(t, "Nala", "Lion", catID, encID)

	v, err := env.enclosureSvc.GetEnclosure(ctx, encID)
	require.NoError(t, err)
	require.Equal(t, 2, v.Occupancy)
	require.Equal(t, 5, v.Capacity)
}

// 缩容不能低于当前占用数
func TestEnclosureService_CapacityDecreaseBelowOccupancy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	catID := env.createCategory(t, "Felines")
	encID := env.createEnclosure(t, "Savanna A", 5)
	env.createAnimal(t, "Simba", "Lion", catID, encID)
	env.createAnimal(t, "Nala", "Lion", catID, encID)

	_, err := env.enclosureSvc.UpdateEnclosure(ctx, encID, EnclosureRequest{Name: "Savanna A", Capacity: 1})
	require.True(t, domain.IsKind(err, domain.KindConflict))

	// 缩到正好等于占用数可以
	v, err := env.enclosureSvc.UpdateEnclosure(ctx, encID, EnclosureRequest{Name: "Savanna A", Capacity: 2})
	require.NoError(t, err)
	require.Equal(t, 2, v.Capacity)
}

func TestEnclosureService_DeleteGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	catID := env.createCategory(t, "Felines")
	encID := env.createEnclosure(t, "Savanna A", 5)
	animalID := env.createAnimal(t, "Simba", "Lion", catID, encID)

	err := env.enclosureSvc.DeleteEnclosure(ctx, encID)
	require.True(t, domain.IsKind(err, domain.KindConflict))

	require.NoError(t, env.animalSvc.DeleteAnimal(ctx, animalID))
	require.NoError(t, env.enclosureSvc.DeleteEnclosure(ctx, encID))
}

func TestEnclosureService_OccupancySearches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	catID := env.createCategory(t, "Felines")
	fullID := env.createEnclosure(t, "Full Pen", 1)
	partID := env.createEnclosure(t, "Part Pen", 3)
	emptyID := env.createEnclosure(t, "Empty Pen", 2)
	env.createAnimal(t, "Simba", "Lion", catID, fullID)
	env.createAnimal(t, "Nala", "Lion", catID, partID)

	atCap, err := env.enclosureSvc.ListAtCapacity(ctx, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, atCap.Total)
	require.Equal(t, fullID, atCap.Items[0].EnclosureID)

	avail, err := env.enclosureSvc.ListAvailable(ctx, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 2, avail.Total)

	empty, err := env.enclosureSvc.ListEmpty(ctx, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, empty.Total)
	require.Equal(t, emptyID, empty.Items[0].EnclosureID)
}
