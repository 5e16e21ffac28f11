package service

import (
	"context"
	"testing"

	"zooback/internal/domain"
	"zooback/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestCategoryService_CRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v, err := env.categorySvc.CreateCategory(ctx, CategoryRequest{
		Name:        "Felines",
		Description: "Big cats",
	})
	require.NoError(t, err)
	require.NotEmpty(t, v.CategoryID)
	require.Equal(t, 0, v.AnimalCount)

	updated, err := env.categorySvc.UpdateCategory(ctx, v.CategoryID, CategoryRequest{
		Name:        "Big Felines",
		Description: "Big cats only",
	})
	require.NoError(t, err)
	require.Equal(t, "Big Felines", updated.Name)

	page, err := env.categorySvc.ListCategories(ctx, repository.CategoriesFilter{Name: "Felines"}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)

	require.NoError(t, env.categorySvc.DeleteCategory(ctx, v.CategoryID))
	_, err = env.categorySvc.GetCategory(ctx, v.CategoryID)
	require.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestCategoryService_NameConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	catID := env.createCategory(t, "Felines")
	env.createCategory(t, "Birds")

	_, err := env.categorySvc.CreateCategory(ctx, CategoryRequest{Name: "Felines"})
	require.True(t, domain.IsKind(err, domain.KindConflict))

	// 改名撞上已有类别同样冲突
	_, err = env.categorySvc.UpdateCategory(ctx, catID, CategoryRequest{Name: "Birds"})
	require.True(t, domain.IsKind(err, domain.KindConflict))

	// 保留原名的更新不算冲突
	_, err = env.categorySvc.UpdateCategory(ctx, catID, CategoryRequest{Name: "Felines", Description: "updated"})
	require.NoError(t, err)
}

func TestCategoryService_DeleteGuardAndCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	catID := env.createCategory(t, "Felines")
	animalID := env.createAnimal(t, "Simba", "Lion", catID, "")

	v, err := env.categorySvc.GetCategory(ctx, catID)
	require.NoError(t, err)
	require.Equal(t, 1, v.AnimalCount)

	err = env.categorySvc.DeleteCategory(ctx, catID)
	require.True(t, domain.IsKind(err, domain.KindConflict))

	require.NoError(t, env.animalSvc.DeleteAnimal(ctx, animalID))
	require.NoError(t, env.categorySvc.DeleteCategory(ctx, catID))
}

func TestCategoryService_AnimalCountSearches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	felines := env.createCategory(t, "Felines")
	birds := env.createCategory(t, "Feathered Birds")
	env.createCategory(t, "Reptiles")

	env.createAnimal(t, "Simba", "Lion", felines, "")
	env.createAnimal(t, "Nala", "Lion", felines, "")
	env.createAnimal(t, "Zazu", "Hornbill", birds, "")

	two := 2
	page, err := env.categorySvc.ListByAnimalCount(ctx, &two, nil, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, "Felines", page.Items[0].Name)

	one := 1
	page, err = env.categorySvc.ListByAnimalCount(ctx, nil, &one, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)

	empty, err := env.categorySvc.ListEmpty(ctx, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, empty.Total)
	require.Equal(t, "Reptiles", empty.Items[0].Name)
}
