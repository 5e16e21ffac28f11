// +build integration

package repository

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"testing"

	"zooback/internal/config"
	"zooback/internal/database"
	"zooback/internal/domain"

	"github.com/stretchr/testify/require"
)

func getTestEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getTestEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// 获取测试数据库连接
func getTestDB(t *testing.T) *sql.DB {
	cfg := &config.DatabaseConfig{
		Host:     getTestEnv("TEST_DB_HOST", "localhost"),
		Port:     getTestEnvInt("TEST_DB_PORT", 5432),
		User:     getTestEnv("TEST_DB_USER", "postgres"),
		Password: getTestEnv("TEST_DB_PASSWORD", "postgres"),
		Database: getTestEnv("TEST_DB_NAME", "zooback"),
		SSLMode:  getTestEnv("TEST_DB_SSLMODE", "disable"),
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to database: %v", err)
		return nil
	}
	if err := db.Ping(); err != nil {
		t.Skipf("Skipping integration test: cannot ping database: %v", err)
		return nil
	}
	return db
}

func cleanupCategory(t *testing.T, db *sql.DB, name string) {
	_, _ = db.Exec(`DELETE FROM categories WHERE name = $1`, name)
}

func TestPostgresCategoriesRepository_CRUD(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	repo := NewPostgresCategoriesRepository(db)
	ctx := context.Background()

	name := "IT Test Felines"
	cleanupCategory(t, db, name)
	defer cleanupCategory(t, db, name)

	id, err := repo.CreateCategory(ctx, &domain.Category{
		Name:        name,
		Description: sql.NullString{String: "integration fixture", Valid: true},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.GetCategory(ctx, id)
	require.NoError(t, err)
	require.Equal(t, name, got.Name)

	// 唯一名冲突
	_, err = repo.CreateCategory(ctx, &domain.Category{Name: name})
	require.True(t, domain.IsKind(err, domain.KindConflict))

	got.Description = sql.NullString{String: "updated", Valid: true}
	require.NoError(t, repo.UpdateCategory(ctx, id, got))

	items, total, err := repo.ListCategories(ctx, CategoriesFilter{Name: "IT Test"}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "updated", items[0].Description.String)

	require.NoError(t, repo.DeleteCategory(ctx, id))
	_, err = repo.GetCategory(ctx, id)
	require.True(t, domain.IsKind(err, domain.KindNotFound))
}
