package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zooback/internal/auth"
	"zooback/internal/domain"
	"zooback/internal/repository"
	"zooback/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newAnimalTestServer 全内存编排：路由 + 中间件 + 动物服务
func newAnimalTestServer(t *testing.T) (*httptest.Server, *auth.TokenManager, service.AnimalService, string) {
	t.Helper()
	logger := zap.NewNop()
	tokens := auth.NewTokenManager("test-secret", "zooback-test", time.Hour)
	mw := auth.NewMiddleware(tokens)

	animals := repository.NewMemoryAnimalsRepository()
	categories := repository.NewMemoryCategoriesRepository()
	enclosures := repository.NewMemoryEnclosuresRepository()
	animalSvc := service.NewAnimalService(animals, categories, enclosures, logger)
	categorySvc := service.NewCategoryService(categories, animals, logger)

	cat, err := categorySvc.CreateCategory(context.Background(), service.CategoryRequest{Name: "Felines"})
	require.NoError(t, err)

	handler := NewAnimalHandler(animalSvc, mw, logger)
	mux := http.NewServeMux()
	mux.Handle(animalsBase, handler)
	mux.Handle(animalsBase+"/", handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, tokens, animalSvc, cat.CategoryID
}

func TestAnimalHandler_SearchByAgeRange(t *testing.T) {
	srv, tokens, animalSvc, catID := newAnimalTestServer(t)
	authz := bearerToken(t, tokens, domain.RoleVisitor)

	now := time.Now()
	dob := func(years int) string { return now.AddDate(-years, 0, 0).Format("2006-01-02") }
	for name, years := range map[string]int{"Simba": 2, "Mufasa": 12} {
		_, err := animalSvc.CreateAnimal(context.Background(), service.AnimalRequest{
			Name: name, Species: "Lion", CategoryID: catID, DateOfBirth: dob(years),
		})
		require.NoError(t, err)
	}

	resp := doJSON(t, http.MethodGet, srv.URL+animalsBase+"/search/by-age-range?minAge=1&maxAge=5", authz, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page service.AnimalPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.Equal(t, 1, page.Total)
	require.Equal(t, "Simba", page.Items[0].Name)

	// 两个边界都缺失时拒绝
	resp = doJSON(t, http.MethodGet, srv.URL+animalsBase+"/search/by-age-range", authz, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
