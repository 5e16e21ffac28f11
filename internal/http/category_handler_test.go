package httpapi

import (
	"bytes"
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

// newCategoryTestServer 全内存编排：路由 + 中间件 + 类别服务
func newCategoryTestServer(t *testing.T) (*httptest.Server, *auth.TokenManager) {
	t.Helper()
	logger := zap.NewNop()
	tokens := auth.NewTokenManager("test-secret", "zooback-test", time.Hour)
	mw := auth.NewMiddleware(tokens)

	categories := repository.NewMemoryCategoriesRepository()
	animals := repository.NewMemoryAnimalsRepository()
	categorySvc := service.NewCategoryService(categories, animals, logger)

	handler := NewCategoryHandler(categorySvc, mw, logger)
	mux := http.NewServeMux()
	mux.Handle(categoriesBase, handler)
	mux.Handle(categoriesBase+"/", handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, tokens
}

func bearerToken(t *testing.T, tokens *auth.TokenManager, role domain.RoleName) string {
	t.Helper()
	token, _, err := tokens.Issue("acc-1", "tester", "tester@zoo.local", role)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, method, url, authz string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestCategoryHandler_AuthRequired(t *testing.T) {
	srv, _ := newCategoryTestServer(t)

	resp, err := http.Get(srv.URL + categoriesBase)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// 写操作按角色门槛分级：Visitor 读不了写，Zookeeper 能写不能删，删除只留给 Admin
func TestCategoryHandler_RolePolicy(t *testing.T) {
	srv, tokens := newCategoryTestServer(t)

	visitor := bearerToken(t, tokens, domain.RoleVisitor)
	keeper := bearerToken(t, tokens, domain.RoleZookeeper)
	admin := bearerToken(t, tokens, domain.RoleAdmin)

	body := service.CategoryRequest{Name: "Felines"}

	resp := doJSON(t, http.MethodPost, srv.URL+categoriesBase, visitor, body)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+categoriesBase, keeper, body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created service.CategoryView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.CategoryID)

	// Visitor 可以读
	getResp := doJSON(t, http.MethodGet, srv.URL+categoriesBase+"/"+created.CategoryID, visitor, nil)
	getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	// Zookeeper 删不了
	delResp := doJSON(t, http.MethodDelete, srv.URL+categoriesBase+"/"+created.CategoryID, keeper, nil)
	delResp.Body.Close()
	require.Equal(t, http.StatusForbidden, delResp.StatusCode)

	delResp = doJSON(t, http.MethodDelete, srv.URL+categoriesBase+"/"+created.CategoryID, admin, nil)
	delResp.Body.Close()
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)
}

func TestCategoryHandler_ErrorMapping(t *testing.T) {
	srv, tokens := newCategoryTestServer(t)
	keeper := bearerToken(t, tokens, domain.RoleZookeeper)

	// 缺名字 -> 400
	resp := doJSON(t, http.MethodPost, srv.URL+categoriesBase, keeper, service.CategoryRequest{})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Contains(t, payload, "message")

	// 重名 -> 409
	resp = doJSON(t, http.MethodPost, srv.URL+categoriesBase, keeper, service.CategoryRequest{Name: "Felines"})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doJSON(t, http.MethodPost, srv.URL+categoriesBase, keeper, service.CategoryRequest{Name: "Felines"})
	resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// 未知 ID -> 404
	resp = doJSON(t, http.MethodGet, srv.URL+categoriesBase+"/00000000-0000-0000-0000-000000000000", keeper, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCategoryHandler_SearchByName(t *testing.T) {
	srv, tokens := newCategoryTestServer(t)
	keeper := bearerToken(t, tokens, domain.RoleZookeeper)

	for _, name := range []string{"Felines", "Feathered Birds", "Reptiles"} {
		resp := doJSON(t, http.MethodPost, srv.URL+categoriesBase, keeper, service.CategoryRequest{Name: name})
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, http.MethodGet, srv.URL+categoriesBase+"/search/by-name?name=Fe", keeper, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page service.CategoryPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.Equal(t, 2, page.Total)

	// 缺 name 参数 -> 400
	resp = doJSON(t, http.MethodGet, srv.URL+categoriesBase+"/search/by-name", keeper, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCategoryHandler_AnimalCountSearches(t *testing.T) {
	logger := zap.NewNop()
	tokens := auth.NewTokenManager("test-secret", "zooback-test", time.Hour)
	mw := auth.NewMiddleware(tokens)

	categories := repository.NewMemoryCategoriesRepository()
	animals := repository.NewMemoryAnimalsRepository()
	enclosures := repository.NewMemoryEnclosuresRepository()
	categorySvc := service.NewCategoryService(categories, animals, logger)
	animalSvc := service.NewAnimalService(animals, categories, enclosures, logger)

	ctx := context.Background()
	felines, err := categorySvc.CreateCategory(ctx, service.CategoryRequest{Name: "Felines"})
	require.NoError(t, err)
	_, err = categorySvc.CreateCategory(ctx, service.CategoryRequest{Name: "Reptiles"})
	require.NoError(t, err)
	_, err = animalSvc.CreateAnimal(ctx, service.AnimalRequest{
		Name: "Simba", Species: "Lion", CategoryID: felines.CategoryID,
	})
	require.NoError(t, err)

	handler := NewCategoryHandler(categorySvc, mw, logger)
	mux := http.NewServeMux()
	mux.Handle(categoriesBase, handler)
	mux.Handle(categoriesBase+"/", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	authz := bearerToken(t, tokens, domain.RoleVisitor)

	resp := doJSON(t, http.MethodGet, srv.URL+categoriesBase+"/search/by-animal-count?minCount=1", authz, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page service.CategoryPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.Equal(t, 1, page.Total)
	require.Equal(t, "Felines", page.Items[0].Name)

	resp = doJSON(t, http.MethodGet, srv.URL+categoriesBase+"/search/empty", authz, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = service.CategoryPage{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.Equal(t, 1, page.Total)
	require.Equal(t, "Reptiles", page.Items[0].Name)

	// 两个边界都缺失时拒绝
	resp = doJSON(t, http.MethodGet, srv.URL+categoriesBase+"/search/by-animal-count", authz, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
