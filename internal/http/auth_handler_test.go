package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zooback/internal/auth"
	"zooback/internal/repository"
	"zooback/internal/service"
	"zooback/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()
	tokens := auth.NewTokenManager("test-secret", "zooback-test", time.Hour)
	mw := auth.NewMiddleware(tokens)
	kv := store.NewMemoryKV()

	roles := repository.NewMemoryRolesRepository()
	accounts := repository.NewMemoryAccountsRepository(roles)
	staff := repository.NewMemoryStaffRepository()

	authSvc := service.NewAuthService(accounts, roles, tokens, kv, logger)
	userSvc := service.NewUserService(accounts, roles, staff, logger)

	handler := NewAuthHandler(authSvc, userSvc, mw, logger)
	mux := http.NewServeMux()
	mux.Handle(authBase+"/", handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthHandler_RegisterLoginMe(t *testing.T) {
	srv := newAuthTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+authBase+"/register", "", service.RegisterRequest{
		Username: "keeper01",
		Email:    "keeper01@zoo.local",
		Password: "pass-123456",
		Role:     "Zookeeper",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var registered service.AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&registered))
	require.NotEmpty(t, registered.Token)
	require.Equal(t, "Zookeeper", registered.Account.Role)

	loginResp := doJSON(t, http.MethodPost, srv.URL+authBase+"/login", "", service.LoginRequest{
		UsernameOrEmail: "keeper01",
		Password:        "pass-123456",
	})
	defer loginResp.Body.Close()
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var logged service.AuthResponse
	require.NoError(t, json.NewDecoder(loginResp.Body).Decode(&logged))

	meResp := doJSON(t, http.MethodGet, srv.URL+authBase+"/me", "Bearer "+logged.Token, nil)
	defer meResp.Body.Close()
	require.Equal(t, http.StatusOK, meResp.StatusCode)

	var me map[string]any
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&me))
	require.Contains(t, me, "account")
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	srv := newAuthTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+authBase+"/register", "", service.RegisterRequest{
		Username: "keeper01",
		Email:    "keeper01@zoo.local",
		Password: "pass-123456",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// 错误密码与未知账号返回同一响应体
	wrongPass := doJSON(t, http.MethodPost, srv.URL+authBase+"/login", "", service.LoginRequest{
		UsernameOrEmail: "keeper01", Password: "wrong",
	})
	defer wrongPass.Body.Close()
	require.Equal(t, http.StatusUnauthorized, wrongPass.StatusCode)

	noAccount := doJSON(t, http.MethodPost, srv.URL+authBase+"/login", "", service.LoginRequest{
		UsernameOrEmail: "nobody", Password: "pass-123456",
	})
	defer noAccount.Body.Close()
	require.Equal(t, http.StatusUnauthorized, noAccount.StatusCode)

	var a, b map[string]string
	require.NoError(t, json.NewDecoder(wrongPass.Body).Decode(&a))
	require.NoError(t, json.NewDecoder(noAccount.Body).Decode(&b))
	require.Equal(t, a["message"], b["message"])
}

func TestAuthHandler_InvalidJSONBody(t *testing.T) {
	srv := newAuthTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+authBase+"/register", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
