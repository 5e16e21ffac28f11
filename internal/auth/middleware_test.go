package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zooback/internal/domain"

	"github.com/stretchr/testify/require"
)

func issueTestToken(t *testing.T, m *TokenManager, role domain.RoleName) string {
	t.Helper()
	token, _, err := m.Issue("acc-1", "tester", "tester@zoo.local", role)
	require.NoError(t, err)
	return token
}

func callWithToken(handler http.HandlerFunc, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestMiddleware_Authenticate(t *testing.T) {
	tokens := NewTokenManager("test-secret", "zooback-test", time.Hour)
	mw := NewMiddleware(tokens)

	handler := mw.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "acc-1", claims.AccountID)
		w.WriteHeader(http.StatusOK)
	})

	// 无令牌
	rec := callWithToken(handler, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// 伪造令牌
	rec = callWithToken(handler, "not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// 有效令牌
	rec = callWithToken(handler, issueTestToken(t, tokens, domain.RoleVisitor))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware_RequireRank(t *testing.T) {
	tokens := NewTokenManager("test-secret", "zooback-test", time.Hour)
	mw := NewMiddleware(tokens)

	handler := mw.RequireRank(domain.RoleZookeeper, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Visitor(1) < Zookeeper(3)
	rec := callWithToken(handler, issueTestToken(t, tokens, domain.RoleVisitor))
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Veterinarian(2) < Zookeeper(3)
	rec = callWithToken(handler, issueTestToken(t, tokens, domain.RoleVeterinarian))
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Zookeeper 达标
	rec = callWithToken(handler, issueTestToken(t, tokens, domain.RoleZookeeper))
	require.Equal(t, http.StatusOK, rec.Code)

	// Admin(4) 高于门槛
	rec = callWithToken(handler, issueTestToken(t, tokens, domain.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)

	// 未知角色 rank 为 0，一律拒绝
	rec = callWithToken(handler, issueTestToken(t, tokens, domain.RoleName("Superuser")))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMiddleware_RequireAdmin(t *testing.T) {
	tokens := NewTokenManager("test-secret", "zooback-test", time.Hour)
	mw := NewMiddleware(tokens)

	handler := mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := callWithToken(handler, issueTestToken(t, tokens, domain.RoleZookeeper))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = callWithToken(handler, issueTestToken(t, tokens, domain.RoleAdmin))
	require.Equal(t, http.StatusOK, rec.Code)
}
