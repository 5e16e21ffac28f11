package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"zooback/internal/domain"
)

type contextKey struct{}

var claimsKey contextKey

// ClaimsFromContext 取出鉴权中间件写入的声明集
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// Middleware 基于 TokenManager 的 HTTP 鉴权中间件
type Middleware struct {
	tokens *TokenManager
}

func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Authenticate 要求请求携带有效 Bearer 令牌，声明集写入 context
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			writeAuthError(w, http.StatusUnauthorized, "missing or malformed Authorization header")
			return
		}
		claims, err := m.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	}
}

// RequireRank 要求当前角色 rank 达到 min；未知角色 rank 为 0，一律拒绝
func (m *Middleware) RequireRank(min domain.RoleName, next http.HandlerFunc) http.HandlerFunc {
	return m.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		if claims == nil || !claims.Role.Meets(min) {
			writeAuthError(w, http.StatusForbidden, "insufficient role")
			return
		}
		next(w, r)
	})
}

// RequireAdmin 精确要求 Admin 角色（不可逆删除等操作），不走 rank 门槛
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		if claims == nil || claims.Role != domain.RoleAdmin {
			writeAuthError(w, http.StatusForbidden, "admin role required")
			return
		}
		next(w, r)
	})
}
