package httpapi

import (
	"net/http"
	"strings"

	"zooback/internal/auth"
	"zooback/internal/domain"
	"zooback/internal/service"

	"go.uber.org/zap"
)

const authBase = "/api/v1/auth"

// AuthHandler 认证 Handler
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	mw          *auth.Middleware
	logger      *zap.Logger
}

// NewAuthHandler 创建认证 Handler
func NewAuthHandler(authService service.AuthService, userService service.UserService, mw *auth.Middleware, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		mw:          mw,
		logger:      logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == authBase+"/register" && r.Method == http.MethodPost:
		h.Register(w, r)
	case path == authBase+"/login" && r.Method == http.MethodPost:
		h.Login(w, r)
	case path == authBase+"/change-password" && r.Method == http.MethodPost:
		h.mw.Authenticate(h.ChangePassword)(w, r)
	case path == authBase+"/refresh-token" && r.Method == http.MethodPost:
		h.mw.Authenticate(h.RefreshToken)(w, r)
	case path == authBase+"/change-role" && r.Method == http.MethodPost:
		h.mw.Authenticate(h.ChangeRole)(w, r)
	case path == authBase+"/me" && r.Method == http.MethodGet:
		h.mw.Authenticate(h.Me)(w, r)
	case path == authBase+"/forgot-password/send-code" && r.Method == http.MethodPost:
		h.SendResetCode(w, r)
	case path == authBase+"/forgot-password/verify-code" && r.Method == http.MethodPost:
		h.VerifyResetCode(w, r)
	case path == authBase+"/forgot-password/reset" && r.Method == http.MethodPost:
		h.ResetPassword(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// clientIP 提取客户端 IP（优先 X-Forwarded-For）
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	req.IPAddress = clientIP(r)
	req.UserAgent = r.UserAgent()

	result, err := h.authService.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	req.IPAddress = clientIP(r)
	req.UserAgent = r.UserAgent()

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, domain.Authenticationf("Missing authentication"))
		return
	}
	var req service.ChangePasswordRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.authService.ChangePassword(r.Context(), claims.AccountID, req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed"})
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, domain.Authenticationf("Missing authentication"))
		return
	}
	result, err := h.authService.RefreshToken(r.Context(), claims.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ChangeRole 自助切换当前角色，返回携带新角色的令牌
func (h *AuthHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, domain.Authenticationf("Missing authentication"))
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.userService.ChangeCurrentRole(r.Context(), claims.AccountID, req.Role); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.authService.RefreshToken(r.Context(), claims.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Me 返回当前账号概要、明细和已授予角色
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, domain.Authenticationf("Missing authentication"))
		return
	}
	account, err := h.userService.GetAccount(r.Context(), claims.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}
	details, err := h.userService.GetDetails(r.Context(), claims.AccountID)
	if err != nil && !domain.IsKind(err, domain.KindNotFound) {
		writeError(w, err)
		return
	}
	roles, err := h.userService.ListGrantedRoles(r.Context(), claims.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}
	roleNames := make([]string, 0, len(roles))
	for _, role := range roles {
		roleNames = append(roleNames, string(role.Name))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"account":      account,
		"details":      detailsView(details),
		"grantedRoles": roleNames,
	})
}

func (h *AuthHandler) SendResetCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.authService.SendResetCode(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "If the email exists, a code has been sent"})
}

func (h *AuthHandler) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	token, err := h.authService.VerifyResetCode(r.Context(), req.Email, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"resetToken": token})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResetToken  string `json:"resetToken"`
		NewPassword string `json:"newPassword"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.authService.ResetPassword(r.Context(), req.ResetToken, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset"})
}
