package httpapi

import (
	"net/http"
	"strings"
	"time"

	"zooback/internal/auth"
	"zooback/internal/domain"
	"zooback/internal/repository"
	"zooback/internal/service"

	"go.uber.org/zap"
)

const (
	usersBase = "/api/v1/users"
	rolesBase = "/api/v1/roles"
)

// AccountHandler 账号管理 Handler（Admin）
type AccountHandler struct {
	userService service.UserService
	mw          *auth.Middleware
	logger      *zap.Logger
}

// NewAccountHandler 创建账号管理 Handler
func NewAccountHandler(userService service.UserService, mw *auth.Middleware, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		userService: userService,
		mw:          mw,
		logger:      logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *AccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == rolesBase && r.Method == http.MethodGet:
		h.mw.Authenticate(h.ListRoles)(w, r)
	case path == usersBase && r.Method == http.MethodGet:
		h.mw.RequireAdmin(h.List)(w, r)
	case strings.HasPrefix(path, usersBase+"/"):
		rest := strings.TrimPrefix(path, usersBase+"/")
		parts := strings.Split(rest, "/")
		id := parts[0]
		if id == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch {
		case len(parts) == 1 && r.Method == http.MethodGet:
			h.mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { h.Get(w, r, id) })(w, r)
		case len(parts) == 1 && r.Method == http.MethodPut:
			h.mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { h.Update(w, r, id) })(w, r)
		case len(parts) == 1 && r.Method == http.MethodDelete:
			h.mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { h.Delete(w, r, id) })(w, r)
		case len(parts) == 2 && parts[1] == "details" && r.Method == http.MethodGet:
			h.mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { h.GetDetails(w, r, id) })(w, r)
		case len(parts) == 2 && parts[1] == "details" && r.Method == http.MethodPut:
			h.mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { h.UpdateDetails(w, r, id) })(w, r)
		case len(parts) == 2 && parts[1] == "roles" && r.Method == http.MethodGet:
			h.mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { h.ListGrantedRoles(w, r, id) })(w, r)
		case len(parts) == 2 && parts[1] == "roles" && r.Method == http.MethodPost:
			h.mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { h.GrantRole(w, r, id) })(w, r)
		case len(parts) == 3 && parts[1] == "roles" && r.Method == http.MethodDelete:
			role := parts[2]
			h.mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { h.RevokeRole(w, r, id, role) })(w, r)
		case len(parts) == 2 && parts[1] == "current-role" && r.Method == http.MethodPost:
			h.mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { h.ChangeCurrentRole(w, r, id) })(w, r)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// detailsView 账号明细 JSON 视图（sql.Null* 不直接序列化）
func detailsView(d *domain.AccountDetails) map[string]any {
	if d == nil {
		return nil
	}
	v := map[string]any{
		"accountId":   d.AccountID,
		"firstName":   d.FirstName.String,
		"lastName":    d.LastName.String,
		"gender":      d.Gender.String,
		"phone":       d.Phone.String,
		"homeAddress": d.HomeAddress.String,
		"imageUrl":    d.ImageURL.String,
	}
	if d.BirthDate.Valid {
		v["birthDate"] = d.BirthDate.Time.Format("2006-01-02")
	}
	return v
}

func (h *AccountHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.userService.ListRoles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]map[string]any, 0, len(roles))
	for _, role := range roles {
		out = append(out, map[string]any{
			"roleId": role.RoleID,
			"name":   string(role.Name),
			"rank":   role.Name.Rank(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.AccountsFilter{
		Username: q.Get("username"),
		Email:    q.Get("email"),
		RoleName: q.Get("role"),
	}
	result, err := h.userService.ListAccounts(r.Context(), filter, parseInt(q.Get("page"), 1), parseInt(q.Get("size"), 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.userService.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	var req service.UpdateAccountRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.userService.UpdateAccount(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.userService.DeleteAccount(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) GetDetails(w http.ResponseWriter, r *http.Request, id string) {
	details, err := h.userService.GetDetails(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detailsView(details))
}

func (h *AccountHandler) UpdateDetails(w http.ResponseWriter, r *http.Request, id string) {
	var req service.UpdateDetailsRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	details, err := h.userService.UpdateDetails(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detailsView(details))
}

func (h *AccountHandler) ListGrantedRoles(w http.ResponseWriter, r *http.Request, id string) {
	roles, err := h.userService.ListGrantedRoles(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		out = append(out, string(role.Name))
	}
	writeJSON(w, http.StatusOK, out)
}

type roleRequest struct {
	Role string `json:"role"`
}

func (h *AccountHandler) GrantRole(w http.ResponseWriter, r *http.Request, id string) {
	var req roleRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.userService.GrantRole(r.Context(), id, req.Role); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Role granted"})
}

func (h *AccountHandler) RevokeRole(w http.ResponseWriter, r *http.Request, id, role string) {
	if err := h.userService.RemoveGrantedRole(r.Context(), id, role); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) ChangeCurrentRole(w http.ResponseWriter, r *http.Request, id string) {
	var req roleRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.userService.ChangeCurrentRole(r.Context(), id, req.Role); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Current role changed",
		"changedAt": time.Now().UTC(),
	})
}
