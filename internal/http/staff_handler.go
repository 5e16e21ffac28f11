package httpapi

import (
	"net/http"
	"strings"

	"zooback/internal/auth"
	"zooback/internal/repository"
	"zooback/internal/service"

	"go.uber.org/zap"
)

const staffBase = "/api/v1/staff"

// StaffHandler 员工管理 Handler（全部 Admin）
type StaffHandler struct {
	staffService service.StaffService
	mw           *auth.Middleware
	logger       *zap.Logger
}

// NewStaffHandler 创建员工管理 Handler
func NewStaffHandler(staffService service.StaffService, mw *auth.Middleware, logger *zap.Logger) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
		mw:           mw,
		logger:       logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *StaffHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == staffBase && r.Method == http.MethodGet:
		h.mw.RequireAdmin(h.List)(w, r)
	case path == staffBase && r.Method == http.MethodPost:
		h.mw.RequireAdmin(h.Create)(w, r)
	case path == staffBase+"/search/by-department" && r.Method == http.MethodGet:
		h.mw.RequireAdmin(h.SearchByDepartment)(w, r)
	case strings.HasPrefix(path, staffBase+"/"):
		id := strings.TrimPrefix(path, staffBase+"/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { h.Get(w, r, id) })(w, r)
		case http.MethodPut:
			h.mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { h.Update(w, r, id) })(w, r)
		case http.MethodDelete:
			h.mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { h.Delete(w, r, id) })(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.StaffFilter{
		Department:  q.Get("department"),
		Position:    q.Get("position"),
		MinSalary:   parseFloatPtr(q.Get("minSalary")),
		MaxSalary:   parseFloatPtr(q.Get("maxSalary")),
		HiredAfter:  parseTimePtr(q.Get("hiredAfter")),
		HiredBefore: parseTimePtr(q.Get("hiredBefore")),
	}
	page := parseInt(q.Get("page"), 1)
	size := parseInt(q.Get("size"), 20)

	result, err := h.staffService.ListStaff(r.Context(), filter, page, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *StaffHandler) SearchByDepartment(w http.ResponseWriter, r *http.Request) {
	department := r.URL.Query().Get("department")
	result, err := h.staffService.ListStaff(r.Context(), repository.StaffFilter{Department: department}, 1, 20)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.staffService.GetStaff(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.StaffRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.staffService.CreateStaff(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	var req service.StaffRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.staffService.UpdateStaff(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.staffService.DeleteStaff(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
