package httpapi

import (
	"net/http"
	"strings"

	"zooback/internal/auth"
	"zooback/internal/repository"
	"zooback/internal/service"

	"go.uber.org/zap"
)

const assignmentsBase = "/api/v1/assignments"

// AssignmentHandler 员工-动物分配 Handler
// 复合主键路径为 /{staffID}/{animalID}
type AssignmentHandler struct {
	assignmentService service.AssignmentService
	mw                *auth.Middleware
	logger            *zap.Logger
}

// NewAssignmentHandler 创建分配 Handler
func NewAssignmentHandler(assignmentService service.AssignmentService, mw *auth.Middleware, logger *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		mw:                mw,
		logger:            logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *AssignmentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == assignmentsBase && r.Method == http.MethodGet:
		h.mw.Authenticate(h.List)(w, r)
	case path == assignmentsBase && r.Method == http.MethodPost:
		h.mw.RequireAdmin(h.Create)(w, r)
	case path == assignmentsBase+"/search/with-observations" && r.Method == http.MethodGet:
		h.mw.Authenticate(h.WithObservations)(w, r)
	case strings.HasPrefix(path, assignmentsBase+"/"):
		rest := strings.TrimPrefix(path, assignmentsBase+"/")
		parts := strings.Split(rest, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		staffID, animalID := parts[0], parts[1]
		switch r.Method {
		case http.MethodGet:
			h.mw.Authenticate(func(w http.ResponseWriter, r *http.Request) { h.Get(w, r, staffID, animalID) })(w, r)
		case http.MethodPut:
			h.mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { h.Update(w, r, staffID, animalID) })(w, r)
		case http.MethodDelete:
			h.mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { h.Delete(w, r, staffID, animalID) })(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.AssignmentsFilter{
		StaffID:     q.Get("staffId"),
		AnimalID:    q.Get("animalId"),
		CreatedFrom: parseTimePtr(q.Get("createdFrom")),
		CreatedTo:   parseTimePtr(q.Get("createdTo")),
	}
	page := parseInt(q.Get("page"), 1)
	size := parseInt(q.Get("size"), 20)

	result, err := h.assignmentService.ListAssignments(r.Context(), filter, page, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AssignmentHandler) WithObservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.AssignmentsFilter{WithObservations: true}
	result, err := h.assignmentService.ListAssignments(r.Context(), filter, parseInt(q.Get("page"), 1), parseInt(q.Get("size"), 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request, staffID, animalID string) {
	result, err := h.assignmentService.GetAssignment(r.Context(), staffID, animalID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.AssignmentRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.assignmentService.CreateAssignment(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request, staffID, animalID string) {
	var req service.AssignmentRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.assignmentService.UpdateAssignment(r.Context(), staffID, animalID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request, staffID, animalID string) {
	if err := h.assignmentService.DeleteAssignment(r.Context(), staffID, animalID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
