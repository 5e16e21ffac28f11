package httpapi

import (
	"net/http"
	"strings"

	"zooback/internal/auth"
	"zooback/internal/domain"
	"zooback/internal/repository"
	"zooback/internal/service"

	"go.uber.org/zap"
)

const medicalBase = "/api/v1/medical-records"

// MedicalHandler 医疗记录 Handler（读写均需 Veterinarian+，删除 Admin）
type MedicalHandler struct {
	medicalService service.MedicalService
	mw             *auth.Middleware
	logger         *zap.Logger
}

// NewMedicalHandler 创建医疗记录 Handler
func NewMedicalHandler(medicalService service.MedicalService, mw *auth.Middleware, logger *zap.Logger) *MedicalHandler {
	return &MedicalHandler{
		medicalService: medicalService,
		mw:             mw,
		logger:         logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *MedicalHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == medicalBase && r.Method == http.MethodGet:
		h.mw.RequireRank(domain.RoleVeterinarian, h.List)(w, r)
	case path == medicalBase && r.Method == http.MethodPost:
		h.mw.RequireRank(domain.RoleVeterinarian, h.Create)(w, r)
	case path == medicalBase+"/search/by-status" && r.Method == http.MethodGet:
		h.mw.RequireRank(domain.RoleVeterinarian, h.ByStatus)(w, r)
	case strings.HasPrefix(path, medicalBase+"/"):
		id := strings.TrimPrefix(path, medicalBase+"/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.mw.RequireRank(domain.RoleVeterinarian, func(w http.ResponseWriter, r *http.Request) { h.Get(w, r, id) })(w, r)
		case http.MethodPut:
			h.mw.RequireRank(domain.RoleVeterinarian, func(w http.ResponseWriter, r *http.Request) { h.Update(w, r, id) })(w, r)
		case http.MethodDelete:
			h.mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { h.Delete(w, r, id) })(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *MedicalHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.MedicalFilter{
		AnimalID: q.Get("animalId"),
		StaffID:  q.Get("staffId"),
		Status:   q.Get("status"),
		From:     parseTimePtr(q.Get("from")),
		To:       parseTimePtr(q.Get("to")),
	}
	result, err := h.medicalService.ListRecords(r.Context(), filter, parseInt(q.Get("page"), 1), parseInt(q.Get("size"), 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *MedicalHandler) ByStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	if !domain.HealthStatus(status).Valid() {
		writeError(w, domain.Validationf("Invalid health status '%s'", status))
		return
	}
	result, err := h.medicalService.ListRecords(r.Context(), repository.MedicalFilter{Status: status}, parseInt(q.Get("page"), 1), parseInt(q.Get("size"), 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *MedicalHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.medicalService.GetRecord(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *MedicalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.MedicalRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.medicalService.CreateRecord(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *MedicalHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	var req service.MedicalRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.medicalService.UpdateRecord(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *MedicalHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.medicalService.DeleteRecord(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
