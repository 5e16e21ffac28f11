package httpapi

import (
	"net/http"
	"strings"

	"zooback/internal/auth"
	"zooback/internal/repository"
	"zooback/internal/service"

	"go.uber.org/zap"
)

const enclosuresBase = "/api/v1/enclosures"

// EnclosureHandler 围栏管理 Handler
type EnclosureHandler struct {
	enclosureService service.EnclosureService
	mw               *auth.Middleware
	logger           *zap.Logger
}

// NewEnclosureHandler 创建围栏管理 Handler
func NewEnclosureHandler(enclosureService service.EnclosureService, mw *auth.Middleware, logger *zap.Logger) *EnclosureHandler {
	return &EnclosureHandler{
		enclosureService: enclosureService,
		mw:               mw,
		logger:           logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *EnclosureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == enclosuresBase && r.Method == http.MethodGet:
		h.mw.Authenticate(h.List)(w, r)
	case path == enclosuresBase && r.Method == http.MethodPost:
		h.mw.RequireAdmin(h.Create)(w, r)
	case path == enclosuresBase+"/search/at-capacity" && r.Method == http.MethodGet:
		h.mw.Authenticate(h.AtCapacity)(w, r)
	case path == enclosuresBase+"/search/available" && r.Method == http.MethodGet:
		h.mw.Authenticate(h.Available)(w, r)
	case path == enclosuresBase+"/search/empty" && r.Method == http.MethodGet:
		h.mw.Authenticate(h.Empty)(w, r)
	case strings.HasPrefix(path, enclosuresBase+"/"):
		id := strings.TrimPrefix(path, enclosuresBase+"/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.mw.Authenticate(func(w http.ResponseWriter, r *http.Request) { h.Get(w, r, id) })(w, r)
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

func (h *EnclosureHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.EnclosuresFilter{
		Name:        q.Get("name"),
		Type:        q.Get("type"),
		Location:    q.Get("location"),
		MinCapacity: parseIntPtr(q.Get("minCapacity")),
		MaxCapacity: parseIntPtr(q.Get("maxCapacity")),
	}
	page := parseInt(q.Get("page"), 1)
	size := parseInt(q.Get("size"), 20)

	result, err := h.enclosureService.ListEnclosures(r.Context(), filter, page, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *EnclosureHandler) AtCapacity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.enclosureService.ListAtCapacity(r.Context(), parseInt(q.Get("page"), 1), parseInt(q.Get("size"), 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *EnclosureHandler) Available(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.enclosureService.ListAvailable(r.Context(), parseInt(q.Get("page"), 1), parseInt(q.Get("size"), 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *EnclosureHandler) Empty(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.enclosureService.ListEmpty(r.Context(), parseInt(q.Get("page"), 1), parseInt(q.Get("size"), 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *EnclosureHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.enclosureService.GetEnclosure(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *EnclosureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.EnclosureRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.enclosureService.CreateEnclosure(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *EnclosureHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	var req service.EnclosureRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.enclosureService.UpdateEnclosure(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *EnclosureHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.enclosureService.DeleteEnclosure(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
