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

const feedingBase = "/api/v1/feeding-schedules"

// FeedingHandler 喂食计划 Handler
type FeedingHandler struct {
	feedingService service.FeedingService
	mw             *auth.Middleware
	logger         *zap.Logger
}

// NewFeedingHandler 创建喂食计划 Handler
func NewFeedingHandler(feedingService service.FeedingService, mw *auth.Middleware, logger *zap.Logger) *FeedingHandler {
	return &FeedingHandler{
		feedingService: feedingService,
		mw:             mw,
		logger:         logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *FeedingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == feedingBase && r.Method == http.MethodGet:
		h.mw.Authenticate(h.List)(w, r)
	case path == feedingBase && r.Method == http.MethodPost:
		h.mw.RequireRank(domain.RoleZookeeper, h.Create)(w, r)
	case path == feedingBase+"/search/by-date-range" && r.Method == http.MethodGet:
		h.mw.Authenticate(h.ByDateRange)(w, r)
	case strings.HasPrefix(path, feedingBase+"/"):
		id := strings.TrimPrefix(path, feedingBase+"/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.mw.Authenticate(func(w http.ResponseWriter, r *http.Request) { h.Get(w, r, id) })(w, r)
		case http.MethodPut:
			h.mw.RequireRank(domain.RoleZookeeper, func(w http.ResponseWriter, r *http.Request) { h.Update(w, r, id) })(w, r)
		case http.MethodDelete:
			h.mw.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { h.Delete(w, r, id) })(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *FeedingHandler) filter(r *http.Request) repository.FeedingFilter {
	q := r.URL.Query()
	return repository.FeedingFilter{
		AnimalID: q.Get("animalId"),
		StaffID:  q.Get("staffId"),
		Status:   q.Get("status"),
		From:     parseTimePtr(q.Get("from")),
		To:       parseTimePtr(q.Get("to")),
	}
}

func (h *FeedingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.feedingService.ListSchedules(r.Context(), h.filter(r), parseInt(q.Get("page"), 1), parseInt(q.Get("size"), 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *FeedingHandler) ByDateRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from := parseTimePtr(q.Get("from"))
	to := parseTimePtr(q.Get("to"))
	if from == nil || to == nil {
		writeError(w, domain.Validationf("Query parameters 'from' and 'to' are required"))
		return
	}
	filter := repository.FeedingFilter{From: from, To: to}
	result, err := h.feedingService.ListSchedules(r.Context(), filter, parseInt(q.Get("page"), 1), parseInt(q.Get("size"), 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *FeedingHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.feedingService.GetSchedule(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *FeedingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.FeedingRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.feedingService.CreateSchedule(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *FeedingHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	var req service.FeedingRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.feedingService.UpdateSchedule(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *FeedingHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.feedingService.DeleteSchedule(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
