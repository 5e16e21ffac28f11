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

const categoriesBase = "/api/v1/categories"

// CategoryHandler 类别管理 Handler
type CategoryHandler struct {
	categoryService service.CategoryService
	mw              *auth.Middleware
	logger          *zap.Logger
}

// NewCategoryHandler 创建类别管理 Handler
func NewCategoryHandler(categoryService service.CategoryService, mw *auth.Middleware, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		mw:              mw,
		logger:          logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *CategoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == categoriesBase && r.Method == http.MethodGet:
		h.mw.Authenticate(h.List)(w, r)
	case path == categoriesBase && r.Method == http.MethodPost:
		h.mw.RequireRank(domain.RoleZookeeper, h.Create)(w, r)
	case path == categoriesBase+"/search/by-name" && r.Method == http.MethodGet:
		h.mw.Authenticate(h.SearchByName)(w, r)
	case path == categoriesBase+"/search/by-animal-count" && r.Method == http.MethodGet:
		h.mw.Authenticate(h.SearchByAnimalCount)(w, r)
	case path == categoriesBase+"/search/empty" && r.Method == http.MethodGet:
		h.mw.Authenticate(h.SearchEmpty)(w, r)
	case strings.HasPrefix(path, categoriesBase+"/"):
		id := strings.TrimPrefix(path, categoriesBase+"/")
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

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.CategoriesFilter{Name: q.Get("name")}
	page := parseInt(q.Get("page"), 1)
	size := parseInt(q.Get("size"), 20)

	result, err := h.categoryService.ListCategories(r.Context(), filter, page, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CategoryHandler) SearchByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, domain.Validationf("Query parameter 'name' is required"))
		return
	}
	result, err := h.categoryService.ListCategories(r.Context(), repository.CategoriesFilter{Name: name}, 1, 20)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CategoryHandler) SearchByAnimalCount(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minCount := parseIntPtr(q.Get("minCount"))
	maxCount := parseIntPtr(q.Get("maxCount"))
	if minCount == nil && maxCount == nil {
		writeError(w, domain.Validationf("Query parameter 'minCount' or 'maxCount' is required"))
		return
	}
	result, err := h.categoryService.ListByAnimalCount(r.Context(), minCount, maxCount, parseInt(q.Get("page"), 1), parseInt(q.Get("size"), 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CategoryHandler) SearchEmpty(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.categoryService.ListEmpty(r.Context(), parseInt(q.Get("page"), 1), parseInt(q.Get("size"), 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.categoryService.GetCategory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CategoryRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.categoryService.CreateCategory(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	var req service.CategoryRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.categoryService.UpdateCategory(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.categoryService.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
