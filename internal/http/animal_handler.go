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

const animalsBase = "/api/v1/animals"

// AnimalHandler 动物管理 Handler
type AnimalHandler struct {
	animalService service.AnimalService
	mw            *auth.Middleware
	logger        *zap.Logger
}

// NewAnimalHandler 创建动物管理 Handler
func NewAnimalHandler(animalService service.AnimalService, mw *auth.Middleware, logger *zap.Logger) *AnimalHandler {
	return &AnimalHandler{
		animalService: animalService,
		mw:            mw,
		logger:        logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *AnimalHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == animalsBase && r.Method == http.MethodGet:
		h.mw.Authenticate(h.List)(w, r)
	case path == animalsBase && r.Method == http.MethodPost:
		h.mw.RequireRank(domain.RoleZookeeper, h.Create)(w, r)
	case path == animalsBase+"/search/by-name" && r.Method == http.MethodGet:
		h.mw.Authenticate(h.SearchByName)(w, r)
	case path == animalsBase+"/search/by-species" && r.Method == http.MethodGet:
		h.mw.Authenticate(h.SearchBySpecies)(w, r)
	case path == animalsBase+"/search/by-age-range" && r.Method == http.MethodGet:
		h.mw.Authenticate(h.SearchByAgeRange)(w, r)
	case strings.HasPrefix(path, animalsBase+"/"):
		id := strings.TrimPrefix(path, animalsBase+"/")
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

func (h *AnimalHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.AnimalsFilter{
		Name:        q.Get("name"),
		Species:     q.Get("species"),
		Gender:      q.Get("gender"),
		CategoryID:  q.Get("categoryId"),
		EnclosureID: q.Get("enclosureId"),
		ArrivalFrom: parseTimePtr(q.Get("arrivalFrom")),
		ArrivalTo:   parseTimePtr(q.Get("arrivalTo")),
		MinAge:      parseIntPtr(q.Get("minAge")),
		MaxAge:      parseIntPtr(q.Get("maxAge")),
	}
	page := parseInt(q.Get("page"), 1)
	size := parseInt(q.Get("size"), 20)

	result, err := h.animalService.ListAnimals(r.Context(), filter, page, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AnimalHandler) SearchByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, domain.Validationf("Query parameter 'name' is required"))
		return
	}
	result, err := h.animalService.ListAnimals(r.Context(), repository.AnimalsFilter{Name: name}, 1, 20)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AnimalHandler) SearchBySpecies(w http.ResponseWriter, r *http.Request) {
	species := r.URL.Query().Get("species")
	if species == "" {
		writeError(w, domain.Validationf("Query parameter 'species' is required"))
		return
	}
	result, err := h.animalService.ListAnimals(r.Context(), repository.AnimalsFilter{Species: species}, 1, 20)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AnimalHandler) SearchByAgeRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minAge := parseIntPtr(q.Get("minAge"))
	maxAge := parseIntPtr(q.Get("maxAge"))
	if minAge == nil && maxAge == nil {
		writeError(w, domain.Validationf("Query parameter 'minAge' or 'maxAge' is required"))
		return
	}
	filter := repository.AnimalsFilter{MinAge: minAge, MaxAge: maxAge}
	result, err := h.animalService.ListAnimals(r.Context(), filter, parseInt(q.Get("page"), 1), parseInt(q.Get("size"), 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AnimalHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.animalService.GetAnimal(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AnimalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.AnimalRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.animalService.CreateAnimal(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *AnimalHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	var req service.AnimalRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.animalService.UpdateAnimal(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AnimalHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.animalService.DeleteAnimal(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
