package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handlers 路由注册所需的全部 Handler
type Handlers struct {
	Auth        *AuthHandler
	Accounts    *AccountHandler
	Categories  *CategoryHandler
	Enclosures  *EnclosureHandler
	Animals     *AnimalHandler
	Staff       *StaffHandler
	Assignments *AssignmentHandler
	Feeding     *FeedingHandler
	Medical     *MedicalHandler
	Images      *ImageHandler
	Reports     *ReportHandler
}

// RegisterRoutes 注册全部 API 路由
// 每个 Handler 自己做前缀内的方法/子路径分发
func (r *Router) RegisterRoutes(h Handlers) {
	r.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	r.Handle(authBase+"/", h.Auth)
	r.Handle(usersBase, h.Accounts)
	r.Handle(usersBase+"/", h.Accounts)
	r.Handle(rolesBase, h.Accounts)
	r.Handle(categoriesBase, h.Categories)
	r.Handle(categoriesBase+"/", h.Categories)
	r.Handle(enclosuresBase, h.Enclosures)
	r.Handle(enclosuresBase+"/", h.Enclosures)
	r.Handle(animalsBase, h.Animals)
	r.Handle(animalsBase+"/", h.Animals)
	r.Handle(staffBase, h.Staff)
	r.Handle(staffBase+"/", h.Staff)
	r.Handle(assignmentsBase, h.Assignments)
	r.Handle(assignmentsBase+"/", h.Assignments)
	r.Handle(feedingBase, h.Feeding)
	r.Handle(feedingBase+"/", h.Feeding)
	r.Handle(medicalBase, h.Medical)
	r.Handle(medicalBase+"/", h.Medical)
	r.Handle(imagesBase+"/", h.Images)
	r.Handle(reportsBase+"/", h.Reports)
}
