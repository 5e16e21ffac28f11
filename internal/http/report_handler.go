package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"zooback/internal/auth"
	"zooback/internal/domain"
	"zooback/internal/service"

	"go.uber.org/zap"
)

const reportsBase = "/api/v1/reports"

// ReportHandler Excel 报表 Handler
type ReportHandler struct {
	reportService service.ReportService
	mw            *auth.Middleware
	logger        *zap.Logger
}

// NewReportHandler 创建报表 Handler
func NewReportHandler(reportService service.ReportService, mw *auth.Middleware, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		mw:            mw,
		logger:        logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == reportsBase+"/animals.xlsx" && r.Method == http.MethodGet:
		h.mw.RequireRank(domain.RoleZookeeper, h.Animals)(w, r)
	case r.URL.Path == reportsBase+"/feeding-schedules.xlsx" && r.Method == http.MethodGet:
		h.mw.RequireRank(domain.RoleZookeeper, h.FeedingSchedules)(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeWorkbook(w http.ResponseWriter, name string, data []byte) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *ReportHandler) Animals(w http.ResponseWriter, r *http.Request) {
	data, err := h.reportService.AnimalsReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeWorkbook(w, "animals", data)
}

func (h *ReportHandler) FeedingSchedules(w http.ResponseWriter, r *http.Request) {
	data, err := h.reportService.FeedingSchedulesReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeWorkbook(w, "feeding-schedules", data)
}
