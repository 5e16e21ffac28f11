package httpapi

import (
	"net/http"

	"zooback/internal/auth"
	"zooback/internal/domain"
	"zooback/internal/service"

	"go.uber.org/zap"
)

const imagesBase = "/api/v1/images"

// ImageHandler 图片上传 Handler
type ImageHandler struct {
	uploader service.ImageUploader
	mw       *auth.Middleware
	logger   *zap.Logger
}

// NewImageHandler 创建图片上传 Handler
func NewImageHandler(uploader service.ImageUploader, mw *auth.Middleware, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		uploader: uploader,
		mw:       mw,
		logger:   logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *ImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == imagesBase+"/upload" && r.Method == http.MethodPost:
		h.mw.RequireRank(domain.RoleZookeeper, h.Upload)(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// maxUploadBody base64 编码最大约为原始数据的 4/3，再留 JSON 包装余量
const maxUploadBody = (service.MaxImageBytes/3)*4 + 1<<20

func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename    string `json:"filename"`
		ImageBase64 string `json:"imageBase64"`
	}
	if err := readBodyJSON(r, maxUploadBody, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Filename == "" {
		writeError(w, domain.Validationf("Filename is required"))
		return
	}

	url, err := h.uploader.Upload(r.Context(), req.Filename, req.ImageBase64)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
