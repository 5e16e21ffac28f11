package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"zooback/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// 允许的图片扩展名
var allowedImageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"bmp":  true,
	"webp": true,
}

// MaxImageBytes 解码后图片大小上限（32 MiB，与 ImgBB 限制一致）
const MaxImageBytes = 32 << 20

// ImgBBResponse ImgBB API 响应
type ImgBBResponse struct {
	Data struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
		DeleteURL  string `json:"delete_url"`
	} `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

// ImageUploader 图片上传接口（测试时可替换）
type ImageUploader interface {
	Upload(ctx context.Context, filename, imageBase64 string) (string, error)
}

// ImgBBClient ImgBB 图床客户端
type ImgBBClient struct {
	httpClient *resty.Client
	apiKey     string
	logger     *zap.Logger
}

// NewImgBBClient 创建 ImgBB 客户端
func NewImgBBClient(apiURL, apiKey string, logger *zap.Logger) *ImgBBClient {
	client := resty.New().
		SetBaseURL(apiURL).
		SetTimeout(60 * time.Second). // 大图上传可能需要较长时间
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)

	return &ImgBBClient{
		httpClient: client,
		apiKey:     apiKey,
		logger:     logger,
	}
}

var _ ImageUploader = (*ImgBBClient)(nil)

// Upload 上传 base64 编码的图片，返回托管 URL
func (c *ImgBBClient) Upload(ctx context.Context, filename, imageBase64 string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(extension(filename), "."))
	if !allowedImageExtensions[ext] {
		return "", domain.Validationf("File extension '%s' is not allowed", ext)
	}

	decoded, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return "", domain.Validationf("Image payload is not valid base64")
	}
	if len(decoded) == 0 {
		return "", domain.Validationf("Image payload is empty")
	}
	if len(decoded) > MaxImageBytes {
		return "", domain.Validationf("Image exceeds the 32 MiB limit")
	}

	var result ImgBBResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetFormData(map[string]string{
			"image": imageBase64,
			"name":  filename,
		}).
		SetResult(&result).
		Post("")
	if err != nil {
		return "", fmt.Errorf("imgbb upload failed: %w", err)
	}
	if resp.IsError() || !result.Success {
		c.logger.Warn("ImgBB upload rejected",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("filename", filename),
		)
		return "", fmt.Errorf("imgbb upload failed with status %d", resp.StatusCode())
	}

	c.logger.Info("Image uploaded",
		zap.String("filename", filename),
		zap.Int("size_bytes", len(decoded)),
	)
	return result.Data.URL, nil
}

func extension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return filename[idx:]
}
