package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"zooback/internal/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var tinyPNG = base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a})

func TestImgBBClient_RejectsBadInput(t *testing.T) {
	c := NewImgBBClient("http://imgbb.invalid/upload", "test-key", zap.NewNop())
	ctx := context.Background()

	_, err := c.Upload(ctx, "malware.exe", tinyPNG)
	require.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = c.Upload(ctx, "no-extension", tinyPNG)
	require.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = c.Upload(ctx, "photo.png", "%%% not base64 %%%")
	require.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = c.Upload(ctx, "photo.png", "")
	require.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestImgBBClient_UploadSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, r.ParseForm())
		require.Equal(t, "photo.png", r.FormValue("name"))

		var reply ImgBBResponse
		reply.Success = true
		reply.Status = 200
		reply.Data.URL = "https://i.ibb.co/test/photo.png"

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reply)
	}))
	defer srv.Close()

	c := NewImgBBClient(srv.URL, "test-key", zap.NewNop())
	url, err := c.Upload(context.Background(), "photo.png", tinyPNG)
	require.NoError(t, err)
	require.Equal(t, "https://i.ibb.co/test/photo.png", url)
}

func TestImgBBClient_UploadRejectedByService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"status":400}`))
	}))
	defer srv.Close()

	c := NewImgBBClient(srv.URL, "test-key", zap.NewNop())
	_, err := c.Upload(context.Background(), "photo.png", tinyPNG)
	require.Error(t, err)
}
