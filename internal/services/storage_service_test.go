package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"travelmind/internal/config"
	"travelmind/pkg/utils"
)

func TestStorageService_Upload(t *testing.T) {
	var gotPath, gotAuth, gotType, gotUpsert string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotUpsert = r.Header.Get("x-upsert")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"Key":"avatars/u/a.png"}`))
	}))
	defer srv.Close()

	svc := NewStorageService(config.StorageConfig{URL: srv.URL + "/", ServiceKey: "service-key"})
	publicURL, err := svc.Upload(context.Background(), "avatars", "u/a.png", "image/png", []byte("png-bytes"))

	require.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/avatars/u/a.png", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, "png-bytes", string(gotBody))
	assert.Equal(t, srv.URL+"/storage/v1/object/public/avatars/u/a.png", publicURL)
}

func TestStorageService_UploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"bucket not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewStorageService(config.StorageConfig{URL: srv.URL, ServiceKey: "k"})
	_, err := svc.Upload(context.Background(), "missing", "a.png", "image/png", []byte("x"))

	assert.ErrorIs(t, err, utils.ErrStorageFailed)
	assert.Contains(t, err.Error(), "bucket not found")
}

func TestStorageService_NotConfigured(t *testing.T) {
	svc := NewStorageService(config.StorageConfig{})
	_, err := svc.Upload(context.Background(), "avatars", "a.png", "image/png", []byte("x"))
	assert.ErrorIs(t, err, utils.ErrStorageFailed)
}
