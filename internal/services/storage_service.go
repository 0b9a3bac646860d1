package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"travelmind/internal/config"
	"travelmind/internal/observability"
	"travelmind/pkg/utils"
)

// ObjectStorageInterface uploads public files to the platform's object store.
type ObjectStorageInterface interface {
	Upload(ctx context.Context, bucket, objectPath, contentType string, body []byte) (string, error)
}

type StorageService struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

func NewStorageService(cfg config.StorageConfig) ObjectStorageInterface {
	return &StorageService{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload writes body to bucket/objectPath, overwriting any existing object,
// and returns its public URL.
func (s *StorageService) Upload(ctx context.Context, bucket, objectPath, contentType string, body []byte) (string, error) {
	if s.baseURL == "" {
		return "", fmt.Errorf("%w: storage url not configured", utils.ErrStorageFailed)
	}
	escaped := escapePath(bucket + "/" + objectPath)
	endpoint := s.baseURL + "/storage/v1/object/" + escaped

	ctx, finish := observability.StartVendorSpan(ctx, "storage", "object.upload",
		attribute.String("storage.bucket", bucket),
		attribute.Int("storage.bytes", len(body)))
	var err error
	defer func() { finish(err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrStorageFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")
	req.Header.Set("Cache-Control", "3600")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: %v", utils.ErrStorageFailed, err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err = fmt.Errorf("%w: status %d: %s", utils.ErrStorageFailed, resp.StatusCode, strings.TrimSpace(string(msg)))
		slog.ErrorContext(ctx, "Object upload rejected",
			slog.String("bucket", bucket), slog.Int("status", resp.StatusCode))
		return "", err
	}

	return s.baseURL + "/storage/v1/object/public/" + escaped, nil
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
