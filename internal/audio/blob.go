package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// BlobStore is where finished audio lives. Objects are addressed by the
// deterministic keys from Key().
type BlobStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	URL(key string) string
}

// HTTPBlobStore is a thin client for an S3-compatible bucket exposed
// over plain HTTP with a bearer token (the audio CDN).
type HTTPBlobStore struct {
	BaseURL   string
	PublicURL string
	Bucket    string
	Token     string
	HTTP      *http.Client
}

func NewHTTPBlobStore(baseURL, publicURL, bucket, token string) *HTTPBlobStore {
	return &HTTPBlobStore{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		PublicURL: strings.TrimRight(publicURL, "/"),
		Bucket:    bucket,
		Token:     token,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPBlobStore) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.BaseURL, s.Bucket, key)
}

// URL is the public address clients play from.
func (s *HTTPBlobStore) URL(key string) string {
	if s.PublicURL != "" {
		return fmt.Sprintf("%s/%s", s.PublicURL, key)
	}
	return s.objectURL(key)
}

func (s *HTTPBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.objectURL(key), nil)
	if err != nil {
		return false, fmt.Errorf("build head request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return false, fmt.Errorf("head %s: %w", key, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	return false, fmt.Errorf("head %s: status %d", key, resp.StatusCode)
}

func (s *HTTPBlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.objectURL(key), bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build put request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "public, max-age=31536000")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("put %s: status %d", key, resp.StatusCode)
	}
	return s.URL(key), nil
}
