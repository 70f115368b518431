package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Supabase uploads through the Supabase Storage REST API.
type Supabase struct {
	BaseURL   string
	SecretKey string // service_role key
	Bucket    string
	Client    *http.Client
}

func (s *Supabase) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if s.BaseURL == "" || s.SecretKey == "" || s.Bucket == "" {
		return "", fmt.Errorf("supabase: set SUPABASE_URL, SUPABASE_SECRET_KEY and STORAGE_BUCKET: %w", ErrNotConfigured)
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	base := strings.TrimRight(s.BaseURL, "/")
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", base, s.Bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("apikey", s.SecretKey)
	req.Header.Set("Authorization", "Bearer "+s.SecretKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	req.Header.Set("x-upsert", "false")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("supabase request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := string(respBody)
		if resp.StatusCode == 400 || resp.StatusCode == 403 {
			if strings.Contains(bodyStr, "Invalid Compact JWS") || strings.Contains(bodyStr, "Unauthorized") {
				return "", fmt.Errorf("supabase storage requires the service_role key, not the anon key (body: %s)", bodyStr)
			}
		}
		if resp.StatusCode == 404 && strings.Contains(bodyStr, "Bucket not found") {
			return "", fmt.Errorf("supabase bucket %q does not exist: %w", s.Bucket, ErrNotConfigured)
		}
		return "", fmt.Errorf("supabase error: status %d body: %s", resp.StatusCode, bodyStr)
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", base, s.Bucket, key), nil
}
