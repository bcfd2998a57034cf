package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Shortener wraps a long callback URL through an external shortlink
// provider. The provider is the out-of-band hop subjects must pass before
// the callback fires.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
}

// ShortlinkAPI talks to providers exposing the common
// "POST {base}/api/shorten" contract.
type ShortlinkAPI struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

func (s *ShortlinkAPI) Shorten(ctx context.Context, longURL string) (string, error) {
	body, err := jsoniter.Marshal(map[string]string{
		"url":     longURL,
		"api_key": s.APIKey,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint+"/api/shorten", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("shortlink provider: status %v: %s", resp.StatusCode, b)
	}
	var payload struct {
		ShortURL string `json:"short_url"`
	}
	if err := jsoniter.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.ShortURL == "" {
		return "", fmt.Errorf("shortlink provider: empty short_url")
	}
	return payload.ShortURL, nil
}
