package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"suppsearch/internal/models"
)

// HTTPTranslator calls an external translation service. The service is an
// independent deployment; only its request/response shape is known here.
type HTTPTranslator struct {
	URL    string
	Client *http.Client
}

// NewHTTPTranslator creates a translator client. client may carry OAuth2
// transport credentials; nil falls back to a plain client.
func NewHTTPTranslator(url string, client *http.Client) *HTTPTranslator {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPTranslator{URL: url, Client: client}
}

// Translate renders text into English.
func (t *HTTPTranslator) Translate(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(map[string]string{"text": text, "target": "en"})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translator returned HTTP %d", resp.StatusCode)
	}

	var out struct {
		Translated string `json:"translated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode translator response: %w", err)
	}
	return out.Translated, nil
}

// HTTPSearcher calls the external study search service with precomputed
// bounded parameters. The response payload is opaque to this subsystem.
type HTTPSearcher struct {
	URL    string
	Client *http.Client
}

// NewHTTPSearcher creates a search client. client may carry OAuth2 transport
// credentials; nil falls back to a plain client.
func NewHTTPSearcher(url string, client *http.Client) *HTTPSearcher {
	if client == nil {
		client = &http.Client{Timeout: 25 * time.Second}
	}
	return &HTTPSearcher{URL: url, Client: client}
}

// Search runs a bounded external search.
func (s *HTTPSearcher) Search(ctx context.Context, query string, filters models.SearchFilters) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{
		"query":       query,
		"year_from":   filters.YearFrom,
		"rct_only":    filters.RCTOnly,
		"max_studies": filters.MaxStudies,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search service returned HTTP %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	return raw, nil
}
