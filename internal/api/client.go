package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"cardsnap/pkg/logger"
	"cardsnap/pkg/models"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	MaxRetries     = 3
	RetryDelay     = 500 * time.Millisecond
)

// Client talks to the card backend. The backend owns extraction, portrait
// generation and storage; this client only moves requests and responses.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// StatusError carries a non-2xx response so callers can phrase one
// user-facing message from it.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

func (e *StatusError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func NewClient(baseURL string, log *logger.Logger, options ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     log,
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) CheckConnection(ctx context.Context) error {
	if _, err := c.ListCards(ctx); err != nil {
		c.logger.Debug("Connection probe failed: %v", err)
		return fmt.Errorf("could not reach the card backend at %s. Please ensure:\n"+
			"1. The backend service is running\n"+
			"2. api_base_url (or %s) points at it", c.baseURL, "CARDSNAP_API_URL")
	}
	return nil
}

// UploadCard posts a photo to the backend and returns the extracted card.
func (c *Client) UploadCard(ctx context.Context, photoPath string) (models.Card, error) {
	data, err := readPhoto(photoPath)
	if err != nil {
		return models.Card{}, fmt.Errorf("failed to read photo: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(photoPath))
	if err != nil {
		return models.Card{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return models.Card{}, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return models.Card{}, fmt.Errorf("failed to build upload form: %w", err)
	}

	c.logger.Debug("Uploading %s (%d bytes)", photoPath, len(data))

	raw, err := c.send(ctx, http.MethodPost, "/api/cards", body.Bytes(), writer.FormDataContentType())
	if err != nil {
		return models.Card{}, err
	}

	return decodeCard(raw)
}

// SaveContext submits meeting context for a card. The backend updates the
// record, generates a summary portrait and returns the updated card.
func (c *Client) SaveContext(ctx context.Context, cardID string, cardCtx models.CardContext) (models.Card, error) {
	payload, err := json.Marshal(cardCtx)
	if err != nil {
		return models.Card{}, fmt.Errorf("failed to marshal context: %w", err)
	}

	path := fmt.Sprintf("/api/cards/%s/context", cardID)
	raw, err := c.send(ctx, http.MethodPost, path, payload, "application/json")
	if err != nil {
		return models.Card{}, err
	}

	return decodeCard(raw)
}

func (c *Client) ListCards(ctx context.Context) ([]models.Card, error) {
	raw, err := c.send(ctx, http.MethodGet, "/api/cards", nil, "")
	if err != nil {
		return nil, err
	}

	var cards []models.Card
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, fmt.Errorf("failed to parse card list: %w", err)
	}

	return cards, nil
}

func (c *Client) GetCard(ctx context.Context, cardID string) (models.Card, error) {
	raw, err := c.send(ctx, http.MethodGet, "/api/cards/"+cardID, nil, "")
	if err != nil {
		return models.Card{}, err
	}

	return decodeCard(raw)
}

// ResolveMediaURL makes the backend's server-relative media paths
// (e.g. /media/x.png) usable outside the backend host.
func (c *Client) ResolveMediaURL(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return c.baseURL + raw
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, contentType string) ([]byte, error) {
	requestID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Info("Retrying request (attempt %d/%d)...", attempt+1, MaxRetries)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(RetryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req.Header.Set("X-Request-ID", requestID)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = &StatusError{StatusCode: resp.StatusCode, Detail: errorDetail(respBody)}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Client errors are not transient; surface them immediately.
			return nil, &StatusError{StatusCode: resp.StatusCode, Detail: errorDetail(respBody)}
		}

		return respBody, nil
	}

	return nil, fmt.Errorf("after %d attempts: %w", MaxRetries, lastErr)
}

func decodeCard(raw []byte) (models.Card, error) {
	var card models.Card
	if err := json.Unmarshal(raw, &card); err != nil {
		return models.Card{}, fmt.Errorf("failed to parse card: %w", err)
	}
	return card, nil
}

func readPhoto(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("photo %s is empty", path)
	}
	return data, nil
}

// errorDetail extracts the backend's {"detail": "..."} error payload.
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}

	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) > 200 {
		trimmed = trimmed[:200]
	}
	return trimmed
}
