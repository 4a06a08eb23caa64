package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client HTTP клиент текстового советника
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL, apiKey string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Recommend подбирает мастера под пожелания клиента
func (c *Client) Recommend(ctx context.Context, resources []ResourceSummary, prefs Preferences) (*Recommendation, error) {
	var out Recommendation
	if err := c.post(ctx, "/v1/recommend", recommendRequest{Resources: resources, Preferences: prefs}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summarize формирует выводы по срезу аналитики
func (c *Client) Summarize(ctx context.Context, snapshot Snapshot) (*Summary, error) {
	var out Summary
	if err := c.post(ctx, "/v1/summarize", snapshot, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SuggestAlternatives предлагает замену отмененному бронированию
func (c *Client) SuggestAlternatives(ctx context.Context, req AlternativesRequest) (*Alternatives, error) {
	var out Alternatives
	if err := c.post(ctx, "/v1/alternatives", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaitlistMessage генерирует подтверждение записи в лист ожидания
func (c *Client) WaitlistMessage(ctx context.Context, prefs Preferences) (string, error) {
	var out waitlistMessageResponse
	if err := c.post(ctx, "/v1/waitlist-message", prefs, &out); err != nil {
		return "", err
	}
	if out.Message == "" {
		return "", fmt.Errorf("%w: empty message", ErrInvalidResponse)
	}
	return out.Message, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}
