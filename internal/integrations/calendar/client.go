package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/inksync/studio-booking/internal/domain"
)

// Client клиент шлюза внешних календарей
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetBusyIntervals получает занятые интервалы календаря ресурса.
// Для ресурса без календаря возвращает пустой список.
func (c *Client) GetBusyIntervals(ctx context.Context, resource *domain.Resource, from, to time.Time) ([]BusyInterval, error) {
	if !resource.HasCalendar() {
		return nil, nil
	}

	query := url.Values{}
	query.Set("from", from.UTC().Format(time.RFC3339))
	query.Set("to", to.UTC().Format(time.RFC3339))
	endpoint := fmt.Sprintf("%s/calendars/%s/busy?%s", c.baseURL, url.PathEscape(*resource.CalendarID), query.Encode())

	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrCalendarNotFound
	default:
		return nil, unexpectedStatus(resp)
	}

	var body busyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return body.Busy, nil
}

// CreateEvent создает зеркальное событие и возвращает его ID.
// Для ресурса без календаря возвращает пустую строку.
func (c *Client) CreateEvent(ctx context.Context, resource *domain.Resource, interval domain.Interval, meta EventMetadata) (string, error) {
	if !resource.HasCalendar() {
		return "", nil
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, url.PathEscape(*resource.CalendarID))
	payload := eventRequest{Start: interval.Start, End: interval.End, EventMetadata: meta}

	resp, err := c.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusNotFound:
		return "", ErrCalendarNotFound
	default:
		return "", unexpectedStatus(resp)
	}

	var body eventResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if body.ID == "" {
		return "", fmt.Errorf("%w: empty event id", ErrInvalidResponse)
	}

	c.log.Info("Calendar event %s created for booking id=%d", body.ID, meta.BookingID)
	return body.ID, nil
}

// UpdateEvent переносит зеркальное событие на новый интервал
func (c *Client) UpdateEvent(ctx context.Context, resource *domain.Resource, eventID string, interval domain.Interval, meta EventMetadata) error {
	if !resource.HasCalendar() || eventID == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s", c.baseURL,
		url.PathEscape(*resource.CalendarID), url.PathEscape(eventID))
	payload := eventRequest{Start: interval.Start, End: interval.End, EventMetadata: meta}

	resp, err := c.do(ctx, http.MethodPut, endpoint, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrEventNotFound
	default:
		return unexpectedStatus(resp)
	}
}

// DeleteEvent удаляет зеркальное событие. Отсутствующее событие не считается ошибкой.
func (c *Client) DeleteEvent(ctx context.Context, resource *domain.Resource, eventID string) error {
	if !resource.HasCalendar() || eventID == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s", c.baseURL,
		url.PathEscape(*resource.CalendarID), url.PathEscape(eventID))

	resp, err := c.do(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound, http.StatusGone:
		return nil
	default:
		return unexpectedStatus(resp)
	}
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	return resp, nil
}

func unexpectedStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
}
