// Package calcom is a client for the Cal.com v1 HTTP API. Credentials are
// per-employee API keys passed as the apiKey query parameter on every call.
package calcom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/npash/officemgr/pkg/metrics"
)

// DefaultBaseURL is the default Cal.com API host
const DefaultBaseURL = "https://api.cal.com"

// APIError is returned for any non-2xx response. It carries the raw
// response body so callers can surface the service's own message.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cal.com API error (%d): %s", e.StatusCode, e.Body)
}

// Client handles HTTP communication with the Cal.com API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Cal.com API client. The underlying HTTP client
// carries no timeout of its own; callers bound individual requests through
// their context where the operation requires it.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// doRequest performs an HTTP request to the Cal.com API
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, body interface{}, result interface{}) error {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	metrics.BookingServiceRequestsTotal.WithLabelValues(path, strconv.Itoa(resp.StatusCode)).Inc()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// GetEventTypes retrieves all event types visible to the given API key
func (c *Client) GetEventTypes(ctx context.Context, apiKey string) ([]EventType, error) {
	params := url.Values{}
	params.Set("apiKey", apiKey)

	var resp EventTypesResponse
	if err := c.doRequest(ctx, http.MethodGet, "/v1/event-types", params, nil, &resp); err != nil {
		return nil, err
	}

	return resp.EventTypes, nil
}

// CreateEventType creates a new event type owned by the given API key
func (c *Client) CreateEventType(ctx context.Context, apiKey string, req CreateEventTypeRequest) (*EventType, error) {
	params := url.Values{}
	params.Set("apiKey", apiKey)

	var resp CreateEventTypeResponse
	if err := c.doRequest(ctx, http.MethodPost, "/v1/event-types", params, req, &resp); err != nil {
		return nil, err
	}

	return &resp.EventType, nil
}

// CreateBooking creates a new booking in the calendar owned by the API key.
// The username identifies whose booking page receives the event.
func (c *Client) CreateBooking(ctx context.Context, apiKey, username string, req CreateBookingRequest) (*Booking, error) {
	params := url.Values{}
	params.Set("apiKey", apiKey)
	if username != "" {
		params.Set("username", username)
	}

	var booking Booking
	if err := c.doRequest(ctx, http.MethodPost, "/v1/bookings", params, req, &booking); err != nil {
		return nil, err
	}

	return &booking, nil
}

// GetSlots retrieves free slots for an event type in the given time range.
// startTime/endTime are passed through verbatim.
func (c *Client) GetSlots(ctx context.Context, apiKey, username string, eventTypeID int, startTime, endTime, timeZone string) (*SlotsResponse, error) {
	params := url.Values{}
	params.Set("apiKey", apiKey)
	params.Set("username", username)
	params.Set("eventTypeId", strconv.Itoa(eventTypeID))
	params.Set("startTime", startTime)
	params.Set("endTime", endTime)
	if timeZone != "" {
		params.Set("timeZone", timeZone)
	}

	var resp SlotsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/v1/slots", params, nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}
