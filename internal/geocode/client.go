package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Result is a single match returned by the geocoding service.
// Coordinates come back as strings and must be parsed before use.
type Result struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// ParseLatLon converts the textual coordinates of a result.
func (r Result) ParseLatLon() (float64, float64, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse lat %q: %w", r.Lat, err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse lon %q: %w", r.Lon, err)
	}
	return lat, lon, nil
}

// ServiceError is any failure talking to the geocoding service. Callers
// treat it as "no results" for state purposes but surface the message once.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

// Geocoder resolves addresses to coordinates and back.
type Geocoder interface {
	Forward(ctx context.Context, address string) ([]Result, error)
	Reverse(ctx context.Context, lat, lng float64) (string, error)
}

// Client talks to a Nominatim-compatible service. No retries; the retry
// policy belongs to the caller.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	http      *http.Client
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		timeout:   timeout,
		http:      &http.Client{},
	}
}

func (c *Client) Forward(ctx context.Context, address string) ([]Result, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=5", c.baseURL, url.QueryEscape(address))

	var results []Result
	if err := c.get(ctx, endpoint, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	endpoint := fmt.Sprintf("%s/reverse?lat=%s&lon=%s&format=json",
		c.baseURL,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lng, 'f', -1, 64))

	var body struct {
		DisplayName string `json:"display_name"`
		Error       string `json:"error"`
	}
	if err := c.get(ctx, endpoint, &body); err != nil {
		return "", err
	}
	if body.Error != "" {
		return "", &ServiceError{Message: "reverse geocoding failed: " + body.Error}
	}
	return body.DisplayName, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &ServiceError{Message: err.Error()}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &ServiceError{Message: "geocode request timed out"}
		}
		return &ServiceError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ServiceError{Message: fmt.Sprintf("geocoding service returned status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ServiceError{Message: err.Error()}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ServiceError{Message: "invalid geocoding response: " + err.Error()}
	}
	return nil
}
