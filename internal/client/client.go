package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Failure taxonomy for proxy calls.
var (
	ErrTransport   = errors.New("proxy unreachable")
	ErrCredentials = errors.New("proxy rejected credentials")
	ErrAPI         = errors.New("proxy request failed")
	ErrMalformed   = errors.New("malformed proxy response")
)

// Client talks to the proxy's uniform GET /api?endpoint=... interface.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a proxy client. baseURL is the full URL of the proxy's api
// resource, e.g. http://localhost:8080/api.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the proxy URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Query selects a logical data source and its auxiliary parameters.
type Query struct {
	Endpoint string
	Year     string
	Champion string
	Trace    bool
	Config   bool
}

// Values encodes the query as URL parameters. Empty values are omitted.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("endpoint", q.Endpoint)
	if q.Year != "" {
		v.Set("year", q.Year)
	}
	if q.Champion != "" {
		v.Set("champion", q.Champion)
	}
	if q.Trace {
		v.Set("trace", "true")
	}
	if q.Config {
		v.Set("config", "true")
	}
	return v
}

type envelope struct {
	Data []json.RawMessage `json:"data"`
}

// Get fetches the data array for a query. A response without a non-empty
// data array is reported as ErrMalformed.
func (c *Client) Get(ctx context.Context, q Query) ([]json.RawMessage, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse base url: %v", ErrTransport, err)
	}
	u.RawQuery = q.Values().Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w (status %d)", ErrCredentials, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w (status %d): %s", ErrAPI, resp.StatusCode, string(bodyBytes))
	}

	var body envelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(body.Data) == 0 {
		return nil, fmt.Errorf("%w: empty data array", ErrMalformed)
	}

	return body.Data, nil
}

// Decode unmarshals every raw record into T.
func Decode[T any](raw []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformed, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
