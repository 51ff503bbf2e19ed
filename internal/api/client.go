// Package api is the typed REST client for the nano-midea backend. It only
// moves data: merge semantics live in the engine packages, and
// re-authentication is the embedding application's problem.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/anonto42/nano-midea/appclient/validators"
	"go.uber.org/zap"
)

// ErrUnauthorized is returned when the session token is rejected. The
// client does not re-authenticate; callers decide what to surface.
var ErrUnauthorized = errors.New("unauthorized")

// PageMeta mirrors the backend's pagination meta block.
type PageMeta struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalItems      int  `json:"totalItems"`
	ItemsPerPage    int  `json:"itemsPerPage"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *PageMeta       `json:"meta"`
	Message string          `json:"message"`
}

// Client talks to the backend REST API.
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	validate *validators.Validator
	logger   *zap.Logger

	// Bounded-retry knobs for status polling.
	PollAttempts int
	PollDelay    time.Duration
}

// NewClient creates a REST client for the given base URL and session token.
func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:      baseURL,
		token:        token,
		http:         &http.Client{Timeout: 15 * time.Second},
		validate:     validators.NewValidator(),
		logger:       logger.Named("api"),
		PollAttempts: 10,
		PollDelay:    time.Second,
	}
}

// get issues a GET and decodes the envelope data into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) (*PageMeta, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, out)
}

// send issues a request with an optional JSON body and decodes the envelope
// data into out (out may be nil).
func (c *Client) send(ctx context.Context, method, path string, body, out any) (*PageMeta, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) (*PageMeta, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response for %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("api %s %s: %s", req.Method, req.URL.Path, msg)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode data for %s: %w", req.URL.Path, err)
		}
	}
	return env.Meta, nil
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("limit", fmt.Sprint(limit))
	return q
}
