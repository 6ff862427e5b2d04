// Package client is a Go client for the dashboard API. It plays the part of
// the browser dashboards: it authenticates, fetches views for the active
// filter and drops responses for filters that are no longer active.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/analytics"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/hr"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/labor"
	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// checkResp returns an *APIError if the status is not 2xx.
func checkResp(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	var e struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

// Client calls the dashboard API. It keeps the bearer token from the last
// login or registration.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: &http.Client{Timeout: 30 * time.Second}}
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Register calls POST /api/register and keeps the returned token.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/register", nil, req, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Login calls POST /api/login and keeps the returned token.
func (c *Client) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/login", nil, req, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Me calls GET /api/user.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/api/user", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Dashboard calls GET /api/analytics/dashboard for f.
func (c *Client) Dashboard(ctx context.Context, f analytics.Filter) (*analytics.Dashboard, error) {
	var out analytics.Dashboard
	if err := c.do(ctx, http.MethodGet, "/api/analytics/dashboard", f.Values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Jobs calls GET /api/jobs.
func (c *Client) Jobs(ctx context.Context) ([]models.Job, error) {
	var out []models.Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TrendAnalysis calls GET /api/hr/trend-analysis. Requires an hr token.
func (c *Client) TrendAnalysis(ctx context.Context, timeframe string, f analytics.Filter) (*hr.TrendAnalysis, error) {
	q := f.Values()
	if timeframe != "" {
		q.Set("timeframe", timeframe)
	}
	var out hr.TrendAnalysis
	if err := c.do(ctx, http.MethodGet, "/api/hr/trend-analysis", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SkillGapAnalysis calls GET /api/hr/skill-gap-analysis. Requires an hr token.
func (c *Client) SkillGapAnalysis(ctx context.Context, f analytics.Filter, have []string) (*hr.SkillGapReport, error) {
	q := f.Values()
	if len(have) > 0 {
		q.Set("skills", strings.Join(have, ","))
	}
	var out hr.SkillGapReport
	if err := c.do(ctx, http.MethodGet, "/api/hr/skill-gap-analysis", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Wage calls GET /api/bls/wages/{code}.
func (c *Client) Wage(ctx context.Context, code string) (*labor.Wage, error) {
	var out labor.Wage
	if err := c.do(ctx, http.MethodGet, "/api/bls/wages/"+url.PathEscape(code), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out interface{}) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := checkResp(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}
