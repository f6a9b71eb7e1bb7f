// Package gateway implements api.Gateway over HTTP: the core onboarding API,
// the FIPE vehicle catalog and the two postal-code services.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/config"
	"github.com/finatech/onboard/internal/logger"
	"github.com/finatech/onboard/internal/metrics"
)

const (
	// DefaultTimeout is the default request timeout
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum response body size (10MB)
	MaxResponseSize = 10 * 1024 * 1024

	// maxErrorBody bounds the body kept on a StatusError.
	maxErrorBody = 512
)

// Config holds the endpoints and HTTP client settings.
type Config struct {
	CoreURL          string
	CatalogURL       string
	PostalURL        string
	CompanyPostalURL string
	ReferenceTable   string
	VehicleType      string

	Timeout         time.Duration
	MaxIdleConns    int
	IdleConnTimeout time.Duration
}

// DefaultConfig returns the production endpoints with default client settings.
func DefaultConfig() Config {
	return FromConfig(config.Defaults())
}

// FromConfig maps the application configuration onto a gateway Config.
func FromConfig(cfg *config.Config) Config {
	return Config{
		CoreURL:          strings.TrimRight(cfg.CoreAPIURL, "/"),
		CatalogURL:       strings.TrimRight(cfg.CatalogAPIURL, "/"),
		PostalURL:        strings.TrimRight(cfg.PostalAPIURL, "/"),
		CompanyPostalURL: strings.TrimRight(cfg.CompanyPostalAPIURL, "/"),
		ReferenceTable:   cfg.ReferenceTable,
		VehicleType:      cfg.VehicleType,
		Timeout:          cfg.Timeout(),
		MaxIdleConns:     100,
		IdleConnTimeout:  90 * time.Second,
	}
}

// Client is the HTTP gateway.
type Client struct {
	client *http.Client
	cfg    Config
}

var _ api.Gateway = (*Client)(nil)

// NewClient creates a new gateway client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	transport := &http.Transport{
		MaxIdleConns:    cfg.MaxIdleConns,
		IdleConnTimeout: cfg.IdleConnTimeout,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		cfg: cfg,
	}
}

// response is a fully read HTTP response.
type response struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// do executes req, reads the body with a size limit and turns non-2xx
// statuses into *api.StatusError.
func (c *Client) do(ctx context.Context, req *http.Request) (*response, error) {
	start := time.Now()

	resp, err := c.client.Do(req.WithContext(ctx))
	if err != nil {
		metrics.RecordHTTPRequest(req.Method, "error", time.Since(start).Seconds())
		logger.Warn("HTTP request failed: %s %s: %v", req.Method, req.URL.String(), err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)
	metrics.RecordHTTPRequest(req.Method, strconv.Itoa(resp.StatusCode), duration.Seconds())

	if resp.ContentLength > MaxResponseSize {
		return nil, fmt.Errorf("response too large: %d bytes (max %d)", resp.ContentLength, MaxResponseSize)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("response body too large: %d bytes (max %d)", len(body), MaxResponseSize)
	}

	logger.Debug("HTTP %s %s -> %d (%s)", req.Method, req.URL.String(), resp.StatusCode, duration)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &api.StatusError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       snippet,
		}
	}

	return &response{StatusCode: resp.StatusCode, Body: body, Duration: duration}, nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(ctx, req)
}

func (c *Client) postJSON(ctx context.Context, rawURL string, payload any) (*response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(ctx, req)
}

func (c *Client) postForm(ctx context.Context, rawURL string, form url.Values) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return c.do(ctx, req)
}

func decode(res *response, v any) error {
	if err := json.Unmarshal(res.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
