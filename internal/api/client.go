// Package api is the HTTP client for the database-metrics backend.
package api

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

	"github.com/google/uuid"

	"github.com/rileyhilliard/dbdash/internal/errors"
	"github.com/rileyhilliard/dbdash/internal/logger"
)

// DefaultBaseURL is where the reference backend listens.
const DefaultBaseURL = "http://localhost:7050/api"

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. http://localhost:7050/api.
	BaseURL string
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
	// PerPage is sent as per_page on queries when positive.
	PerPage int
	// UserAgent defaults to "dbdash".
	UserAgent string
	// HTTPClient overrides the transport (tests).
	HTTPClient *http.Client
	Logger     logger.Logger
}

// Client fetches JSON from the backend. It performs no retries and no caching.
type Client struct {
	baseURL   string
	perPage   int
	userAgent string
	http      *http.Client
	log       logger.Logger
}

// New creates a Client from opts.
func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "dbdash"
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewEnvLogger("[api]")
	}
	return &Client{
		baseURL:   base,
		perPage:   opts.PerPage,
		userAgent: ua,
		http:      hc,
		log:       log,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchJSON issues GET {base}{path} and decodes the body into out.
// Transport failures and non-2xx responses are ErrFetch errors wrapping the cause.
func (c *Client) FetchJSON(ctx context.Context, path string, out any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	return decode(path, body, out)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			fmt.Sprintf("Couldn't build request for %s", path),
			"Check api.base_url in your config")
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("GET %s failed after %s id=%s: %v", path, time.Since(start).Round(time.Millisecond), reqID, err)
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			fmt.Sprintf("Request to %s failed", path),
			fmt.Sprintf("Is the backend running at %s?", c.baseURL))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.log.Debug("GET %s -> %d in %s id=%s", path, resp.StatusCode, time.Since(start).Round(time.Millisecond), reqID)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			fmt.Sprintf("Couldn't read response from %s", path), "")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := probeError(body)
		return nil, errors.WrapWithCode(&StatusError{
			Path:       path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    msg,
		}, errors.ErrFetch, fmt.Sprintf("Request to %s failed", path), "")
	}
	return body, nil
}

func decode(path string, body []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return errors.WrapWithCode(err, errors.ErrDecode,
			fmt.Sprintf("Unexpected response from %s", path),
			"The backend may be a different version than this client expects")
	}
	return nil
}

// fetchOptional is FetchJSON for endpoints that report missing data as a
// domain error: an {"error"} body on 2xx, or a 404 carrying {"error"}.
func (c *Client) fetchOptional(ctx context.Context, path string, out any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		if se, ok := AsStatus(err); ok && se.StatusCode == http.StatusNotFound && se.Message != "" {
			return &UnavailableError{Reason: se.Message}
		}
		return err
	}
	if msg, ok := probeError(body); ok {
		return &UnavailableError{Reason: msg}
	}
	return decode(path, body, out)
}

func seg(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}

// Databases lists the backend's configured databases.
func (c *Client) Databases(ctx context.Context) ([]Database, error) {
	var out []Database
	if err := c.FetchJSON(ctx, "/databases", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tables lists the table names of db.
func (c *Client) Tables(ctx context.Context, db string) ([]string, error) {
	var out []string
	if err := c.FetchJSON(ctx, seg("tables", db), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TableInfo returns the schema and row count of a table.
func (c *Client) TableInfo(ctx context.Context, db, table string) (*TableInfo, error) {
	var out TableInfo
	if err := c.FetchJSON(ctx, seg("table-info", db, table), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Query returns one page of a table. Pages are 1-based.
func (c *Client) Query(ctx context.Context, db, table string, page int) (*TablePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if c.perPage > 0 {
		q.Set("per_page", strconv.Itoa(c.perPage))
	}
	var out TablePage
	if err := c.FetchJSON(ctx, seg("query", db, table)+"?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Dashboard returns the per-table overview of db.
func (c *Client) Dashboard(ctx context.Context, db string) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.FetchJSON(ctx, seg("dashboard", db), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChartData returns the record trend of a table.
func (c *Client) ChartData(ctx context.Context, db, table string) (*ChartData, error) {
	var out ChartData
	if err := c.FetchJSON(ctx, seg("chart-data", db, table), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentMetrics returns the latest hardware sample, or an *UnavailableError
// when the database has no metrics.
func (c *Client) CurrentMetrics(ctx context.Context, db string) (*CurrentMetrics, error) {
	var out CurrentMetrics
	if err := c.fetchOptional(ctx, seg("current-metrics", db), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MetricsComparison returns the recent metric history, or an *UnavailableError
// when the database has no metrics.
func (c *Client) MetricsComparison(ctx context.Context, db string) (*MetricsComparison, error) {
	var out MetricsComparison
	if err := c.fetchOptional(ctx, seg("metrics-comparison", db), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
