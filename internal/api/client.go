package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Fetcher defines the read side of the dashboard backend.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchStatus(ctx context.Context) (*StatusResponse, error)
	FetchTasks(ctx context.Context) ([]Task, error)
	FetchNotes(ctx context.Context) ([]Note, error)
	FetchEvents(ctx context.Context) ([]Event, error)
	FetchConnections(ctx context.Context) (*ConnectionsResponse, error)
	FetchLogs(ctx context.Context, limit int) ([]string, error)
}

// Mutator defines the write side of the dashboard backend.
type Mutator interface {
	CreateTask(ctx context.Context, task NewTask) error
	CompleteTask(ctx context.Context, id int64) error
	DeleteTask(ctx context.Context, id int64) error
	CreateNote(ctx context.Context, note NewNote) error
}

// Ensure Client implements Fetcher and Mutator at compile time.
var (
	_ Fetcher = (*Client)(nil)
	_ Mutator = (*Client)(nil)
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// StatusError reports a non-2xx response. The body is not inspected.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Code)
}

// Client talks to the dashboard REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	log       zerolog.Logger
}

const (
	defaultAPIURL    = "http://localhost:5000/api"
	defaultUserAgent = "mcpdash/0.1"
	requestTimeout   = 5 * time.Second
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger logs every request at debug level with its request id.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.log = logger.With().Str("component", "api").Logger()
	}
}

// NewClient builds a Client for the API rooted at apiURL. A bare host:port
// is treated as http://host:port/api.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client resolves paths against.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchStatus retrieves server health and aggregate stats.
func (c *Client) FetchStatus(ctx context.Context) (*StatusResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload StatusResponse
	if err := c.do(ctx, http.MethodGet, "status", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchTasks retrieves the full task list.
func (c *Client) FetchTasks(ctx context.Context) ([]Task, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload TaskListResponse
	if err := c.do(ctx, http.MethodGet, "tasks", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Tasks, nil
}

// CreateTask submits a new task.
func (c *Client) CreateTask(ctx context.Context, task NewTask) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("task title required")
	}
	return c.do(ctx, http.MethodPost, "tasks", task, nil)
}

// CompleteTask marks the task as completed.
func (c *Client) CompleteTask(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return fmt.Errorf("task id required")
	}
	return c.do(ctx, http.MethodPost, "tasks/"+strconv.FormatInt(id, 10)+"/complete", nil, nil)
}

// DeleteTask removes the task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return fmt.Errorf("task id required")
	}
	return c.do(ctx, http.MethodDelete, "tasks/"+strconv.FormatInt(id, 10), nil, nil)
}

// FetchNotes retrieves the note list.
func (c *Client) FetchNotes(ctx context.Context) ([]Note, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload NoteListResponse
	if err := c.do(ctx, http.MethodGet, "notes", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Notes, nil
}

// CreateNote submits a new note.
func (c *Client) CreateNote(ctx context.Context, note NewNote) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(note.Title) == "" {
		return fmt.Errorf("note title required")
	}
	return c.do(ctx, http.MethodPost, "notes", note, nil)
}

// FetchEvents retrieves calendar events.
func (c *Client) FetchEvents(ctx context.Context) ([]Event, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload EventListResponse
	if err := c.do(ctx, http.MethodGet, "events", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Events, nil
}

// FetchConnections retrieves MCP client connections and request stats.
func (c *Client) FetchConnections(ctx context.Context) (*ConnectionsResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload ConnectionsResponse
	if err := c.do(ctx, http.MethodGet, "connections", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchLogs retrieves the most recent raw log lines.
func (c *Client) FetchLogs(ctx context.Context, limit int) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	rel := &url.URL{Path: "logs", RawQuery: values.Encode()}
	var payload LogListResponse
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Logs, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	}
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().
			Str("method", method).
			Str("path", rel.Path).
			Str("request_id", requestID).
			Err(err).
			Msg("request failed")
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("method", method).
		Str("path", rel.Path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: rel.Path, Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseBaseURL normalizes the API root so relative paths resolve beneath it.
func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		path = "/api"
	}
	u.Path = path + "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
