// Package client talks to the mathapp HTTP API. Every call returns a Result
// so callers decide explicitly what to do when the server cannot answer.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/mathapp/internal/session"
)

// ErrUnavailable is the generic cause of an Unavailable result.
var ErrUnavailable = errors.New("remote service unavailable")

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Code)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

const defaultTimeout = 5 * time.Second

// Client is a bearer-token HTTP client for the API. It is safe for
// concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the initial bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the API rooted at baseURL, e.g.
// "http://localhost:3001/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Health checks the server and its version.
func (c *Client) Health(ctx context.Context) Result[Health] {
	var h Health
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return Unavailable[Health](err)
	}
	return Ok(h)
}

// Login exchanges credentials for a token. On success the token is kept
// for later calls.
func (c *Client) Login(ctx context.Context, email, password string) Result[Login] {
	var resp loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return Unavailable[Login](err)
	}
	if !resp.Success || resp.Token == "" {
		return Unavailable[Login](fmt.Errorf("login: %w", ErrUnavailable))
	}
	c.SetToken(resp.Token)
	return Ok(Login{User: resp.User, Token: resp.Token})
}

// Lessons fetches the learner's lesson list and maps it to dashboard rows.
func (c *Client) Lessons(ctx context.Context, userID string) Result[Dashboard] {
	path := "/lessons"
	if userID != "" {
		path += "?user_id=" + url.QueryEscape(userID)
	}

	var resp lessonsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return Unavailable[Dashboard](err)
	}
	if resp.Data == nil {
		return Unavailable[Dashboard](fmt.Errorf("lessons: missing data"))
	}
	return Ok(dashboardFromRows(resp.Data))
}

// Dashboard fetches the server-aggregated dashboard.
func (c *Client) Dashboard(ctx context.Context) Result[Dashboard] {
	var resp dashboardWire
	if err := c.doJSON(ctx, http.MethodGet, "/dashboard", nil, &resp); err != nil {
		return Unavailable[Dashboard](err)
	}
	return Ok(dashboardFromWire(resp))
}

// UserStats fetches only the dashboard header.
func (c *Client) UserStats(ctx context.Context) Result[Dashboard] {
	var resp statsWire
	if err := c.doJSON(ctx, http.MethodGet, "/user/stats", nil, &resp); err != nil {
		return Unavailable[Dashboard](err)
	}
	return Ok(Dashboard{Stats: statsFromWire(resp)})
}

// LessonDetail fetches one lesson. The payload is schema-checked before it
// is transformed; a malformed payload is reported as Unavailable.
func (c *Client) LessonDetail(ctx context.Context, lessonID string) Result[LessonDetail] {
	raw, err := c.do(ctx, http.MethodGet, "/lessons/"+url.PathEscape(lessonID), nil)
	if err != nil {
		return Unavailable[LessonDetail](err)
	}
	if err := validateLessonDetail(raw); err != nil {
		return Unavailable[LessonDetail](err)
	}

	var resp lessonDetailResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Unavailable[LessonDetail](fmt.Errorf("decode lesson: %w", err))
	}
	detail, err := lessonFromWire(resp.Data)
	if err != nil {
		return Unavailable[LessonDetail](err)
	}
	return Ok(detail)
}

// Submit sends answers for grading under a client-chosen submission ID.
func (c *Client) Submit(ctx context.Context, submissionID string, req SubmitRequest) Result[session.SubmissionResult] {
	var resp submitResponse
	path := "/lessons/" + url.PathEscape(submissionID) + "/submit"
	if err := c.doJSON(ctx, http.MethodPost, path, submitToWire(req), &resp); err != nil {
		return Unavailable[session.SubmissionResult](err)
	}
	return Ok(resultFromWire(resp))
}

// UpdateProgress reports how many exercises of a lesson are complete.
func (c *Client) UpdateProgress(ctx context.Context, lessonID string, completed int) Result[struct{}] {
	path := "/lessons/" + url.PathEscape(lessonID) + "/progress"
	if _, err := c.do(ctx, http.MethodPut, path, progressWire{CompletedExercises: completed}); err != nil {
		return Unavailable[struct{}](err)
	}
	return Ok(struct{}{})
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
