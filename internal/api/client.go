// Package api implements service.Service against the PlanNest REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"plannest/internal/config"
	"plannest/internal/service"
)

const (
	// RequestIDHeader carries a per-request id for server-side correlation.
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Client implements service.Service over HTTP.
// Every request goes to the configured origin with the session cookies attached.
type Client struct {
	base    *url.URL
	http    *http.Client
	cookies *cookieStore
	timeout time.Duration
	metrics *Metrics

	metricsFile string
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records every request in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

// New creates a client for cfg.APIURL, restoring cookies from cfg.CookiePath().
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api_url: %w", err)
	}

	cookies, err := newCookieStore(base, cfg.CookiePath())
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		base:        base,
		http:        &http.Client{Jar: cookies},
		cookies:     cookies,
		timeout:     timeout,
		metricsFile: cfg.MetricsFile,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metricsFile != "" && c.metrics == nil {
		c.metrics = NewMetrics()
	}
	return c, nil
}

// Flush writes the request metrics to the configured metrics file, if any.
func (c *Client) Flush() error {
	if c.metricsFile == "" || c.metrics == nil {
		return nil
	}
	return c.metrics.WriteToTextfile(c.metricsFile)
}

// authEnvelope is the {success, message[, user]} shape of the auth endpoints.
type authEnvelope struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	User    *wireUser `json:"user"`
}

// wireUser accepts either "id" or the original server's "_id".
type wireUser struct {
	ID      string `json:"id"`
	MongoID string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

func (u wireUser) toUser() service.User {
	id := u.ID
	if id == "" {
		id = u.MongoID
	}
	return service.User{ID: id, Name: u.Name, Email: u.Email}
}

type wireTask struct {
	ID          string `json:"id"`
	MongoID     string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func (t wireTask) toTask() service.Task {
	id := t.ID
	if id == "" {
		id = t.MongoID
	}
	return service.Task{ID: id, Title: t.Title, Description: t.Description, Completed: t.Completed}
}

type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, name, email, password string) (service.AuthResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.auth(ctx, "register", "api/auth/register", body)
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, email, password string) (service.AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	return c.auth(ctx, "login", "api/auth/login", body)
}

// Logout implements service.Service. Local cookies are dropped once the
// server confirms.
func (c *Client) Logout(ctx context.Context) (service.AuthResult, error) {
	res, err := c.auth(ctx, "logout", "api/auth/logout", nil)
	if err != nil {
		return res, err
	}
	if res.Success {
		if err := c.cookies.clear(); err != nil {
			return res, fmt.Errorf("failed to clear cookies: %w", err)
		}
	}
	return res, nil
}

// auth calls an auth endpoint. A 4xx response carrying the envelope is a
// rejection, not a transport failure, and comes back as Success=false.
func (c *Client) auth(ctx context.Context, endpoint, path string, body any) (service.AuthResult, error) {
	var env authEnvelope
	err := c.do(ctx, endpoint, http.MethodPost, path, body, &env)

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Status != http.StatusNotFound {
		return service.AuthResult{Success: false, Message: apiErr.Message}, nil
	}
	if err != nil {
		return service.AuthResult{}, err
	}

	res := service.AuthResult{Success: env.Success, Message: env.Message}
	if env.User != nil {
		u := env.User.toUser()
		res.User = &u
	}
	return res, nil
}

// CurrentUser implements service.Identity.
func (c *Client) CurrentUser(ctx context.Context) (service.User, error) {
	var resp struct {
		User *wireUser `json:"user"`
	}
	if err := c.do(ctx, "current_user", http.MethodGet, "api/user/current-user", nil, &resp); err != nil {
		return service.User{}, err
	}
	if resp.User == nil {
		return service.User{}, fmt.Errorf("%w: no user in current-user response", ErrMalformedResponse)
	}
	return resp.User.toUser(), nil
}

// ListTodos implements service.Todos.
func (c *Client) ListTodos(ctx context.Context) ([]service.Task, error) {
	var wire []wireTask
	if err := c.do(ctx, "list_todos", http.MethodGet, "api/todo/getAllTodos", nil, &wire); err != nil {
		return nil, err
	}
	tasks := make([]service.Task, 0, len(wire))
	for _, t := range wire {
		tasks = append(tasks, t.toTask())
	}
	return tasks, nil
}

// CreateTodo implements service.Todos.
func (c *Client) CreateTodo(ctx context.Context, title, description string, completed bool) (service.Task, error) {
	var wire wireTask
	body := createTodoRequest{Title: title, Description: description, Completed: completed}
	if err := c.do(ctx, "create_todo", http.MethodPost, "api/todo/createTodo", body, &wire); err != nil {
		return service.Task{}, err
	}
	task := wire.toTask()
	if task.ID == "" {
		return service.Task{}, fmt.Errorf("%w: created todo has no id", ErrMalformedResponse)
	}
	return task, nil
}

// UpdateTodo implements service.Todos.
func (c *Client) UpdateTodo(ctx context.Context, id string, update service.TaskUpdate) (service.Task, error) {
	var wire wireTask
	path := "api/todo/updateTodo/" + url.PathEscape(id)
	if err := c.do(ctx, "update_todo", http.MethodPut, path, update, &wire); err != nil {
		return service.Task{}, err
	}
	return wire.toTask(), nil
}

// DeleteTodo implements service.Todos.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	path := "api/todo/deleteTodo/" + url.PathEscape(id)
	return c.do(ctx, "delete_todo", http.MethodDelete, path, nil, nil)
}

// do performs one JSON round trip. out may be nil; an empty 2xx body leaves it untouched.
func (c *Client) do(ctx context.Context, endpoint, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), reader)
	if err != nil {
		return err
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	logger := zerolog.Ctx(ctx).With().
		Str("method", method).
		Str("path", req.URL.Path).
		Str("request_id", requestID).
		Logger()

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(endpoint, 0, elapsed)
		logger.Debug().Err(err).Dur("elapsed", elapsed).Msg("api request failed")
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		return err
	}
	defer resp.Body.Close()

	c.metrics.observe(endpoint, resp.StatusCode, elapsed)
	logger.Debug().Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("api request")

	if err := c.cookies.save(); err != nil {
		logger.Warn().Err(err).Msg("failed to persist cookies")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}
