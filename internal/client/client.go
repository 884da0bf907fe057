// Package client talks to the project API on behalf of the views.
//
// Every call returns a Result instead of an error so callers can branch on
// the failure reason without unwrapping transport errors. The *OrEmpty,
// *OrNil and *OK helpers collapse a Result to the plain sentinel values the
// home and create views work with.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"proyectos/internal/models"
)

// Reason classifies why a call did not succeed.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNotFound
	ReasonValidation
	ReasonTransport
	ReasonServer
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNotFound:
		return "not_found"
	case ReasonValidation:
		return "validation"
	case ReasonTransport:
		return "transport"
	case ReasonServer:
		return "server"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Result is either a value (Reason == ReasonNone) or a typed failure.
type Result[T any] struct {
	Value   T
	Reason  Reason
	Message string
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Reason == ReasonNone
}

func failure[T any](reason Reason, msg string) Result[T] {
	return Result[T]{Reason: reason, Message: msg}
}

// Client is a thin wrapper around the /proyectos resource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used to report failed calls.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New builds a client for the API rooted at baseURL, e.g. "http://localhost:5000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListProjects fetches every project.
func (c *Client) ListProjects(ctx context.Context) Result[[]models.Project] {
	var out []models.Project
	res := c.do(ctx, http.MethodGet, "/proyectos", nil, &out)
	if !res.OK() {
		return failure[[]models.Project](res.Reason, res.Message)
	}
	if out == nil {
		out = []models.Project{}
	}
	return Result[[]models.Project]{Value: out}
}

// GetProject fetches one project.
func (c *Client) GetProject(ctx context.Context, id string) Result[models.Project] {
	var out models.Project
	res := c.do(ctx, http.MethodGet, "/proyectos/"+url.PathEscape(id), nil, &out)
	if !res.OK() {
		return failure[models.Project](res.Reason, res.Message)
	}
	return Result[models.Project]{Value: out}
}

// CreateProject submits a new project.
func (c *Client) CreateProject(ctx context.Context, p models.Project) Result[models.Project] {
	var out models.Project
	res := c.do(ctx, http.MethodPost, "/proyectos", p, &out)
	if !res.OK() {
		return failure[models.Project](res.Reason, res.Message)
	}
	return Result[models.Project]{Value: out}
}

// UpdateProject sends a full or partial replacement.
func (c *Client) UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) Result[models.Project] {
	var out models.Project
	res := c.do(ctx, http.MethodPut, "/proyectos/"+url.PathEscape(id), patch, &out)
	if !res.OK() {
		return failure[models.Project](res.Reason, res.Message)
	}
	return Result[models.Project]{Value: out}
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) Result[struct{}] {
	return c.do(ctx, http.MethodDelete, "/proyectos/"+url.PathEscape(id), nil, nil)
}

// ListOrEmpty returns the projects, or an empty list on any failure.
func (c *Client) ListOrEmpty(ctx context.Context) []models.Project {
	res := c.ListProjects(ctx)
	if !res.OK() {
		return []models.Project{}
	}
	return res.Value
}

// CreateOrNil returns the created project, or nil on any failure.
func (c *Client) CreateOrNil(ctx context.Context, p models.Project) *models.Project {
	res := c.CreateProject(ctx, p)
	if !res.OK() {
		return nil
	}
	return &res.Value
}

// DeleteOK reports whether the delete succeeded.
func (c *Client) DeleteOK(ctx context.Context, id string) bool {
	return c.DeleteProject(ctx, id).OK()
}

type apiMessage struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) Result[struct{}] {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return c.fail(method, path, ReasonValidation, fmt.Sprintf("encode request: %v", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return c.fail(method, path, ReasonTransport, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(method, path, ReasonTransport, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(method, path, ReasonTransport, fmt.Sprintf("read response: %v", err))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var msg apiMessage
		_ = json.Unmarshal(data, &msg)
		if msg.Message == "" {
			msg.Message = http.StatusText(resp.StatusCode)
		}
		return c.fail(method, path, reasonForStatus(resp.StatusCode), msg.Message)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return c.fail(method, path, ReasonServer, fmt.Sprintf("decode response: %v", err))
		}
	}
	return Result[struct{}]{}
}

func (c *Client) fail(method, path string, reason Reason, msg string) Result[struct{}] {
	c.logger.Error("api call failed",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("reason", reason.String()),
		slog.String("error", msg))
	return failure[struct{}](reason, msg)
}

func reasonForStatus(status int) Reason {
	switch {
	case status == http.StatusNotFound:
		return ReasonNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ReasonValidation
	default:
		return ReasonServer
	}
}
