package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/weekplan/internal/dashboard/store"
	"github.com/felixgeelhaar/weekplan/pkg/week"
)

// Client is the remote task API consumed by the sync engine.
type Client interface {
	ListTasks(ctx context.Context, start, end time.Time) ([]store.Task, error)
	CreateTask(ctx context.Context, req CreateTaskRequest) (store.Task, error)
	UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (store.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ReorderTasks(ctx context.Context, date string, taskIDs []string) error
}

// CreateTaskRequest is the body of the remote create call.
type CreateTaskRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	ScheduledDate string `json:"scheduledDate"`
	Category      string `json:"category,omitempty"`
}

// UpdateTaskRequest is the body of the remote partial-update call. Absent
// fields are left unchanged server-side.
type UpdateTaskRequest struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	ScheduledDate *string `json:"scheduledDate,omitempty"`
	Category      *string `json:"category,omitempty"`
	Position      *int    `json:"position,omitempty"`
	IsCompleted   *bool   `json:"isCompleted,omitempty"`
}

// HTTPClient talks to the weekplan server's task API. Requests run through
// a circuit breaker so a dead server fails fast instead of hanging every
// interaction.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*httpResult]
	logger  *slog.Logger
}

type httpResult struct {
	status int
	body   []byte
}

// HTTPClientConfig holds configuration for the HTTP client.
type HTTPClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// NewHTTPClient creates a client for the given server URL and session token.
func NewHTTPClient(cfg HTTPClientConfig, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	settings := gobreaker.Settings{
		Name:    "weekplan-api",
		Timeout: 15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &HTTPClient{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*httpResult](settings),
		logger:  logger,
	}
}

// taskPayload mirrors the server's wire representation of a task.
type taskPayload struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	ScheduledDate string  `json:"scheduledDate"`
	Position      int     `json:"position"`
	Category      string  `json:"category"`
	IsCompleted   bool    `json:"isCompleted"`
	CompletedAt   *string `json:"completedAt"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

func (p taskPayload) toTask() (store.Task, error) {
	t := store.Task{
		ID:            p.ID,
		UserID:        p.UserID,
		Title:         p.Title,
		ScheduledDate: p.ScheduledDate,
		Position:      p.Position,
		Category:      p.Category,
		IsCompleted:   p.IsCompleted,
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.CompletedAt != nil {
		at, err := time.Parse(time.RFC3339Nano, *p.CompletedAt)
		if err != nil {
			return store.Task{}, fmt.Errorf("parse completedAt: %w", err)
		}
		t.CompletedAt = &at
	}
	var err error
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, p.CreatedAt); err != nil {
		return store.Task{}, fmt.Errorf("parse createdAt: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339Nano, p.UpdatedAt); err != nil {
		return store.Task{}, fmt.Errorf("parse updatedAt: %w", err)
	}
	return t, nil
}

// ListTasks fetches tasks with scheduledDate in [start, end] inclusive,
// ordered by position ascending.
func (c *HTTPClient) ListTasks(ctx context.Context, start, end time.Time) ([]store.Task, error) {
	path := fmt.Sprintf("/api/v1/tasks?start=%s&end=%s", week.FormatDate(start), week.FormatDate(end))
	res, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var body struct {
		Tasks []taskPayload `json:"tasks"`
	}
	if err := json.Unmarshal(res.body, &body); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}

	tasks := make([]store.Task, 0, len(body.Tasks))
	for _, p := range body.Tasks {
		t, err := p.toTask()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// CreateTask creates a task; the server assigns its id and position.
func (c *HTTPClient) CreateTask(ctx context.Context, req CreateTaskRequest) (store.Task, error) {
	res, err := c.do(ctx, http.MethodPost, "/api/v1/tasks", req)
	if err != nil {
		return store.Task{}, err
	}
	return decodeTask(res.body)
}

// UpdateTask applies a partial update and returns the server's view of the
// task afterwards.
func (c *HTTPClient) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (store.Task, error) {
	res, err := c.do(ctx, http.MethodPatch, "/api/v1/tasks/"+id, req)
	if err != nil {
		return store.Task{}, err
	}
	return decodeTask(res.body)
}

// DeleteTask deletes a task by id.
func (c *HTTPClient) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+id, nil)
	return err
}

// ReorderTasks assigns position = index to each listed task, in order.
func (c *HTTPClient) ReorderTasks(ctx context.Context, date string, taskIDs []string) error {
	body := map[string]any{
		"date":    date,
		"taskIds": taskIDs,
	}
	_, err := c.do(ctx, http.MethodPatch, "/api/v1/tasks/reorder", body)
	return err
}

func decodeTask(raw []byte) (store.Task, error) {
	var body struct {
		Task taskPayload `json:"task"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return store.Task{}, fmt.Errorf("decode task: %w", err)
	}
	return body.Task.toTask()
}

// do executes a request through the breaker. Only transport failures and
// 5xx responses count against the breaker; client errors (4xx) are mapped
// to typed errors after the fact so a burst of 404s cannot open the
// circuit.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (*httpResult, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	res, err := c.breaker.Execute(func() (*httpResult, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
		}
		return &httpResult{status: resp.StatusCode, body: raw}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrServerUnavailable, err)
		}
		return nil, err
	}

	switch {
	case res.status == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case res.status == http.StatusNotFound:
		return nil, ErrNotFound
	case res.status >= http.StatusBadRequest:
		return nil, &APIError{Status: res.status, Message: errorMessage(res.body)}
	}
	return res, nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return string(raw)
}
