// Package api is the HTTP client for the remote project management service.
//
// Every endpoint is a POST answering with a {"result": ...} envelope. Single
// entities arrive either directly under result or nested one level deeper
// (result.project, result.task, result.user); the client accepts both.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Joseda-hg/lazyproject/internal/apperrors"
	"github.com/Joseda-hg/lazyproject/internal/logging"
	"github.com/Joseda-hg/lazyproject/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Operation names, used as metric labels and log fields.
const (
	OpLogin               = "login"
	OpRegister            = "register"
	OpListProjects        = "list_projects"
	OpCreateProject       = "create_project"
	OpEditProject         = "edit_project"
	OpChangeProjectStatus = "change_project_status"
	OpListTasks           = "list_tasks"
	OpCreateTask          = "create_task"
	OpEditTask            = "edit_task"
	OpDeleteTask          = "delete_task"
)

const (
	loginPath               = "/api/user/log_in"
	DefaultRegisterPath     = "/api/user/register"
	LegacyRegisterPath      = "/user/register"
	listProjectsPath        = "/api/project/get-projects"
	createProjectPath       = "/api/project/create-project"
	editProjectPath         = "/api/project/edit-project/"
	changeProjectStatusPath = "/api/project/change-status-project/"
	listTasksPath           = "/api/task/get-user-task/"
	createTaskPath          = "/api/task/create-task"
	editTaskPath            = "/api/task/edit-task/"
	deleteTaskPath          = "/api/task/delete-task/"
)

type Client struct {
	baseURL      string
	httpClient   *http.Client
	log          logrus.FieldLogger
	metrics      *metrics.ClientMetrics
	registerPath string
}

type Option func(*Client)

// WithHTTPClient replaces the default client. The default sets no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithRegisterPath selects the registration endpoint, e.g. LegacyRegisterPath.
func WithRegisterPath(path string) Option {
	return func(c *Client) { c.registerPath = path }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{},
		log:          logging.Discard(),
		registerPath: DefaultRegisterPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Result  json.RawMessage `json:"result"`
	Message string          `json:"message"`
}

func (e envelope) hasResult() bool {
	trimmed := bytes.TrimSpace(e.Result)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func (c *Client) postJSON(ctx context.Context, op, path, token string, payload any) (envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return envelope{}, apperrors.InternalError("encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return envelope{}, apperrors.InternalError("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(op, token, req)
}

func (c *Client) postForm(ctx context.Context, op, path, token string, fields map[string]string) (envelope, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return envelope{}, apperrors.InternalError("encode form", err)
		}
	}
	if err := writer.Close(); err != nil {
		return envelope{}, apperrors.InternalError("encode form", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return envelope{}, apperrors.InternalError("build request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.send(op, token, req)
}

func (c *Client) send(op, token string, req *http.Request) (env envelope, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = string(apperrors.TypeOf(err))
		}
		elapsed := time.Since(start)
		c.metrics.Observe(op, outcome, elapsed)
		c.log.WithFields(logrus.Fields{
			"operation": op,
			"outcome":   outcome,
			"elapsed":   elapsed,
		}).Debug("API call finished")
	}()

	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return envelope{}, apperrors.TransportError("request failed", err).WithField("operation", op)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, apperrors.TransportError("read response", err).WithField("operation", op)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure envelope
		_ = json.Unmarshal(raw, &failure)
		return envelope{}, apperrors.StatusError(resp.StatusCode, failure.Message).WithField("operation", op)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return envelope{}, nil
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelope{}, apperrors.MalformedError("decode response", err).WithField("operation", op)
	}
	return env, nil
}

func requireResult(op string, env envelope) error {
	if !env.hasResult() {
		return apperrors.MalformedError("response has no result", nil).WithField("operation", op)
	}
	return nil
}

// unwrapEntity returns result[key] when it holds an object, otherwise result itself.
func unwrapEntity(raw json.RawMessage, key string) json.RawMessage {
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err != nil {
		return raw
	}
	if inner, ok := nested[key]; ok {
		trimmed := bytes.TrimSpace(inner)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			return trimmed
		}
	}
	return raw
}

// listField returns result[key]. A missing or null list decodes as empty.
func listField(op string, raw json.RawMessage, key string) ([]json.RawMessage, error) {
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, apperrors.MalformedError("result is not an object", err).WithField("operation", op)
	}

	items := []json.RawMessage{}
	inner, ok := nested[key]
	if !ok || bytes.Equal(bytes.TrimSpace(inner), []byte("null")) {
		return items, nil
	}
	if err := json.Unmarshal(inner, &items); err != nil {
		return nil, apperrors.MalformedError(fmt.Sprintf("result.%s is not a list", key), err).WithField("operation", op)
	}
	return items, nil
}

// documentID reads the "_id" field some deployments send instead of "id".
func documentID(raw json.RawMessage) string {
	var doc struct {
		ID string `json:"_id"`
	}
	_ = json.Unmarshal(raw, &doc)
	return doc.ID
}
