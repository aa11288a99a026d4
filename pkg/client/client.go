// Package client calls a running simulator service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"mlfq-simulator/internal/core"
	"mlfq-simulator/internal/logging"
	"mlfq-simulator/internal/requests"
	"mlfq-simulator/internal/responses"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Log     *slog.Logger
}

func New(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
		Log:     logger,
	}
}

// APIError is returned when the service answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
	Details    []*core.ValidationError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("simulator returned %d: %s", e.StatusCode, e.Message)
}

// Simulate submits the workload and decodes the schedule.
func (c *Client) Simulate(ctx context.Context, request *requests.ScheduleRequests) (*responses.ScheduleResponse, error) {
	body, err := c.post(ctx, "/api/v1/mlfq", request)
	if err != nil {
		return nil, err
	}
	response := &responses.ScheduleResponse{}
	if err := json.Unmarshal(body, response); err != nil {
		return nil, fmt.Errorf("failed to decode schedule: %w", err)
	}
	return response, nil
}

// Report submits the workload and returns the rendered text report.
func (c *Client) Report(ctx context.Context, request *requests.ScheduleRequests) (string, error) {
	body, err := c.post(ctx, "/api/v1/mlfq/report", request)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) post(ctx context.Context, path string, request *requests.ScheduleRequests) ([]byte, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	url := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Error("simulator request failed", logging.ErrAttr(err), slog.String("url", url))
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errorResponse responses.ErrorResponse
		if err := json.Unmarshal(body, &errorResponse); err == nil && errorResponse.Error != "" {
			apiErr.Message = errorResponse.Error
			apiErr.Details = errorResponse.Details
		}
		c.Log.Warn("simulator rejected request", slog.String("url", url), slog.Int("status_code", resp.StatusCode))
		return nil, apiErr
	}
	c.Log.Debug("simulator request succeeded", slog.String("url", url), slog.Int("status_code", resp.StatusCode))
	return body, nil
}
