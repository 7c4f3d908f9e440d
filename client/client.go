// Package client implements the editor's backend interface over the graph
// service's REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/fredgeoO/novel-learning-tools/domain/graph"
	apperrors "github.com/fredgeoO/novel-learning-tools/pkg/errors"
)

// envelope mirrors the service's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// graphData is the payload of GET /api/graph-data.
type graphData struct {
	Data     *graph.Document `json:"data"`
	Physics  bool            `json:"physics"`
	Metadata graph.Metadata  `json:"metadata,omitempty"`
}

// Client talks to the graph service. Single-shot requests, no retries; a
// failure is surfaced once with the server's own message where one exists.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New returns a client for the service at baseURL.
func New(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// FetchGraph loads the document stored under key.
func (c *Client) FetchGraph(ctx context.Context, key string) (*graph.Document, bool, graph.Metadata, error) {
	endpoint := fmt.Sprintf("%s/api/graph-data?cache_key=%s", c.baseURL, url.QueryEscape(key))
	raw, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, nil, err
	}

	var payload graphData
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false, nil, apperrors.NewInternalError("malformed graph payload").WithCause(err)
	}
	if payload.Data == nil {
		return nil, false, nil, apperrors.NewInternalError("graph payload missing document")
	}
	return payload.Data, payload.Physics, payload.Metadata, nil
}

// ReplaceGraph overwrites the document stored under key.
func (c *Client) ReplaceGraph(ctx context.Context, key string, doc *graph.Document) error {
	endpoint := fmt.Sprintf("%s/api/graph/%s", c.baseURL, url.PathEscape(key))
	body, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewInternalError("cannot encode graph document").WithCause(err)
	}
	_, err = c.do(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	return err
}

// DeleteGraph removes the document stored under key.
func (c *Client) DeleteGraph(ctx context.Context, key string) error {
	endpoint := fmt.Sprintf("%s/api/graph/%s", c.baseURL, url.PathEscape(key))
	_, err := c.do(ctx, http.MethodDelete, endpoint, nil)
	return err
}

// FetchMetadata loads the metadata bag stored under key.
func (c *Client) FetchMetadata(ctx context.Context, key string) (graph.Metadata, error) {
	endpoint := fmt.Sprintf("%s/api/graph/%s/metadata", c.baseURL, url.PathEscape(key))
	raw, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var meta graph.Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, apperrors.NewInternalError("malformed metadata payload").WithCause(err)
	}
	return meta, nil
}

// do issues one request and unwraps the envelope. A transport failure maps to
// a network error; an unhappy envelope carries the server's message verbatim.
func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, apperrors.NewInternalError("cannot build request").WithCause(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("graph service unreachable", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("graph service returned status %d", resp.StatusCode)).WithCause(err)
	}
	if !env.Success {
		message := env.Error
		if message == "" {
			message = fmt.Sprintf("graph service returned status %d", resp.StatusCode)
		}
		c.logger.Warn("graph service request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("error", message))
		return nil, apperrors.NewExternalError(message)
	}
	return env.Data, nil
}
