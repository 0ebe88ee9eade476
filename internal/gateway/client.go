// Package gateway is the REST client for the salon platform's microservice
// gateway. All collaborator calls go through it: the caller's bearer token is
// forwarded on every request, upstream error messages are surfaced verbatim,
// and a 401 from any service maps to ErrSessionInvalid.
//
// The package also provides a fixture-backed implementation of the same
// collaborator interfaces (see fixture.go) so the workflow can run against
// built-in demo data instead of a live gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/glowbook/booking-gateway/internal/session"
	"github.com/glowbook/booking-gateway/pkg/logging"
)

const defaultTimeout = 10 * time.Second

var tracer = otel.Tracer("gateway.internal.gateway")

// ErrSessionInvalid is returned when any upstream call answers 401. Handlers
// translate it into a 401 with a login redirect hint.
var ErrSessionInvalid = errors.New("gateway: session invalid")

// ErrNotFound is returned for upstream 404 responses.
var ErrNotFound = errors.New("gateway: not found")

// UpstreamError carries the message reported by an upstream service. The
// message is shown to the user verbatim, so it is kept separate from the
// transport detail.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// Client talks to the platform gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a gateway client rooted at baseURL (e.g.
// "http://localhost:8862/api").
func NewClient(baseURL string, timeout time.Duration, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "gateway"),
	}
}

// errorEnvelope is the platform's error body shape.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("gateway: base url not configured")
	}

	ctx, span := tracer.Start(ctx, "gateway.call")
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("gateway.path", path),
	)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("gateway: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s, ok := session.FromContext(ctx); ok && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("gateway: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("gateway: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrSessionInvalid
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &UpstreamError{
			Status:  resp.StatusCode,
			Message: upstreamMessage(respBody, resp.StatusCode),
		}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("gateway: unmarshal response: %w", err)
	}
	return nil
}

// upstreamMessage extracts the human-readable message from an error body,
// falling back to a generic string when the body is not the usual envelope.
func upstreamMessage(body []byte, status int) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		if msg := strings.TrimSpace(env.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(env.Error); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("upstream request failed (status %d)", status)
}
