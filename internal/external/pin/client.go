package pin

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"PinGateway/pkg/metrics"
)

// APIVersion is the path segment every endpoint is prefixed with.
const APIVersion = "1"

const (
	DefaultTestEndpoint = "https://test-api.pin.net.au"
	DefaultLiveEndpoint = "https://api.pin.net.au"
)

// Config holds the gateway credentials and endpoint selection.
// The secret key is sent as the basic-auth username with a blank password.
type Config struct {
	SecretKey    string
	TestMode     bool
	TestEndpoint string
	LiveEndpoint string
}

type Client struct {
	cfg  Config
	HTTP *http.Client
}

func New(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	if cfg.TestEndpoint == "" {
		cfg.TestEndpoint = DefaultTestEndpoint
	}
	if cfg.LiveEndpoint == "" {
		cfg.LiveEndpoint = DefaultLiveEndpoint
	}
	return &Client{
		cfg:  cfg,
		HTTP: httpClient,
	}
}

// Endpoint returns the versioned base URL for the configured mode.
func (c *Client) Endpoint() string {
	base := c.cfg.LiveEndpoint
	if c.cfg.TestMode {
		base = c.cfg.TestEndpoint
	}
	return strings.TrimRight(base, "/") + "/" + APIVersion
}

// RawResponse is an unparsed gateway reply with a 2xx, 3xx or 4xx status.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *RawResponse) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// Send issues one request to Endpoint()+action. Client errors (4xx) come back
// as a normal *RawResponse so callers can read the gateway's error body;
// 5xx and network failures are returned as *TransportError. Nothing is retried.
func (c *Client) Send(ctx context.Context, action string, payload url.Values, method string) (*RawResponse, error) {
	switch method {
	case "":
		method = http.MethodPost
	case http.MethodPost, http.MethodPut:
	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("unsupported method %q", method)}
	}

	var body io.Reader
	if payload != nil {
		body = strings.NewReader(payload.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.Endpoint()+action, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+basicAuth(c.cfg.SecretKey))

	route := routeTemplate(action)
	start := time.Now()
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		metrics.ObserveGatewayCall(route, method, metrics.GatewayOutcomeError, time.Since(start))
		slog.WarnContext(ctx, "pin request failed",
			slog.String("method", method),
			slog.String("action", action),
			slog.Any("error", err),
		)
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveGatewayCall(route, method, metrics.GatewayOutcomeError, time.Since(start))
		return nil, &TransportError{Err: fmt.Errorf("read body: %w", err)}
	}
	metrics.ObserveGatewayCall(route, method, metrics.StatusClass(resp.StatusCode), time.Since(start))

	slog.InfoContext(ctx, "pin request completed",
		slog.String("method", method),
		slog.String("action", action),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 500 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: raw}
	}

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
	}, nil
}

// routeTemplate hides the charge token in actions like /charges/ch_1/capture.
func routeTemplate(action string) string {
	parts := strings.Split(action, "/")
	for i := 1; i < len(parts); i++ {
		if parts[i-1] == "charges" && parts[i] != "" {
			parts[i] = ":token"
		}
	}
	return strings.Join(parts, "/")
}

func basicAuth(secretKey string) string {
	return base64.StdEncoding.EncodeToString([]byte(secretKey + ":"))
}
