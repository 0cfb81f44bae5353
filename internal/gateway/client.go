package gateway

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
	"time"

	"NYCU-SDC/survey-builder/internal"
	"NYCU-SDC/survey-builder/internal/auth"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 1 << 20
)

// UnauthorizedFunc runs after the storage service rejected the credentials.
// The credentials are already cleared when it is called.
type UnauthorizedFunc func(ctx context.Context)

// Client talks to the survey storage REST API. Every request carries the
// bearer token from its Credentials.
type Client struct {
	logger         *zap.Logger
	tracer         trace.Tracer
	baseURL        string
	httpClient     *http.Client
	credentials    *auth.Credentials
	onUnauthorized UnauthorizedFunc
}

type Option func(*clientOptions)

type clientOptions struct {
	timeout        time.Duration
	transport      http.RoundTripper
	onUnauthorized UnauthorizedFunc
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

func WithTransport(transport http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = transport
	}
}

func WithUnauthorizedHandler(f UnauthorizedFunc) Option {
	return func(o *clientOptions) {
		o.onUnauthorized = f
	}
}

func New(logger *zap.Logger, baseURL string, credentials *auth.Credentials, opts ...Option) *Client {
	options := clientOptions{
		timeout:   DefaultTimeout,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Client{
		logger:  logger,
		tracer:  otel.Tracer("gateway/client"),
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: options.timeout,
			Transport: &oauth2.Transport{
				Source: credentials,
				Base:   options.transport,
			},
		},
		credentials:    credentials,
		onUnauthorized: options.onUnauthorized,
	}
}

// Blob is a binary download such as an export file.
type Blob struct {
	ContentType string
	Filename    string
	Data        []byte
}

// do runs one REST call. out may be nil, a *Blob for binary bodies, or anything
// encoding/json can decode into.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	ctx, span := c.tracer.Start(ctx, op)
	defer span.End()
	logger := logutil.WithContext(ctx, c.logger)

	span.SetAttributes(attribute.String("http.method", method), attribute.String("http.route", path))

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		var buf bytes.Buffer
		err := json.NewEncoder(&buf).Encode(body)
		if err != nil {
			span.RecordError(err)
			return c.remoteError(op, 0, "", err)
		}
		reader = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		span.RecordError(err)
		return c.remoteError(op, 0, "", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, internal.ErrNoCredentials) {
			logger.Warn("No stored credentials for storage request", zap.String("op", op))
			c.unauthorized(ctx)
			return c.remoteError(op, http.StatusUnauthorized, "", err)
		}
		logger.Warn("Storage request failed", zap.String("op", op), zap.Error(err))
		return c.remoteError(op, 0, "", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized {
		c.unauthorized(ctx)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		remoteErr := c.remoteError(op, resp.StatusCode, serverMessage(data), nil)
		span.RecordError(remoteErr)
		logger.Warn("Storage request rejected", zap.String("op", op), zap.Int("status", resp.StatusCode), zap.String("message", remoteErr.Message))
		return remoteErr
	}

	switch target := out.(type) {
	case nil:
		return nil
	case *Blob:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			span.RecordError(err)
			return c.remoteError(op, resp.StatusCode, "", err)
		}
		target.ContentType = resp.Header.Get("Content-Type")
		target.Filename = attachmentName(resp.Header.Get("Content-Disposition"))
		target.Data = data
		return nil
	default:
		err = json.NewDecoder(resp.Body).Decode(target)
		if err != nil && !errors.Is(err, io.EOF) {
			span.RecordError(err)
			logger.Warn("Failed to decode storage response", zap.String("op", op), zap.Error(err))
			return c.remoteError(op, resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
		}
		return nil
	}
}

func (c *Client) unauthorized(ctx context.Context) {
	c.credentials.Clear()
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
}

func (c *Client) remoteError(op string, status int, message string, err error) *ErrRemote {
	if message == "" {
		message = fallbackMessage(op)
	}
	return &ErrRemote{Op: op, StatusCode: status, Message: message, Err: err}
}

// serverMessage prefers "message" over "error", the two keys the storage service uses.
func serverMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &body) != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func attachmentName(disposition string) string {
	_, params, found := strings.Cut(disposition, "filename=")
	if !found {
		return ""
	}
	name, _, _ := strings.Cut(params, ";")
	return strings.Trim(strings.TrimSpace(name), `"`)
}

func escape(segment any) string {
	return url.PathEscape(fmt.Sprint(segment))
}
