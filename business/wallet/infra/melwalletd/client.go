// Package melwalletd is the wire side of the wallet context: it builds
// daemon requests, sends them, and turns the responses into domain values.
package melwalletd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/melwalletd-client/internal/apperror"
	"github.com/fd1az/melwalletd-client/internal/httpclient"
	"github.com/fd1az/melwalletd-client/internal/logger"
	"github.com/fd1az/melwalletd-client/internal/shape"
	"github.com/fd1az/melwalletd-client/internal/wirecodec"
)

const (
	tracerName = "github.com/fd1az/melwalletd-client/business/wallet/infra/melwalletd"
	meterName  = "github.com/fd1az/melwalletd-client/business/wallet/infra/melwalletd"

	// DefaultBaseURL is where melwalletd listens out of the box.
	DefaultBaseURL = "http://127.0.0.1:11773"

	defaultTimeout = 30 * time.Second
)

// Protocol selects how operations are put on the wire.
type Protocol string

const (
	ProtocolREST    Protocol = "rest"
	ProtocolJSONRPC Protocol = "jsonrpc"
)

// ParseProtocol accepts "rest" or "jsonrpc", case-insensitively.
func ParseProtocol(s string) (Protocol, error) {
	switch p := Protocol(strings.ToLower(strings.TrimSpace(s))); p {
	case ProtocolREST, ProtocolJSONRPC:
		return p, nil
	case "":
		return ProtocolREST, nil
	default:
		return "", apperror.New(apperror.CodeConfigurationError,
			apperror.WithField("daemon.protocol"),
			apperror.WithMessage(fmt.Sprintf("unknown protocol %q", s)))
	}
}

// Config holds configuration for the daemon client.
type Config struct {
	BaseURL  string        // daemon address (empty = DefaultBaseURL)
	Protocol Protocol      // rest or jsonrpc
	Timeout  time.Duration // per-request timeout, enforced by the transport
}

// DefaultConfig returns the local-daemon defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Protocol: ProtocolREST,
		Timeout:  defaultTimeout,
	}
}

// Operations whose "no such thing" answer is a 404 (REST) or a null result
// (JSON-RPC).
var notFoundOps = map[Operation]bool{
	OpTxStatus:     true,
	OpTxBalance:    true,
	OpPoolInfo:     true,
	OpSimulateSwap: true,
}

type clientMetrics struct {
	calls   metric.Int64Counter
	latency metric.Float64Histogram
}

// Client talks to one melwalletd instance. It holds no mutable state after
// construction and is safe for concurrent use.
type Client struct {
	http     httpclient.Client
	protocol Protocol
	baseURL  string
	logger   logger.LoggerInterface
	tracer   trace.Tracer
	metrics  *clientMetrics
}

// NewClient creates a daemon client. Extra options are passed to the
// underlying HTTP client after the defaults, so they win.
func NewClient(cfg Config, log logger.LoggerInterface, opts ...httpclient.ClientOption) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	protocol := cfg.Protocol
	if protocol == "" {
		protocol = ProtocolREST
	}
	if log == nil {
		log = logger.Discard()
	}

	tracer := otel.Tracer(tracerName)

	base := []httpclient.ClientOption{
		httpclient.WithProviderName("melwalletd"),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithTracer(tracer, false),
		httpclient.WithHeaders(map[string]string{
			"Accept":       "application/json",
			"Content-Type": "application/json",
		}),
	}
	hc, err := httpclient.NewInstrumentedClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	c := &Client{
		http:     hc,
		protocol: protocol,
		baseURL:  baseURL,
		logger:   log,
		tracer:   tracer,
	}
	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return c, nil
}

func (c *Client) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &clientMetrics{}

	c.metrics.calls, err = meter.Int64Counter(
		"melwalletd_calls_total",
		metric.WithDescription("Total daemon calls by operation and outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return err
	}

	c.metrics.latency, err = meter.Float64Histogram(
		"melwalletd_call_duration_ms",
		metric.WithDescription("Daemon call latency including decode and validation"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Protocol reports the wire variant in use.
func (c *Client) Protocol() Protocol { return c.protocol }

// BaseURL reports the daemon address.
func (c *Client) BaseURL() string { return c.baseURL }

// call runs one operation through the full pipeline: transport, status
// check, decode, shape validation, mapping. Nothing is retried.
func call[T any](ctx context.Context, c *Client, op Operation, p Params, s shape.Shape, mapFn func(wirecodec.Value) (T, error)) (T, error) {
	var out T
	err := c.observe(ctx, op, func(ctx context.Context) (int, error) {
		v, status, err := c.exchange(ctx, op, p, true)
		if err != nil {
			return status, err
		}
		if v == nil && notFoundOps[op] {
			return status, notFound(op, 0, nil)
		}
		if err := shape.Validate(v, s); err != nil {
			return status, validationError(op, "", err)
		}
		mapped, err := mapFn(v)
		if err != nil {
			return status, withOperation(op, err)
		}
		out = mapped
		return status, nil
	})
	return out, err
}

// callUnit runs an operation whose success carries no payload. A REST
// response body is not inspected.
func (c *Client) callUnit(ctx context.Context, op Operation, p Params) error {
	return c.observe(ctx, op, func(ctx context.Context) (int, error) {
		_, status, err := c.exchange(ctx, op, p, c.protocol == ProtocolJSONRPC)
		return status, err
	})
}

// observe wraps one call in a span, records its outcome and latency, and
// logs it.
func (c *Client) observe(ctx context.Context, op Operation, fn func(context.Context) (int, error)) error {
	ctx, span := c.tracer.Start(ctx, "melwalletd."+string(op),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("melwalletd.operation", string(op)),
			attribute.String("melwalletd.protocol", string(c.protocol)),
		),
	)
	defer span.End()

	start := time.Now()
	status, err := fn(ctx)
	elapsed := time.Since(start)

	outcome := "OK"
	if err != nil {
		outcome = string(apperror.GetCode(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	if status != 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", string(op)),
		attribute.String("outcome", outcome),
	)
	c.metrics.calls.Add(ctx, 1, attrs)
	c.metrics.latency.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)

	if err != nil {
		args := []any{"operation", op, "status", status, "latency", elapsed, "error", err}
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if sc := span.SpanContext(); sc.HasTraceID() {
				appErr.WithTraceID(sc.TraceID().String())
			}
			args = append(args, "details", appErr.ToLog())
		}
		c.logger.Warn(ctx, "daemon call failed", args...)
		return err
	}

	c.logger.Debug(ctx, "daemon call",
		"operation", op,
		"protocol", c.protocol,
		"status", status,
		"latency", elapsed)
	return nil
}

func (c *Client) exchange(ctx context.Context, op Operation, p Params, decode bool) (wirecodec.Value, int, error) {
	var (
		d   Descriptor
		err error
	)
	if c.protocol == ProtocolJSONRPC {
		d, err = BuildRPC(op, p, time.Now().UnixNano())
	} else {
		d, err = Build(op, p)
	}
	if err != nil {
		return nil, 0, err
	}

	req := c.http.NewRequestWithOptions(
		httpclient.WithAttributes(attribute.String("operation", string(op))),
		httpclient.WithResponseErrorHandler(statusHandler(op)),
	)
	if d.Body != nil {
		req = req.SetBody(d.Body)
	}

	resp, err := req.Send(ctx, d.Method, d.Path())
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		var te *httpclient.TransportError
		if errors.As(err, &te) {
			return nil, status, apperror.Transport(string(op), te)
		}
		return nil, status, err
	}

	if !decode {
		return nil, resp.StatusCode, nil
	}

	v, err := wirecodec.Decode(resp.Body())
	if err != nil {
		return nil, resp.StatusCode, apperror.Decode(string(op), resp.Body(), err)
	}

	if c.protocol == ProtocolJSONRPC {
		v, err = unwrapRPC(op, v)
		if err != nil {
			return nil, resp.StatusCode, err
		}
	}
	return v, resp.StatusCode, nil
}

// statusHandler turns a non-2xx response into HTTP_STATUS_ERROR, or
// NOT_FOUND for a 404 on a lookup operation. The body is kept verbatim.
func statusHandler(op Operation) httpclient.ResponseErrorHandler {
	return func(status int, body []byte) error {
		if status >= 200 && status < 300 {
			return nil
		}
		if status == http.StatusNotFound && notFoundOps[op] {
			return notFound(op, status, body)
		}
		return apperror.HTTPStatus(string(op), status, body)
	}
}

func notFound(op Operation, status int, body []byte) error {
	opts := []apperror.Option{apperror.WithContext(string(op))}
	if status != 0 {
		opts = append(opts, apperror.WithStatusCode(status), apperror.WithBody(body))
	}
	return apperror.New(apperror.CodeNotFound, opts...)
}

// validationError converts a shape failure into VALIDATION_ERROR. The path
// is prefixed when the shape was checked below the response root.
func validationError(op Operation, prefix string, err error) error {
	var se *shape.Error
	if !errors.As(err, &se) {
		return apperror.Wrap(err, apperror.CodeValidationError, string(op))
	}
	path := se.Path
	switch {
	case prefix == "":
	case path == "":
		path = prefix
	case strings.HasPrefix(path, "["):
		path = prefix + path
	default:
		path = prefix + "." + path
	}
	return apperror.Validation(string(op), path, se.Expected, se.Actual)
}

// withOperation stamps the operation on mapper errors, which are built
// without one.
func withOperation(op Operation, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Context == "" {
		appErr.Context = string(op)
	}
	return err
}
