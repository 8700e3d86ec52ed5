// Package httpclient provides an HTTP client that traces and counts every
// request it sends.
package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type clientConfig struct {
	client         *http.Client
	roundTripper   http.RoundTripper
	requestTimeout *time.Duration
	meterProvider  metric.MeterProvider
	tracer         trace.Tracer
	providerName   string
	baseURL        string
	headers        map[string]string
	logResponse    bool
}

// ClientOption configures NewInstrumentedClient.
type ClientOption func(*clientConfig)

func newClientConfig(opts []ClientOption) clientConfig {
	var c clientConfig
	for _, o := range opts {
		o(&c)
	}
	return c
}

// WithHTTPClient uses c instead of a fresh http.Client. Its transport is
// wrapped, not replaced.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cfg *clientConfig) { cfg.client = c }
}

// WithRoundTripper replaces the base transport. Tests use it to fake the
// network.
func WithRoundTripper(rt http.RoundTripper) ClientOption {
	return func(cfg *clientConfig) { cfg.roundTripper = rt }
}

// WithRequestTimeout bounds every request. Zero disables the bound.
func WithRequestTimeout(timeout time.Duration) ClientOption {
	return func(cfg *clientConfig) { cfg.requestTimeout = &timeout }
}

func WithMeterProvider(mp metric.MeterProvider) ClientOption {
	return func(cfg *clientConfig) { cfg.meterProvider = mp }
}

// WithProviderName tags metrics and spans with the remote system's name.
func WithProviderName(name string) ClientOption {
	return func(cfg *clientConfig) { cfg.providerName = name }
}

// WithBaseURL is prefixed to every request path.
func WithBaseURL(url string) ClientOption {
	return func(cfg *clientConfig) { cfg.baseURL = url }
}

// WithHeaders are sent on every request. Per-request headers win.
func WithHeaders(headers map[string]string) ClientOption {
	return func(cfg *clientConfig) { cfg.headers = headers }
}

// WithTracer sets the tracer. With logResponse, response bodies are added to
// the span as events; request bodies never are, since they carry passwords.
func WithTracer(tracer trace.Tracer, logResponse bool) ClientOption {
	return func(cfg *clientConfig) {
		cfg.tracer = tracer
		cfg.logResponse = logResponse
	}
}

type requestConfig struct {
	errorHandler ResponseErrorHandler
	attrs        []attribute.KeyValue
}

// RequestOption configures one request.
type RequestOption func(*requestConfig)

// ResponseErrorHandler inspects a received response and returns the error it
// represents, or nil when the body should be handed to the caller.
type ResponseErrorHandler func(statusCode int, body []byte) error

func WithResponseErrorHandler(handler ResponseErrorHandler) RequestOption {
	return func(cfg *requestConfig) { cfg.errorHandler = handler }
}

// WithAttributes adds attributes to the request's span and metric points.
func WithAttributes(attrs ...attribute.KeyValue) RequestOption {
	return func(cfg *requestConfig) { cfg.attrs = append(cfg.attrs, attrs...) }
}
