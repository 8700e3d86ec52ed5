// Package metrics sets up the OpenTelemetry meter provider and the
// Prometheus scrape endpoint.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	metric2 "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"

	"github.com/fd1az/melwalletd-client/internal/logger"
)

const defaultPromPort = "2223"

type MetricProvider interface {
	Meter(name string, options ...metric.MeterOption) metric.Meter
	Shutdown(ctx context.Context) error
}

func getReaders(ctx context.Context, cfg Config) ([]metric2.Reader, error) {
	var readers []metric2.Reader

	for _, provider := range cfg.Provider {
		switch provider.Provider {
		case PrometheusProvider:
			promExporter, err := prometheus.New()
			if err != nil {
				return nil, err
			}
			readers = append(readers, promExporter)
		case OtelCollector:
			opts := []otlpmetricgrpc.Option{
				otlpmetricgrpc.WithEndpointURL(provider.Endpoint),
				otlpmetricgrpc.WithHeaders(provider.Headers),
			}
			if provider.Insecure {
				opts = append(opts, otlpmetricgrpc.WithInsecure())
			}

			exp, err := otlpmetricgrpc.New(ctx, opts...)
			if err != nil {
				return nil, err
			}

			var periodic []metric2.PeriodicReaderOption
			if provider.Interval > 0 {
				periodic = append(periodic, metric2.WithInterval(provider.Interval))
			}
			readers = append(readers, metric2.NewPeriodicReader(exp, periodic...))
		default:
			return nil, fmt.Errorf("unknown metrics provider %q", provider.Provider)
		}
	}

	return readers, nil
}

// NewMetricProvider builds a meter provider from the given readers and
// installs it globally.
func NewMetricProvider(options ...OptionFn) (MetricProvider, error) {
	var cfg Config
	for _, opt := range options {
		cfg = opt(cfg)
	}

	readers, err := getReaders(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	metricsOps := []metric2.Option{
		metric2.WithResource(resource.NewSchemaless(semconv.ServiceNameKey.String(cfg.ServiceName))),
	}
	for _, reader := range readers {
		metricsOps = append(metricsOps, metric2.WithReader(reader))
	}

	meterProvider := metric2.NewMeterProvider(metricsOps...)
	otel.SetMeterProvider(meterProvider)

	return meterProvider, nil
}

// PromServer serves /metrics from the default Prometheus registry.
type PromServer struct {
	server *http.Server
	log    logger.LoggerInterface
}

// NewPromServer creates the scrape server without starting it.
func NewPromServer(log logger.LoggerInterface, opt ...PromOptionFn) *PromServer {
	var cfg PromServerConfig
	for _, o := range opt {
		cfg = o(cfg)
	}
	port := cfg.port
	if port == "" {
		port = defaultPromPort
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &PromServer{
		server: &http.Server{
			Addr:              net.JoinHostPort("", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Handler exposes the mux, mainly for tests.
func (s *PromServer) Handler() http.Handler {
	return s.server.Handler
}

// Start listens in the background.
func (s *PromServer) Start() {
	s.log.Info(context.Background(), "serving metrics", "addr", s.server.Addr, "path", "/metrics")
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(context.Background(), "metrics server stopped", "error", err)
		}
	}()
}

// Stop shuts the server down.
func (s *PromServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
