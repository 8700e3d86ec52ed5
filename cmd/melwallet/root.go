package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/fd1az/melwalletd-client/business/wallet"
	"github.com/fd1az/melwalletd-client/business/wallet/app"
	walletDI "github.com/fd1az/melwalletd-client/business/wallet/di"
	"github.com/fd1az/melwalletd-client/internal/apm"
	"github.com/fd1az/melwalletd-client/internal/apperror"
	"github.com/fd1az/melwalletd-client/internal/config"
	"github.com/fd1az/melwalletd-client/internal/logger"
	"github.com/fd1az/melwalletd-client/internal/metrics"
	"github.com/fd1az/melwalletd-client/internal/monolith"
)

const (
	tracerName = "github.com/fd1az/melwalletd-client/cmd/melwallet"

	// Commands carrying this annotation run until interrupted and get a
	// Prometheus endpoint when telemetry is on.
	longRunning = "long-running"
	// Commands carrying this annotation check the daemon is reachable
	// before doing anything else.
	probeDaemon = "probe-daemon"

	shutdownTimeout = 5 * time.Second
)

var (
	configPath string
	daemonURL  string
	protocol   string
	logLevel   string

	env *runtimeEnv
)

// runtimeEnv is what every subcommand runs against.
type runtimeEnv struct {
	cfg    *config.Config
	log    *logger.Logger
	handle *app.DaemonHandle
	tracer apm.Tracer

	traces  apm.TraceProvider
	meters  metrics.MetricProvider
	promSrv *metrics.PromServer
}

var rootCmd = &cobra.Command{
	Use:           "melwallet",
	Short:         "Talk to a melwalletd wallet daemon",
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		env = e
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to configuration file")
	pf.StringVar(&daemonURL, "url", "", "melwalletd address (overrides daemon.url)")
	pf.StringVar(&protocol, "protocol", "", "rest or jsonrpc (overrides daemon.protocol)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides app.log_level)")
}

func setup(cmd *cobra.Command) (*runtimeEnv, error) {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if daemonURL != "" {
		cfg.Daemon.URL = daemonURL
	}
	if protocol != "" {
		cfg.Daemon.Protocol = protocol
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeConfigurationError, "flags")
	}

	e := &runtimeEnv{
		cfg:    cfg,
		log:    logger.New(os.Stderr, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, nil),
		tracer: apm.NewTracer(tracerName),
	}

	if err := e.startTelemetry(ctx, cmd.Annotations[longRunning] != ""); err != nil {
		return nil, err
	}

	mono := monolith.New(cfg, e.log)
	modules := []monolith.Module{
		&wallet.Module{Probe: cmd.Annotations[probeDaemon] != ""},
	}
	if err := mono.RegisterModules(modules...); err != nil {
		return nil, fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		return nil, err
	}

	e.handle = walletDI.GetDaemonHandle(mono.Services())
	return e, nil
}

// metricsConfig sends metrics to the OTLP collector when spans go to one over
// gRPC, and to a Prometheus scrape endpoint otherwise.
func metricsConfig(t config.TelemetryConfig) (metrics.ProviderCfg, error) {
	if apm.Provider(t.Provider) != apm.OTLPGRPCProvider {
		return metrics.ProviderCfg{Provider: metrics.PrometheusProvider}, nil
	}
	headers, err := apm.ParseHeaders(t.OTLPHeaders)
	if err != nil {
		return metrics.ProviderCfg{}, err
	}
	return metrics.NewOtelCollectorConfig(t.OTLPEndpoint, headers, false), nil
}

func (e *runtimeEnv) startTelemetry(ctx context.Context, serveMetrics bool) error {
	t := e.cfg.Telemetry
	if !t.Enabled {
		e.traces = apm.NewEmptyTraceProvider()
		return nil
	}

	traces, err := apm.NewTraceProvider(e.log, apm.Config{
		Provider:    apm.Provider(t.Provider),
		ServiceName: t.ServiceName,
		Endpoint:    t.OTLPEndpoint,
		Headers:     t.OTLPHeaders,
	})
	if err != nil {
		return apperror.Wrap(err, apperror.CodeConfigurationError, "telemetry")
	}
	e.traces = traces

	if !serveMetrics {
		return nil
	}

	reader, err := metricsConfig(t)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeConfigurationError, "telemetry")
	}
	meters, err := metrics.NewMetricProvider(
		metrics.WithServiceName(t.ServiceName),
		metrics.WithProviderConfig(reader),
	)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeConfigurationError, "telemetry")
	}
	e.meters = meters
	if reader.Provider != metrics.PrometheusProvider {
		e.log.Info(ctx, "exporting metrics", "provider", string(reader.Provider), "endpoint", reader.Endpoint)
		return nil
	}

	e.promSrv = metrics.NewPromServer(e.log, metrics.WithPort(strconv.Itoa(t.PrometheusPort)))
	e.promSrv.Start()
	e.log.Info(ctx, "prometheus metrics server started", "port", t.PrometheusPort)
	return nil
}

// shutdown flushes telemetry. It runs after the command, failed or not.
func (e *runtimeEnv) shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if e.promSrv != nil {
		if err := e.promSrv.Stop(ctx); err != nil {
			e.log.Warn(ctx, "metrics server shutdown", "error", err)
		}
	}
	if e.meters != nil {
		if err := e.meters.Shutdown(ctx); err != nil {
			e.log.Warn(ctx, "meter provider shutdown", "error", err)
		}
	}
	if err := e.traces.Stop(); err != nil {
		e.log.Warn(ctx, "trace provider shutdown", "error", err)
	}
}
