package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fd1az/melwalletd-client/business/wallet/app"
	"github.com/fd1az/melwalletd-client/business/wallet/domain"
	"github.com/fd1az/melwalletd-client/business/wallet/infra/melwalletd"
	"github.com/fd1az/melwalletd-client/internal/health"
	"github.com/fd1az/melwalletd-client/internal/wirecodec"
)

func init() {
	rootCmd.AddCommand(headerCmd, poolCmd, simulateCmd, monitorCmd)
}

var headerCmd = &cobra.Command{
	Use:   "header",
	Short: "Show the latest block header",
	Args:  cobra.NoArgs,
	RunE: run(func(ctx context.Context, h *app.DaemonHandle, _ []string) (wirecodec.Value, error) {
		header, err := h.LatestHeader(ctx)
		if err != nil {
			return nil, err
		}
		return melwalletd.HeaderToWire(header), nil
	}),
}

var poolCmd = &cobra.Command{
	Use:   "pool LEFT RIGHT",
	Short: "Show a melswap pool, e.g. pool MEL SYM",
	Args:  cobra.ExactArgs(2),
	RunE: run(func(ctx context.Context, h *app.DaemonHandle, args []string) (wirecodec.Value, error) {
		left, err := parseDenom(args[0])
		if err != nil {
			return nil, err
		}
		right, err := parseDenom(args[1])
		if err != nil {
			return nil, err
		}
		pool, err := h.PoolInfo(ctx, domain.PoolKey{Left: left, Right: right})
		if err != nil {
			return nil, err
		}
		return melwalletd.PoolStateToWire(pool), nil
	}),
}

var simulateCmd = &cobra.Command{
	Use:   "simulate FROM TO VALUE",
	Short: "Quote a swap without sending it",
	Args:  cobra.ExactArgs(3),
	RunE: run(func(ctx context.Context, h *app.DaemonHandle, args []string) (wirecodec.Value, error) {
		from, err := parseDenom(args[0])
		if err != nil {
			return nil, err
		}
		to, err := parseDenom(args[1])
		if err != nil {
			return nil, err
		}
		value, err := parseValue(from, args[2])
		if err != nil {
			return nil, err
		}
		info, err := h.SimulateSwap(ctx, from, to, value)
		if err != nil {
			return nil, err
		}
		return melwalletd.SwapInfoToWire(info), nil
	}),
}

var monitorCmd = &cobra.Command{
	Use:         "monitor",
	Short:       "Follow the chain head and serve /health, /ready and /live",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{longRunning: "true"},
	RunE: run(func(ctx context.Context, h *app.DaemonHandle, _ []string) (wirecodec.Value, error) {
		watcher := app.NewHeaderWatcher(h, env.cfg.Monitor.Interval, env.log)

		srv := health.NewServer(env.cfg.Monitor.HealthPort, version, env.log)
		srv.RegisterCheck("melwalletd", watcher.Healthy)
		srv.Start()
		env.log.Info(ctx, "health server started", "port", env.cfg.Monitor.HealthPort)
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			srv.Stop(stopCtx)
		}()

		watcher.Run(ctx)

		header, err := watcher.Last()
		if err != nil {
			return nil, err
		}
		return melwalletd.HeaderToWire(header), nil
	}),
}
