// Package wallet wires the wallet bounded context: a melwalletd client and
// the handles built on top of it.
package wallet

import (
	"context"
	"time"

	"github.com/fd1az/melwalletd-client/business/wallet/app"
	walletDI "github.com/fd1az/melwalletd-client/business/wallet/di"
	"github.com/fd1az/melwalletd-client/business/wallet/infra/melwalletd"
	"github.com/fd1az/melwalletd-client/internal/config"
	"github.com/fd1az/melwalletd-client/internal/di"
	"github.com/fd1az/melwalletd-client/internal/logger"
	"github.com/fd1az/melwalletd-client/internal/monolith"
)

const probeTimeout = 5 * time.Second

// Module implements the wallet bounded context.
type Module struct {
	// Probe makes Startup fetch the latest header once so an unreachable
	// daemon is reported up front.
	Probe bool
}

// RegisterServices registers all wallet services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	cfg := c.Get("config").(*config.Config)

	protocol, err := melwalletd.ParseProtocol(cfg.Daemon.Protocol)
	if err != nil {
		return err
	}
	faucetAmount, err := cfg.Faucet.AmountInt()
	if err != nil {
		return err
	}
	clientCfg := melwalletd.Config{
		BaseURL:  cfg.Daemon.URL,
		Protocol: protocol,
		Timeout:  cfg.Daemon.Timeout,
	}

	di.RegisterToken(c, walletDI.DaemonClient, func(sr di.ServiceRegistry) *melwalletd.Client {
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := melwalletd.NewClient(clientCfg, log)
		if err != nil {
			panic("failed to create melwalletd client: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, walletDI.Confirmer, func(sr di.ServiceRegistry) *app.Confirmer {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewConfirmer(walletDI.GetDaemonClient(sr), app.ConfirmerConfig{
			PollInterval: cfg.Confirm.PollInterval,
			Timeout:      cfg.Confirm.Timeout,
			MaxFailures:  cfg.Confirm.MaxFailures,
		}, log)
	})

	di.RegisterToken(c, walletDI.DaemonHandle, func(sr di.ServiceRegistry) *app.DaemonHandle {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewDaemonHandle(walletDI.GetDaemonClient(sr), log,
			app.WithFaucetAmount(faucetAmount),
			app.WithConfirmer(walletDI.GetConfirmer(sr)),
		)
	})

	return nil
}

// Startup initializes the wallet module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	client := walletDI.GetDaemonClient(mono.Services())

	if m.Probe {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()

		header, err := client.LatestHeader(probeCtx)
		if err != nil {
			return err
		}
		log.Info(ctx, "melwalletd reachable",
			"url", client.BaseURL(),
			"network", header.Network.String(),
			"height", header.Height.String())
	}

	log.Debug(ctx, "wallet module started",
		"url", client.BaseURL(),
		"protocol", string(client.Protocol()))
	return nil
}
