package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/fd1az/melwalletd-client/business/wallet/domain"
	"github.com/fd1az/melwalletd-client/internal/apperror"
	"github.com/fd1az/melwalletd-client/internal/circuitbreaker"
	"github.com/fd1az/melwalletd-client/internal/logger"
	"github.com/fd1az/melwalletd-client/internal/ratelimit"
)

// ConfirmerConfig holds polling settings for Confirmer.
type ConfirmerConfig struct {
	PollInterval time.Duration // time between status polls
	Timeout      time.Duration // overall bound on one Wait; zero = ctx only
	MaxFailures  uint32        // consecutive daemon failures before giving up
}

// DefaultConfirmerConfig polls every five seconds for up to five minutes.
func DefaultConfirmerConfig() ConfirmerConfig {
	return ConfirmerConfig{
		PollInterval: 5 * time.Second,
		Timeout:      5 * time.Minute,
		MaxFailures:  5,
	}
}

// Confirmer waits for transactions to be confirmed by polling their
// status. Each poll is a plain daemon call; the pacing and failure budget
// live here, not in the client.
type Confirmer struct {
	reader  TxStatusReader
	config  ConfirmerConfig
	limiter *ratelimit.Limiter
	cb      *circuitbreaker.CircuitBreaker[domain.TransactionStatus]
	logger  logger.LoggerInterface
}

// NewConfirmer creates a Confirmer over reader.
func NewConfirmer(reader TxStatusReader, cfg ConfirmerConfig, log logger.LoggerInterface) *Confirmer {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfirmerConfig().PollInterval
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultConfirmerConfig().MaxFailures
	}
	if log == nil {
		log = logger.Discard()
	}

	c := &Confirmer{
		reader:  reader,
		config:  cfg,
		limiter: ratelimit.Every(cfg.PollInterval),
		logger:  log,
	}

	cbCfg := circuitbreaker.DefaultConfig("tx-confirmer")
	cbCfg.FailureThreshold = cfg.MaxFailures
	cbCfg.IsSuccessful = func(err error) bool {
		return err == nil || !retryable(err)
	}
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		c.logger.Warn(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	c.cb = circuitbreaker.New[domain.TransactionStatus](cbCfg)

	return c
}

// Wait polls until hash is confirmed in wallet and returns its final status.
//
// A hash the daemon does not know yet is treated as pending. Transport
// failures and 5xx replies are tolerated until MaxFailures in a row, after
// which Wait fails with CIRCUIT_OPEN. Any other error ends the wait at once.
// Running out of time yields CONFIRMATION_TIMEOUT.
func (c *Confirmer) Wait(ctx context.Context, wallet string, hash domain.Hash) (domain.TransactionStatus, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	polls := 0
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.TransactionStatus{}, c.timeout(ctx, hash, err)
		}
		polls++

		status, err := c.cb.Execute(func() (domain.TransactionStatus, error) {
			return c.reader.TxStatus(ctx, wallet, hash)
		})

		switch {
		case err == nil && status.Confirmed():
			c.logger.Info(ctx, "transaction confirmed",
				"wallet", wallet,
				"hash", hash.String(),
				"height", status.ConfirmedHeight.String(),
				"polls", polls)
			return status, nil
		case err == nil, apperror.IsNotFound(err):
			c.logger.Debug(ctx, "transaction pending", "hash", hash.String(), "polls", polls)
		case ctx.Err() != nil:
			return domain.TransactionStatus{}, c.timeout(ctx, hash, err)
		case retryable(err):
			c.logger.Warn(ctx, "status poll failed", "hash", hash.String(), "error", err)
		default:
			return domain.TransactionStatus{}, err
		}
	}
}

func (c *Confirmer) timeout(ctx context.Context, hash domain.Hash, cause error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	return apperror.New(apperror.CodeConfirmationTimeout,
		apperror.WithContext(hash.String()),
		apperror.WithMessage("transaction not confirmed in time"),
		apperror.WithCause(cause),
	)
}

// retryable reports whether a failed poll is worth repeating.
func retryable(err error) bool {
	if apperror.IsTransport(err) {
		return true
	}
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == apperror.CodeHTTPStatusError && appErr.StatusCode >= http.StatusInternalServerError
}
